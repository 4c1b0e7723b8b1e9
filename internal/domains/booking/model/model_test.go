package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hms/internal/domains/booking/model"
)

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, model.StatusNotArrived.CanTransitionTo(model.StatusCheckedIn))
	assert.True(t, model.StatusCheckedIn.CanTransitionTo(model.StatusCheckedOut))

	assert.False(t, model.StatusNotArrived.CanTransitionTo(model.StatusCheckedOut))
	assert.False(t, model.StatusCheckedIn.CanTransitionTo(model.StatusNotArrived))
	assert.False(t, model.StatusCheckedOut.CanTransitionTo(model.StatusCheckedIn))
}
