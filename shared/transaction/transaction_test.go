package transaction_test

import (
	"errors"
	"fmt"
	"hms/shared/transaction"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "serialization failure",
			err:      &pq.Error{Code: "40001"},
			expected: true,
		},
		{
			name:     "wrapped deadlock",
			err:      fmt.Errorf("insert booking: %w", &pq.Error{Code: "40P01"}),
			expected: true,
		},
		{
			name:     "exclusion violation",
			err:      &pq.Error{Code: "23P01"},
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("connection refused"),
			expected: false,
		},
		{
			name:     "nil",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, transaction.IsRetryable(tt.err))
		})
	}
}

func TestPqCodeAndConstraint(t *testing.T) {
	err := fmt.Errorf("failed to insert data (customer): %w", &pq.Error{Code: "23505", Constraint: "customers_pkey"})

	assert.Equal(t, "23505", transaction.PqCode(err))
	assert.Equal(t, "customers_pkey", transaction.Constraint(err))
	assert.Empty(t, transaction.PqCode(errors.New("boom")))
	assert.Empty(t, transaction.Constraint(errors.New("boom")))
}
