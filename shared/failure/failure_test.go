package failure_test

import (
	"errors"
	"fmt"
	"hms/shared/failure"
	"net/http"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestPredefinedFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
		message string
	}{
		{
			name:    "InvalidDateRange",
			failure: failure.InvalidDateRange,
			code:    http.StatusBadRequest,
			message: "check-out date must be after check-in date",
		},
		{
			name:    "CheckinInPast",
			failure: failure.CheckinInPast,
			code:    http.StatusBadRequest,
			message: "check-in date cannot be in the past",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.failure.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, tt.failure.Code)
			}
			if tt.failure.Message != tt.message {
				t.Errorf("expected message to be %s, got %s", tt.message, tt.failure.Message)
			}
		})
	}
}

func TestBadRequest(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{
			name:     "with error",
			input:    errors.New("validation failed"),
			expected: &failure.Failure{Code: http.StatusBadRequest, Message: "validation failed"},
		},
		{
			name:     "with nil error",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.BadRequest(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}
			} else {
				f, ok := result.(*failure.Failure)
				if !ok {
					t.Errorf("expected result to be *failure.Failure, got %T", result)
				} else {
					expectedF := tt.expected.(*failure.Failure)
					if f.Code != expectedF.Code || f.Message != expectedF.Message {
						t.Errorf("expected %+v, got %+v", expectedF, f)
					}
				}
			}
		})
	}
}

func TestNotFoundAndConflict(t *testing.T) {
	if code := failure.GetCode(failure.NotFound("customer not found")); code != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, code)
	}

	if code := failure.GetCode(failure.Conflict("duplicate")); code != http.StatusConflict {
		t.Errorf("expected %d, got %d", http.StatusConflict, code)
	}
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	err := failure.Unavailable(cause)

	if err.Error() != failure.MessageStorageUnavailable {
		t.Errorf("expected non-committal message, got %s", err.Error())
	}

	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable through errors.Is")
	}

	if !failure.IsUnavailable(err) {
		t.Error("expected IsUnavailable to be true")
	}

	if failure.Unavailable(nil) != nil {
		t.Error("expected nil for nil cause")
	}

	notFound := failure.NotFound("customer not found")
	if got := failure.Unavailable(notFound); got != notFound {
		t.Errorf("expected existing failure to pass through, got %v", got)
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("outer: %w", failure.BadRequestFromString("test")),
			expected: http.StatusBadRequest,
		},
		{
			name:     "storage failure",
			input:    failure.Unavailable(errors.New("timeout")),
			expected: http.StatusServiceUnavailable,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.GetCode(tt.input)
			if result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
		})
	}
}
