package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "message only",
			err: &Error{
				Code:    EINVALID,
				Message: "invalid input",
			},
			expected: "invalid input",
		},
		{
			name: "with operation",
			err: &Error{
				Code:    EINVALID,
				Op:      "checkout.submit",
				Message: "invalid input",
			},
			expected: "checkout.submit: invalid input",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "records.create",
				Message: "failed to save",
				Err:     errors.New("database connection failed"),
			},
			expected: "records.create: failed to save: database connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &Error{
		Code:    EINTERNAL,
		Message: "wrapped",
		Err:     underlying,
	}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "domain error",
			err:      &Error{Code: EINVALID, Message: "test"},
			expected: EINVALID,
		},
		{
			name:     "wrapped domain error",
			err:      fmt.Errorf("wrapped: %w", &Error{Code: ENOTFOUND, Message: "test"}),
			expected: ENOTFOUND,
		},
		{
			name:     "non-domain error",
			err:      errors.New("some error"),
			expected: EINTERNAL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	if got := ErrorMessage(&Error{Code: EFORBIDDEN, Message: "Write rejected, please sign in again"}); got != "Write rejected, please sign in again" {
		t.Errorf("ErrorMessage() = %q", got)
	}

	// Internal details never leak to users.
	internal := &Error{Code: EINTERNAL, Message: "pool exhausted", Err: errors.New("pq: too many connections")}
	if got := ErrorMessage(internal); got != "An internal error occurred. Please try again later." {
		t.Errorf("ErrorMessage() = %q", got)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("checkout.validate", "Email", "Please enter a valid email address")

	if !IsValidationError(err) {
		t.Fatal("expected a validation error")
	}
	fields := GetValidationFields(err)
	if fields["Email"] != "Please enter a valid email address" {
		t.Errorf("GetValidationFields() = %v", fields)
	}

	if IsValidationError(errors.New("plain")) {
		t.Error("plain errors are not validation errors")
	}
}
