package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrShutdown = errors.New("shutdown error")

	ErrMissingCredentials = errors.New("mailer credentials are not configured")

	ErrMessageDoesNotExist   = errors.New("message does not exist")
	ErrMessageNotEditable    = errors.New("message has left the editable statuses")
	ErrScheduleTimeRequired  = errors.New("scheduled message requires a schedule time")
	ErrRecipientDoesNotExist = errors.New("recipient does not exist")

	ErrClaimConflict = errors.New("message already claimed by another sweep")

	ErrRateLimited = errors.New("rate limit exceeded")
)

// ValidationError marks input that must not be retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// DeliveryError carries the transport provider's verdict for a single
// send attempt.
type DeliveryError struct {
	StatusCode int
	Message    string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed with status %d: %s", e.StatusCode, e.Message)
}
