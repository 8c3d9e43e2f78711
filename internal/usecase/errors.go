package usecase

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found or expired")
	ErrWrongStage      = errors.New("operation not allowed in current stage")
	ErrCodeMismatch    = errors.New("verification code mismatch")
)

// FieldErrors is a recoverable validation failure. It carries the
// field→message map that is also persisted on the session, so handlers can
// surface inline messages without another lookup. It never advances state.
type FieldErrors struct {
	Fields map[string]string
}

func (e *FieldErrors) Error() string {
	return "validation failed"
}

// NewFieldError builds a single-field FieldErrors.
func NewFieldError(field, message string) *FieldErrors {
	return &FieldErrors{Fields: map[string]string{field: message}}
}
