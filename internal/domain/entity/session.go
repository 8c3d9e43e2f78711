package entity

import (
	"time"

	"medibook-server/internal/wizard"

	"github.com/google/uuid"
)

// SMSStatus tracks the simulated confirmation-SMS delivery.
type SMSStatus string

const (
	SMSStatusIdle    SMSStatus = "idle"
	SMSStatusSending SMSStatus = "sending"
	SMSStatusSent    SMSStatus = "sent"
)

// FormSession is the state of one linear form wizard run.
type FormSession struct {
	ID            uuid.UUID          `json:"id"`
	Stage         wizard.FormStage   `json:"stage"`
	Data          wizard.Appointment `json:"data"`
	Errors        map[string]string  `json:"errors"`
	CodeRequested bool               `json:"code_requested"`
	SMSStatus     SMSStatus          `json:"sms_status"`
	LinePrefilled bool               `json:"line_prefilled"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewFormSession creates a fresh session at the phone verification stage.
func NewFormSession() *FormSession {
	now := time.Now()
	return &FormSession{
		ID:        uuid.New(),
		Stage:     wizard.StageVerifyPhone,
		Errors:    map[string]string{},
		SMSStatus: SMSStatusIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetErrors replaces the field error map.
func (s *FormSession) SetErrors(errs map[string]string) {
	if errs == nil {
		errs = map[string]string{}
	}
	s.Errors = errs
}

// ClearErrors drops all field errors. Called on every successful transition.
func (s *FormSession) ClearErrors() {
	s.Errors = map[string]string{}
}
