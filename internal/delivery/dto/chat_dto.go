package dto

import "time"

// Request DTOs

type ChatInputRequest struct {
	Text string `json:"text" validate:"required"`
}

type SelectDoctorRequest struct {
	DoctorID int `json:"doctor_id" validate:"required,min=1"`
}

type SelectTimeSlotRequest struct {
	TimeSlotID string `json:"time_slot_id" validate:"required"`
}

type SelectVisitTypeRequest struct {
	VisitTypeID string `json:"visit_type_id" validate:"required"`
}

// Response DTOs

type ChatMessageResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	DelayMs   int       `json:"delay_ms,omitempty"`
}

type ChatSessionResponse struct {
	ID        string                `json:"id"`
	Step      string                `json:"step"`
	Data      *AppointmentResponse  `json:"data"`
	Messages  []ChatMessageResponse `json:"messages"`
	SMSStatus string                `json:"sms_status"`
}
