package dto

// Request DTOs

type StartFormSessionRequest struct {
	// Optional LINE access token; when the integration is configured the
	// profile pre-fills name and LINE user id.
	LineAccessToken string `json:"line_access_token,omitempty"`
}

type SendCodeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
}

type VerifyCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

type SubmitAppointmentRequest struct {
	Name        string `json:"name"`
	Birthday    string `json:"birthday"`
	IDNumber    string `json:"id_number"`
	Date        string `json:"date"`
	DoctorID    int    `json:"doctor_id"`
	TimeSlotID  string `json:"time_slot_id"`
	VisitTypeID string `json:"visit_type_id"`
}

// Response DTOs

type FormSessionResponse struct {
	ID                string               `json:"id"`
	Stage             string               `json:"stage"`
	Data              *AppointmentResponse `json:"data"`
	Errors            map[string]string    `json:"errors,omitempty"`
	CodeRequested     bool                 `json:"code_requested"`
	ResendAvailableIn int                  `json:"resend_available_in"`
	SMSStatus         string               `json:"sms_status"`
	LinePrefilled     bool                 `json:"line_prefilled"`
	SessionToken      string               `json:"session_token,omitempty"`
}

type AppointmentResponse struct {
	PhoneNumber string             `json:"phone_number"`
	Date        string             `json:"date"`
	Name        string             `json:"name"`
	Birthday    string             `json:"birthday"`
	IDNumber    string             `json:"id_number"`
	Doctor      *DoctorResponse    `json:"doctor"`
	TimeSlot    *TimeSlotResponse  `json:"time_slot"`
	VisitType   *VisitTypeResponse `json:"visit_type"`
	LineUserID  string             `json:"line_user_id,omitempty"`
}
