package converter

import (
	"medibook-server/internal/delivery/dto"
	"medibook-server/internal/domain/entity"
	"medibook-server/internal/wizard"
)

// AppointmentToResponse converts the accumulated appointment record.
func AppointmentToResponse(appt *wizard.Appointment) *dto.AppointmentResponse {
	if appt == nil {
		return nil
	}
	return &dto.AppointmentResponse{
		PhoneNumber: appt.PhoneNumber,
		Date:        appt.Date,
		Name:        appt.Name,
		Birthday:    appt.Birthday,
		IDNumber:    appt.IDNumber,
		Doctor:      DoctorToResponse(appt.Doctor),
		TimeSlot:    TimeSlotToResponse(appt.TimeSlot),
		VisitType:   VisitTypeToResponse(appt.VisitType),
		LineUserID:  appt.LineUserID,
	}
}

// FormSessionToResponse converts a FormSession entity to its DTO.
// The resend countdown and session token are request-scoped and filled in
// by the usecase.
func FormSessionToResponse(session *entity.FormSession) *dto.FormSessionResponse {
	if session == nil {
		return nil
	}
	response := &dto.FormSessionResponse{
		ID:            session.ID.String(),
		Stage:         string(session.Stage),
		Data:          AppointmentToResponse(&session.Data),
		CodeRequested: session.CodeRequested,
		SMSStatus:     string(session.SMSStatus),
		LinePrefilled: session.LinePrefilled,
	}
	if len(session.Errors) > 0 {
		response.Errors = session.Errors
	}
	return response
}

// ChatSessionToResponse converts a ChatSession entity to its DTO.
func ChatSessionToResponse(session *entity.ChatSession) *dto.ChatSessionResponse {
	if session == nil {
		return nil
	}
	messages := make([]dto.ChatMessageResponse, len(session.Messages))
	for i, msg := range session.Messages {
		messages[i] = dto.ChatMessageResponse{
			ID:        msg.ID,
			Text:      msg.Text,
			Sender:    string(msg.Sender),
			Timestamp: msg.Timestamp,
			DelayMs:   msg.DelayMs,
		}
	}
	return &dto.ChatSessionResponse{
		ID:        session.ID.String(),
		Step:      string(session.Step),
		Data:      AppointmentToResponse(&session.Data),
		Messages:  messages,
		SMSStatus: string(session.SMSStatus),
	}
}
