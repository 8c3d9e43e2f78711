package converter

import (
	"medibook-server/internal/delivery/dto"
	"medibook-server/internal/wizard"
)

// DoctorToResponse converts a Doctor catalog entry to its DTO.
func DoctorToResponse(doctor *wizard.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}
	return &dto.DoctorResponse{
		ID:        doctor.ID,
		Name:      doctor.Name,
		Specialty: doctor.Specialty,
		Image:     doctor.Image,
	}
}

// TimeSlotToResponse converts a TimeSlot catalog entry to its DTO.
func TimeSlotToResponse(slot *wizard.TimeSlot) *dto.TimeSlotResponse {
	if slot == nil {
		return nil
	}
	return &dto.TimeSlotResponse{
		ID:    slot.ID,
		Label: slot.Label,
	}
}

// VisitTypeToResponse converts a VisitType catalog entry to its DTO.
func VisitTypeToResponse(visitType *wizard.VisitType) *dto.VisitTypeResponse {
	if visitType == nil {
		return nil
	}
	return &dto.VisitTypeResponse{
		ID:        visitType.ID,
		Label:     visitType.Label,
		Deduction: visitType.Deduction,
	}
}

// DoctorsToListResponse converts the doctor catalog to a list DTO.
func DoctorsToListResponse(doctors []wizard.Doctor) *dto.DoctorListResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return &dto.DoctorListResponse{
		Doctors: responses,
		Total:   len(responses),
	}
}

// TimeSlotsToListResponse converts the time slot catalog to a list DTO.
func TimeSlotsToListResponse(slots []wizard.TimeSlot) *dto.TimeSlotListResponse {
	responses := make([]dto.TimeSlotResponse, len(slots))
	for i := range slots {
		responses[i] = *TimeSlotToResponse(&slots[i])
	}
	return &dto.TimeSlotListResponse{
		TimeSlots: responses,
		Total:     len(responses),
	}
}

// VisitTypesToListResponse converts the visit type catalog to a list DTO.
func VisitTypesToListResponse(visitTypes []wizard.VisitType) *dto.VisitTypeListResponse {
	responses := make([]dto.VisitTypeResponse, len(visitTypes))
	for i := range visitTypes {
		responses[i] = *VisitTypeToResponse(&visitTypes[i])
	}
	return &dto.VisitTypeListResponse{
		VisitTypes: responses,
		Total:      len(responses),
	}
}
