package dto

type DoctorResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Image     string `json:"image"`
}

type TimeSlotResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type VisitTypeResponse struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Deduction int    `json:"deduction"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type TimeSlotListResponse struct {
	TimeSlots []TimeSlotResponse `json:"time_slots"`
	Total     int                `json:"total"`
}

type VisitTypeListResponse struct {
	VisitTypes []VisitTypeResponse `json:"visit_types"`
	Total      int                 `json:"total"`
}
