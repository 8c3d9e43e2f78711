package wizard

// Static reference data. Loaded once, never mutated at runtime.

// Doctor is a clinic practitioner selectable by the patient.
type Doctor struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Image     string `json:"image"`
}

// TimeSlot is a bookable time range.
type TimeSlot struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// VisitType is a consultation category with a scheduling deduction in
// minutes. The deduction is carried for display and billing semantics only.
type VisitType struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Deduction int    `json:"deduction"`
}

var Doctors = []Doctor{
	{ID: 1, Name: "王醫師", Specialty: "一般內科", Image: "https://picsum.photos/id/1062/100/100"},
	{ID: 2, Name: "李醫師", Specialty: "心臟科", Image: "https://picsum.photos/id/1025/100/100"},
	{ID: 3, Name: "張醫師", Specialty: "小兒科", Image: "https://picsum.photos/id/1012/100/100"},
	{ID: 4, Name: "陳醫師", Specialty: "骨科", Image: "https://picsum.photos/id/1005/100/100"},
	{ID: 5, Name: "林醫師", Specialty: "中醫針灸", Image: "https://picsum.photos/id/1011/100/100"},
	{ID: 6, Name: "周醫師", Specialty: "家醫科", Image: "https://picsum.photos/id/1027/100/100"},
}

var TimeSlots = []TimeSlot{
	{ID: "t1", Label: "10:00–11:00"},
	{ID: "t2", Label: "11:00–12:00"},
	{ID: "t3", Label: "13:00–14:00"},
	{ID: "t4", Label: "14:00–15:00"},
}

var VisitTypes = []VisitType{
	{ID: "initial", Label: "初診", Deduction: 10},
	{ID: "internal", Label: "內科", Deduction: 5},
	{ID: "acupuncture", Label: "針灸", Deduction: 5},
}

// DoctorByID returns the doctor with the given id, or nil.
func DoctorByID(id int) *Doctor {
	for i := range Doctors {
		if Doctors[i].ID == id {
			return &Doctors[i]
		}
	}
	return nil
}

// DoctorByIndex returns the doctor at 1-based position index, or nil.
func DoctorByIndex(index int) *Doctor {
	if index < 1 || index > len(Doctors) {
		return nil
	}
	return &Doctors[index-1]
}

// TimeSlotByID returns the time slot with the given id, or nil.
func TimeSlotByID(id string) *TimeSlot {
	for i := range TimeSlots {
		if TimeSlots[i].ID == id {
			return &TimeSlots[i]
		}
	}
	return nil
}

// TimeSlotByIndex returns the slot at 1-based position index, or nil.
func TimeSlotByIndex(index int) *TimeSlot {
	if index < 1 || index > len(TimeSlots) {
		return nil
	}
	return &TimeSlots[index-1]
}

// VisitTypeByID returns the visit type with the given id, or nil.
func VisitTypeByID(id string) *VisitType {
	for i := range VisitTypes {
		if VisitTypes[i].ID == id {
			return &VisitTypes[i]
		}
	}
	return nil
}

// VisitTypeByIndex returns the visit type at 1-based position index, or nil.
func VisitTypeByIndex(index int) *VisitType {
	if index < 1 || index > len(VisitTypes) {
		return nil
	}
	return &VisitTypes[index-1]
}
