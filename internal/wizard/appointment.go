package wizard

// Appointment is the record accumulated across wizard steps. Fields are
// filled one at a time as the user progresses and the record is final only
// once every required field is set.
type Appointment struct {
	PhoneNumber string     `json:"phone_number"`
	Date        string     `json:"date"`
	Name        string     `json:"name"`
	Birthday    string     `json:"birthday"`
	IDNumber    string     `json:"id_number"`
	Doctor      *Doctor    `json:"doctor"`
	TimeSlot    *TimeSlot  `json:"time_slot"`
	VisitType   *VisitType `json:"visit_type"`
	LineUserID  string     `json:"line_user_id,omitempty"`
}

// IsComplete reports whether every required field is populated.
func (a *Appointment) IsComplete() bool {
	return a.PhoneNumber != "" &&
		a.Date != "" &&
		a.Name != "" &&
		a.Birthday != "" &&
		a.IDNumber != "" &&
		a.Doctor != nil &&
		a.TimeSlot != nil &&
		a.VisitType != nil
}

// Reset clears the record. When keepProfile is true the name and LINE user
// id supplied by the external profile are retained.
func (a *Appointment) Reset(keepProfile bool) {
	name, lineUserID := a.Name, a.LineUserID
	*a = Appointment{}
	if keepProfile {
		a.Name = name
		a.LineUserID = lineUserID
	}
}
