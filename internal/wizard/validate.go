package wizard

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation gates. All pure: value in, verdict out, no side effects.

var (
	phonePattern = regexp.MustCompile(`^09\d{8}$`)
	datePattern  = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`)
)

// Field error messages surfaced to the user.
const (
	MsgInvalidPhone     = "請輸入正確的手機號碼 (09xxxxxxxx)"
	MsgCodeMismatch     = "驗證碼錯誤，請重新輸入"
	MsgNameRequired     = "請輸入姓名"
	MsgBirthdayRequired = "請選擇出生年月日"
	MsgIDRequired       = "請輸入身分證字號"
	MsgDateRequired     = "請選擇預約日期"
	MsgDoctorRequired   = "請選擇醫師"
	MsgSlotRequired     = "請選擇時段"
	MsgTypeRequired     = "請選擇診療類型"
)

// ValidPhone reports whether s is a leading "09" followed by 8 digits.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidDateShape reports whether s matches the literal YYYY/MM/DD shape.
// There is no semantic calendar check: 2023/13/45 passes.
func ValidDateShape(s string) bool {
	return datePattern.MatchString(s)
}

// ValidIDNumber applies the chat surface's minimum-length check. Inputs of
// four or more characters are accepted with no further structure imposed.
// The count is in characters, not bytes, so multibyte input is measured the
// way the user typed it.
func ValidIDNumber(s string) bool {
	return utf8.RuneCountInString(s) >= 4
}

// RequiredFieldErrors checks every required appointment field and collects
// all violations at once rather than failing fast. An empty map means the
// record passes.
func RequiredFieldErrors(a *Appointment) map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(a.Name) == "" {
		errs["name"] = MsgNameRequired
	}
	if a.Birthday == "" {
		errs["birthday"] = MsgBirthdayRequired
	}
	if strings.TrimSpace(a.IDNumber) == "" {
		errs["id_number"] = MsgIDRequired
	}
	if a.Date == "" {
		errs["date"] = MsgDateRequired
	}
	if a.Doctor == nil {
		errs["doctor"] = MsgDoctorRequired
	}
	if a.TimeSlot == nil {
		errs["time_slot"] = MsgSlotRequired
	}
	if a.VisitType == nil {
		errs["visit_type"] = MsgTypeRequired
	}
	return errs
}
