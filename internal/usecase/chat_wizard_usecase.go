package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"medibook-server/internal/converter"
	"medibook-server/internal/delivery/dto"
	"medibook-server/internal/domain/entity"
	"medibook-server/internal/domain/repository"
	"medibook-server/internal/service"
	"medibook-server/internal/wizard"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrWrongStep         = errors.New("operation not allowed in current step")
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrTimeSlotNotFound  = errors.New("time slot not found")
	ErrVisitTypeNotFound = errors.New("visit type not found")
)

// Transcript texts, in the single hardcoded locale.
const (
	msgWelcome       = "歡迎使用線上預約系統 👋\n為了確保是真人預約，請先輸入您的手機號碼進行驗證。"
	msgPhoneInvalid  = "手機號碼格式不正確，請輸入 09 開頭的 10 碼數字。"
	msgPhoneVerified = "驗證成功！真人身分已確認。"
	msgAskDate       = "請選擇想要預約的日期。（格式：YYYY/MM/DD）"
	msgDateInvalid   = "日期格式不正確，請使用 YYYY/MM/DD 格式（例如 2023/10/20）。"
	msgAskDateAgain  = "了解，請重新輸入您想要預約的日期。（格式：YYYY/MM/DD）"
	msgAskName       = "好的，請輸入您的姓名。"
	msgAskBirthday   = "請輸入出生年月日。（格式：YYYY/MM/DD）"
	msgBirthdayBad   = "日期格式不正確，請使用 YYYY/MM/DD 格式。"
	msgAskID         = "請輸入身分證字號。"
	msgIDInvalid     = "身分證字號格式似乎有誤，請重新輸入。"
	msgAskDoctor     = "個人資料已填寫完成。\n請選擇想預約的醫師（點擊下方選項）："
	msgAskTime       = "請選擇時段。"
	msgAskType       = "請選擇診療類型：初診／內科／針灸"
	msgThanks        = "感謝您使用預約系統。"
)

type ChatWizardUsecase interface {
	StartSession(ctx context.Context) (*dto.ChatSessionResponse, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*dto.ChatSessionResponse, error)
	HandleInput(ctx context.Context, sessionID uuid.UUID, req *dto.ChatInputRequest) (*dto.ChatSessionResponse, error)
	SelectDoctor(ctx context.Context, sessionID uuid.UUID, req *dto.SelectDoctorRequest) (*dto.ChatSessionResponse, error)
	SelectTimeSlot(ctx context.Context, sessionID uuid.UUID, req *dto.SelectTimeSlotRequest) (*dto.ChatSessionResponse, error)
	SelectVisitType(ctx context.Context, sessionID uuid.UUID, req *dto.SelectVisitTypeRequest) (*dto.ChatSessionResponse, error)
	Restart(ctx context.Context, sessionID uuid.UUID) (*dto.ChatSessionResponse, error)
}

type chatWizardUsecase struct {
	log      *logrus.Logger
	sessions repository.ChatSessionRepository
	sheets   *service.SheetsService
	sms      *service.SMSService
}

func NewChatWizardUsecase(
	log *logrus.Logger,
	sessions repository.ChatSessionRepository,
	sheets *service.SheetsService,
	sms *service.SMSService,
) ChatWizardUsecase {
	return &chatWizardUsecase{
		log:      log,
		sessions: sessions,
		sheets:   sheets,
		sms:      sms,
	}
}

func (u *chatWizardUsecase) StartSession(ctx context.Context) (*dto.ChatSessionResponse, error) {
	session := entity.NewChatSession()
	session.AddSystemMessage(msgWelcome, 300)

	if err := u.sessions.Save(ctx, session); err != nil {
		u.log.Warnf("Failed to save new chat session: %+v", err)
		return nil, err
	}

	u.log.Infof("Chat session started: %s", session.ID)
	return converter.ChatSessionToResponse(session), nil
}

func (u *chatWizardUsecase) GetSession(ctx context.Context, sessionID uuid.UUID) (*dto.ChatSessionResponse, error) {
	session, err := u.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return converter.ChatSessionToResponse(session), nil
}

// HandleInput routes one free-text message through the step machine. A
// failed gate appends a re-prompt and leaves the step unchanged; a passed
// gate mutates the record, advances, and narrates the next step.
func (u *chatWizardUsecase) HandleInput(ctx context.Context, sessionID uuid.UUID, req *dto.ChatInputRequest) (*dto.ChatSessionResponse, error) {
	session, err := u.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step == wizard.StepCompleted {
		return nil, ErrWrongStep
	}

	input := strings.TrimSpace(req.Text)
	session.AddUserMessage(input)

	switch session.Step {
	case wizard.StepVerifyPhone:
		if !wizard.ValidPhone(input) {
			session.AddSystemMessage(msgPhoneInvalid, 600)
			break
		}
		// Simulated verification: the format check is the whole protocol
		// on this surface.
		session.Data.PhoneNumber = input
		session.Step = wizard.StepSelectDate
		session.AddSystemMessage(msgPhoneVerified, 800)
		session.AddSystemMessage(msgAskDate, 1000)

	case wizard.StepSelectDate:
		if !wizard.ValidDateShape(input) {
			session.AddSystemMessage(msgDateInvalid, 600)
			break
		}
		session.Data.Date = input
		session.Step = wizard.StepConfirmDate
		session.AddSystemMessage(fmt.Sprintf("已選擇日期：%s。是否要開始預約？（是／否）", input), 600)

	case wizard.StepConfirmDate:
		if isAffirmative(input) {
			session.Step = wizard.StepInputName
			session.AddSystemMessage(msgAskName, 600)
		} else {
			session.Step = wizard.StepSelectDate
			session.AddSystemMessage(msgAskDateAgain, 600)
		}

	case wizard.StepInputName:
		session.Data.Name = input
		session.Step = wizard.StepInputBirthday
		session.AddSystemMessage(msgAskBirthday, 600)

	case wizard.StepInputBirthday:
		if !wizard.ValidDateShape(input) {
			session.AddSystemMessage(msgBirthdayBad, 600)
			break
		}
		session.Data.Birthday = input
		session.Step = wizard.StepInputID
		session.AddSystemMessage(msgAskID, 600)

	case wizard.StepInputID:
		if !wizard.ValidIDNumber(input) {
			session.AddSystemMessage(msgIDInvalid, 600)
			break
		}
		session.Data.IDNumber = input
		session.Step = wizard.StepSelectDoctor
		session.AddSystemMessage(msgAskDoctor, 600)

	case wizard.StepSelectDoctor:
		if doctor := wizard.DoctorByIndex(parseIndex(input)); doctor != nil {
			u.applyDoctor(session, doctor)
		} else {
			session.AddSystemMessage(fmt.Sprintf("請輸入有效的醫師編號 (1-%d) 或點擊下方選項。", len(wizard.Doctors)), 600)
		}

	case wizard.StepSelectTime:
		if slot := wizard.TimeSlotByIndex(parseIndex(input)); slot != nil {
			u.applyTimeSlot(session, slot)
		} else {
			session.AddSystemMessage(fmt.Sprintf("請輸入有效的時段編號 (1-%d) 或點擊下方選項。", len(wizard.TimeSlots)), 600)
		}

	case wizard.StepSelectType:
		if visitType := wizard.VisitTypeByIndex(parseIndex(input)); visitType != nil {
			return u.applyVisitType(ctx, session, visitType)
		}
		session.AddSystemMessage(fmt.Sprintf("請輸入有效的類型編號 (1-%d) 或點擊下方選項。", len(wizard.VisitTypes)), 600)
	}

	return u.save(ctx, session)
}

func (u *chatWizardUsecase) SelectDoctor(ctx context.Context, sessionID uuid.UUID, req *dto.SelectDoctorRequest) (*dto.ChatSessionResponse, error) {
	session, err := u.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != wizard.StepSelectDoctor {
		return nil, ErrWrongStep
	}

	doctor := wizard.DoctorByID(req.DoctorID)
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	u.applyDoctor(session, doctor)
	return u.save(ctx, session)
}

func (u *chatWizardUsecase) SelectTimeSlot(ctx context.Context, sessionID uuid.UUID, req *dto.SelectTimeSlotRequest) (*dto.ChatSessionResponse, error) {
	session, err := u.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != wizard.StepSelectTime {
		return nil, ErrWrongStep
	}

	slot := wizard.TimeSlotByID(req.TimeSlotID)
	if slot == nil {
		return nil, ErrTimeSlotNotFound
	}

	u.applyTimeSlot(session, slot)
	return u.save(ctx, session)
}

// SelectVisitType is the completion action of this surface: it commits the
// final field, narrates the summary, fires the sheets submission and SMS
// simulation, and moves to the terminal step.
func (u *chatWizardUsecase) SelectVisitType(ctx context.Context, sessionID uuid.UUID, req *dto.SelectVisitTypeRequest) (*dto.ChatSessionResponse, error) {
	session, err := u.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != wizard.StepSelectType {
		return nil, ErrWrongStep
	}

	visitType := wizard.VisitTypeByID(req.VisitTypeID)
	if visitType == nil {
		return nil, ErrVisitTypeNotFound
	}

	return u.applyVisitType(ctx, session, visitType)
}

// Restart clears the full record and transcript and re-seeds the welcome
// message.
func (u *chatWizardUsecase) Restart(ctx context.Context, sessionID uuid.UUID) (*dto.ChatSessionResponse, error) {
	session, err := u.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Data.Reset(false)
	session.Messages = []entity.ChatMessage{}
	session.Step = wizard.StepVerifyPhone
	session.SMSStatus = entity.SMSStatusIdle
	session.AddSystemMessage(msgWelcome, 300)

	u.log.Infof("Chat session restarted: %s", sessionID)
	return u.save(ctx, session)
}

func (u *chatWizardUsecase) applyDoctor(session *entity.ChatSession, doctor *wizard.Doctor) {
	session.AddUserMessage("選擇：" + doctor.Name)
	session.Data.Doctor = doctor
	session.Step = wizard.StepSelectTime
	session.AddSystemMessage(msgAskTime, 600)
}

func (u *chatWizardUsecase) applyTimeSlot(session *entity.ChatSession, slot *wizard.TimeSlot) {
	session.AddUserMessage("時段：" + slot.Label)
	session.Data.TimeSlot = slot
	session.Step = wizard.StepSelectType
	session.AddSystemMessage(msgAskType, 600)
}

// applyVisitType is the completion transition. The completed session is
// persisted before the effects are dispatched so the SMS confirmation's
// load-modify-save never sees a pre-completion snapshot.
func (u *chatWizardUsecase) applyVisitType(ctx context.Context, session *entity.ChatSession, visitType *wizard.VisitType) (*dto.ChatSessionResponse, error) {
	session.AddUserMessage("類型：" + visitType.Label)
	session.Data.VisitType = visitType
	session.Step = wizard.StepCompleted
	session.SMSStatus = entity.SMSStatusSending
	session.AddSystemMessage(u.summary(session, visitType), 500)

	response, err := u.save(ctx, session)
	if err != nil {
		return nil, err
	}

	record := session.Data
	go func() {
		sinkCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		u.sheets.Submit(sinkCtx, &record)
	}()
	go u.sms.ConfirmChatBooking(session.ID, record.PhoneNumber)

	u.log.Infof("Chat booking completed: session=%s, doctor=%s, type=%s",
		session.ID, session.Data.Doctor.Name, visitType.ID)
	return response, nil
}

func (u *chatWizardUsecase) summary(session *entity.ChatSession, visitType *wizard.VisitType) string {
	data := &session.Data
	var b strings.Builder
	b.WriteString("預約完成 🎉\n")
	fmt.Fprintf(&b, "手機：%s\n", data.PhoneNumber)
	fmt.Fprintf(&b, "日期：%s\n", data.Date)
	fmt.Fprintf(&b, "姓名：%s\n", data.Name)
	fmt.Fprintf(&b, "生日：%s\n", data.Birthday)
	fmt.Fprintf(&b, "ID：%s\n", data.IDNumber)
	fmt.Fprintf(&b, "醫師：%s (%s)\n", data.Doctor.Name, data.Doctor.Specialty)
	fmt.Fprintf(&b, "時段：%s\n", data.TimeSlot.Label)
	fmt.Fprintf(&b, "類型：%s (扣除 %d 分鐘)\n", visitType.Label, visitType.Deduction)
	b.WriteString(msgThanks)
	return b.String()
}

func (u *chatWizardUsecase) findSession(ctx context.Context, sessionID uuid.UUID) (*entity.ChatSession, error) {
	session, err := u.sessions.FindByID(ctx, sessionID)
	if err != nil {
		u.log.Warnf("Failed to find chat session %s: %+v", sessionID, err)
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (u *chatWizardUsecase) save(ctx context.Context, session *entity.ChatSession) (*dto.ChatSessionResponse, error) {
	if err := u.sessions.Save(ctx, session); err != nil {
		u.log.Warnf("Failed to save chat session %s: %+v", session.ID, err)
		return nil, err
	}
	return converter.ChatSessionToResponse(session), nil
}

// isAffirmative mirrors the original confirmation parsing: any input
// containing 是, or equal to yes/y case-insensitively.
func isAffirmative(input string) bool {
	lower := strings.ToLower(input)
	return strings.Contains(input, "是") || lower == "yes" || lower == "y"
}

// parseIndex returns the 1-based numeric index typed as plain text, or 0.
func parseIndex(input string) int {
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0
	}
	return n
}
