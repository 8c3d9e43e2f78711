package usecase

import (
	"context"
	"errors"
	"time"

	"medibook-server/internal/converter"
	"medibook-server/internal/delivery/dto"
	"medibook-server/internal/domain/entity"
	"medibook-server/internal/domain/repository"
	"medibook-server/internal/service"
	"medibook-server/internal/wizard"
	"medibook-server/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type FormWizardUsecase interface {
	StartSession(ctx context.Context, req *dto.StartFormSessionRequest) (*dto.FormSessionResponse, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*dto.FormSessionResponse, error)
	SendCode(ctx context.Context, sessionID uuid.UUID, req *dto.SendCodeRequest) (*dto.FormSessionResponse, error)
	VerifyCode(ctx context.Context, sessionID uuid.UUID, req *dto.VerifyCodeRequest) (*dto.FormSessionResponse, error)
	Submit(ctx context.Context, sessionID uuid.UUID, req *dto.SubmitAppointmentRequest) (*dto.FormSessionResponse, error)
	Restart(ctx context.Context, sessionID uuid.UUID) (*dto.FormSessionResponse, error)
}

type formWizardUsecase struct {
	log          *logrus.Logger
	sessions     repository.FormSessionRepository
	otpService   *service.OTPService
	sheets       *service.SheetsService
	sms          *service.SMSService
	profiles     service.ProfileProvider
	tokenService *jwt.SessionTokenService
}

func NewFormWizardUsecase(
	log *logrus.Logger,
	sessions repository.FormSessionRepository,
	otpService *service.OTPService,
	sheets *service.SheetsService,
	sms *service.SMSService,
	profiles service.ProfileProvider,
	tokenService *jwt.SessionTokenService,
) FormWizardUsecase {
	return &formWizardUsecase{
		log:          log,
		sessions:     sessions,
		otpService:   otpService,
		sheets:       sheets,
		sms:          sms,
		profiles:     profiles,
		tokenService: tokenService,
	}
}

// StartSession creates a session at the phone verification stage. When the
// LINE integration is configured and the request carries an access token,
// the profile pre-fills name and LINE user id; any pre-fill failure is
// logged and the session starts empty.
func (u *formWizardUsecase) StartSession(ctx context.Context, req *dto.StartFormSessionRequest) (*dto.FormSessionResponse, error) {
	session := entity.NewFormSession()

	if u.profiles.Available() && req.LineAccessToken != "" {
		profile, err := u.profiles.FetchProfile(ctx, req.LineAccessToken)
		if err != nil {
			u.log.Warnf("LINE profile pre-fill failed (continuing without): %+v", err)
		} else {
			session.Data.Name = profile.DisplayName
			session.Data.LineUserID = profile.UserID
			session.LinePrefilled = true
		}
	}

	if err := u.sessions.Save(ctx, session); err != nil {
		u.log.Warnf("Failed to save new form session: %+v", err)
		return nil, err
	}

	u.log.Infof("Form session started: id=%s, prefilled=%t", session.ID, session.LinePrefilled)
	return converter.FormSessionToResponse(session), nil
}

func (u *formWizardUsecase) GetSession(ctx context.Context, sessionID uuid.UUID) (*dto.FormSessionResponse, error) {
	session, err := u.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return u.toResponse(ctx, session), nil
}

// SendCode validates the phone number and issues a one-time code. The phone
// gate runs first: for an invalid number no code is generated at all.
func (u *formWizardUsecase) SendCode(ctx context.Context, sessionID uuid.UUID, req *dto.SendCodeRequest) (*dto.FormSessionResponse, error) {
	session, err := u.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Stage != wizard.StageVerifyPhone {
		return nil, ErrWrongStage
	}

	if !wizard.ValidPhone(req.PhoneNumber) {
		session.SetErrors(map[string]string{"phone_number": wizard.MsgInvalidPhone})
		if err := u.sessions.Save(ctx, session); err != nil {
			u.log.Warnf("Failed to save form session %s: %+v", sessionID, err)
			return nil, err
		}
		return nil, NewFieldError("phone_number", wizard.MsgInvalidPhone)
	}

	if _, err := u.otpService.Issue(ctx, sessionID.String()); err != nil {
		if errors.Is(err, service.ErrCooldownActive) {
			return nil, err
		}
		u.log.Warnf("Failed to issue OTP for session %s: %+v", sessionID, err)
		return nil, err
	}

	session.Data.PhoneNumber = req.PhoneNumber
	session.CodeRequested = true
	session.ClearErrors()
	if err := u.sessions.Save(ctx, session); err != nil {
		u.log.Warnf("Failed to save form session %s: %+v", sessionID, err)
		return nil, err
	}

	return u.toResponse(ctx, session), nil
}

// VerifyCode compares the submitted code with the pending one. A mismatch
// re-prompts without touching the stage or the re-send cooldown; a match
// advances to the fill-form stage and mints the session token.
func (u *formWizardUsecase) VerifyCode(ctx context.Context, sessionID uuid.UUID, req *dto.VerifyCodeRequest) (*dto.FormSessionResponse, error) {
	session, err := u.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Stage != wizard.StageVerifyPhone {
		return nil, ErrWrongStage
	}

	match, err := u.otpService.Verify(ctx, sessionID.String(), req.Code)
	if err != nil {
		if errors.Is(err, service.ErrNoPendingCode) {
			return nil, err
		}
		u.log.Warnf("Failed to verify OTP for session %s: %+v", sessionID, err)
		return nil, err
	}

	if !match {
		session.SetErrors(map[string]string{"phone_number": wizard.MsgCodeMismatch})
		if err := u.sessions.Save(ctx, session); err != nil {
			u.log.Warnf("Failed to save form session %s: %+v", sessionID, err)
			return nil, err
		}
		return nil, ErrCodeMismatch
	}

	session.Stage = wizard.StageFillForm
	session.ClearErrors()
	if err := u.sessions.Save(ctx, session); err != nil {
		u.log.Warnf("Failed to save form session %s: %+v", sessionID, err)
		return nil, err
	}

	token, err := u.tokenService.GenerateToken(session.ID, session.Data.PhoneNumber)
	if err != nil {
		u.log.Warnf("Failed to generate session token for %s: %+v", sessionID, err)
		return nil, err
	}

	u.log.Infof("Phone verified for form session %s", sessionID)

	response := u.toResponse(ctx, session)
	response.SessionToken = token
	return response, nil
}

// Submit runs the collect-all required-field gate and, on success, fires
// the sheets submission and the SMS simulation before moving to the terminal
// stage. The two effects are independent of the transition: a failing
// webhook never rolls the booking back.
func (u *formWizardUsecase) Submit(ctx context.Context, sessionID uuid.UUID, req *dto.SubmitAppointmentRequest) (*dto.FormSessionResponse, error) {
	session, err := u.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Stage != wizard.StageFillForm {
		return nil, ErrWrongStage
	}

	session.Data.Name = req.Name
	session.Data.Birthday = req.Birthday
	session.Data.IDNumber = req.IDNumber
	session.Data.Date = req.Date
	session.Data.Doctor = wizard.DoctorByID(req.DoctorID)
	session.Data.TimeSlot = wizard.TimeSlotByID(req.TimeSlotID)
	session.Data.VisitType = wizard.VisitTypeByID(req.VisitTypeID)

	if fieldErrs := wizard.RequiredFieldErrors(&session.Data); len(fieldErrs) > 0 {
		session.SetErrors(fieldErrs)
		if err := u.sessions.Save(ctx, session); err != nil {
			u.log.Warnf("Failed to save form session %s: %+v", sessionID, err)
			return nil, err
		}
		return nil, &FieldErrors{Fields: fieldErrs}
	}

	session.ClearErrors()
	session.Stage = wizard.StageSuccess
	session.SMSStatus = entity.SMSStatusSending
	if err := u.sessions.Save(ctx, session); err != nil {
		u.log.Warnf("Failed to save form session %s: %+v", sessionID, err)
		return nil, err
	}

	u.dispatchCompletion(&session.Data, session.ID)

	u.log.Infof("Form booking completed: session=%s, doctor=%s, slot=%s",
		sessionID, session.Data.Doctor.Name, session.Data.TimeSlot.ID)
	return u.toResponse(ctx, session), nil
}

// Restart returns the session to the initial stage. Name and LINE user id
// survive when they came from the external profile; everything else resets.
func (u *formWizardUsecase) Restart(ctx context.Context, sessionID uuid.UUID) (*dto.FormSessionResponse, error) {
	session, err := u.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Data.Reset(session.LinePrefilled)
	session.Stage = wizard.StageVerifyPhone
	session.CodeRequested = false
	session.SMSStatus = entity.SMSStatusIdle
	session.ClearErrors()

	if err := u.otpService.Clear(ctx, sessionID.String()); err != nil {
		u.log.Warnf("Failed to clear OTP state for session %s: %+v", sessionID, err)
	}

	if err := u.sessions.Save(ctx, session); err != nil {
		u.log.Warnf("Failed to save form session %s: %+v", sessionID, err)
		return nil, err
	}

	u.log.Infof("Form session restarted: %s", sessionID)
	return u.toResponse(ctx, session), nil
}

// dispatchCompletion fires the two completion effects. Both run detached
// from the request with their own timeouts and only ever log on failure.
func (u *formWizardUsecase) dispatchCompletion(appt *wizard.Appointment, sessionID uuid.UUID) {
	record := *appt
	go func() {
		sinkCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		u.sheets.Submit(sinkCtx, &record)
	}()
	go u.sms.ConfirmFormBooking(sessionID, record.PhoneNumber)
}

func (u *formWizardUsecase) findSession(ctx context.Context, sessionID uuid.UUID) (*entity.FormSession, error) {
	session, err := u.sessions.FindByID(ctx, sessionID)
	if err != nil {
		u.log.Warnf("Failed to find form session %s: %+v", sessionID, err)
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (u *formWizardUsecase) toResponse(ctx context.Context, session *entity.FormSession) *dto.FormSessionResponse {
	response := converter.FormSessionToResponse(session)

	remaining, err := u.otpService.CooldownRemaining(ctx, session.ID.String())
	if err != nil {
		u.log.Warnf("Failed to read OTP cooldown for session %s: %+v", session.ID, err)
	} else {
		response.ResendAvailableIn = int(remaining.Round(time.Second).Seconds())
	}

	return response
}
