package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"medibook-server/config"
	"medibook-server/internal/delivery/dto"
	"medibook-server/internal/repository"
	"medibook-server/internal/service"
	"medibook-server/internal/wizard"
	"medibook-server/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formFixture struct {
	usecase FormWizardUsecase
	mr      *miniredis.Miniredis
	rows    *rowRecorder
}

// rowRecorder captures sheet rows posted to the webhook stub.
type rowRecorder struct {
	mu   sync.Mutex
	rows []map[string]string
}

func (r *rowRecorder) handler(w http.ResponseWriter, req *http.Request) {
	var row map[string]string
	if err := json.NewDecoder(req.Body).Decode(&row); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	r.mu.Lock()
	r.rows = append(r.rows, row)
	r.mu.Unlock()
}

func (r *rowRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *rowRecorder) last() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.rows) == 0 {
		return nil
	}
	return r.rows[len(r.rows)-1]
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newFormFixture(t *testing.T, profiles service.ProfileProvider) *formFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	rows := &rowRecorder{}
	webhook := httptest.NewServer(http.HandlerFunc(rows.handler))
	t.Cleanup(webhook.Close)

	log := testLogger()
	formSessions := repository.NewFormSessionRepository(client, time.Hour)
	chatSessions := repository.NewChatSessionRepository(client, time.Hour)
	sheets := service.NewSheetsService(config.SheetsConfig{WebhookURL: webhook.URL}, log)
	sms := service.NewSMSService(formSessions, chatSessions, config.SMSConfig{SimulationDelay: 0}, log)
	otp := service.NewOTPService(client, log)
	tokens := jwt.NewSessionTokenService(config.SessionConfig{Secret: "test-secret", TTL: time.Hour})

	if profiles == nil {
		profiles = service.NewLineProfileService(config.LineConfig{}, log)
	}

	return &formFixture{
		usecase: NewFormWizardUsecase(log, formSessions, otp, sheets, sms, profiles, tokens),
		mr:      mr,
		rows:    rows,
	}
}

// pendingCode reads the generated one-time code straight out of Redis.
func (f *formFixture) pendingCode(t *testing.T, sessionID string) string {
	t.Helper()
	code, err := f.mr.Get("otp:code:" + sessionID)
	require.NoError(t, err)
	return code
}

func (f *formFixture) startVerified(t *testing.T) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	started, err := f.usecase.StartSession(ctx, &dto.StartFormSessionRequest{})
	require.NoError(t, err)
	sessionID := uuid.MustParse(started.ID)

	_, err = f.usecase.SendCode(ctx, sessionID, &dto.SendCodeRequest{PhoneNumber: "0912345678"})
	require.NoError(t, err)

	_, err = f.usecase.VerifyCode(ctx, sessionID, &dto.VerifyCodeRequest{Code: f.pendingCode(t, started.ID)})
	require.NoError(t, err)
	return sessionID
}

type stubProfiles struct {
	profile *service.Profile
	err     error
}

func (s stubProfiles) Available() bool { return true }

func (s stubProfiles) FetchProfile(context.Context, string) (*service.Profile, error) {
	return s.profile, s.err
}

func TestStartSessionBeginsAtPhoneVerification(t *testing.T) {
	f := newFormFixture(t, nil)

	resp, err := f.usecase.StartSession(context.Background(), &dto.StartFormSessionRequest{})
	require.NoError(t, err)

	assert.Equal(t, string(wizard.StageVerifyPhone), resp.Stage)
	assert.False(t, resp.CodeRequested)
	assert.False(t, resp.LinePrefilled)
	assert.Equal(t, "idle", resp.SMSStatus)
	assert.Empty(t, resp.Errors)
}

func TestStartSessionPrefillsFromProfile(t *testing.T) {
	f := newFormFixture(t, stubProfiles{profile: &service.Profile{
		UserID:      "U1234",
		DisplayName: "林小明",
	}})

	resp, err := f.usecase.StartSession(context.Background(), &dto.StartFormSessionRequest{
		LineAccessToken: "token",
	})
	require.NoError(t, err)

	assert.True(t, resp.LinePrefilled)
	assert.Equal(t, "林小明", resp.Data.Name)
	assert.Equal(t, "U1234", resp.Data.LineUserID)
}

func TestStartSessionProfileFailureStartsEmpty(t *testing.T) {
	f := newFormFixture(t, stubProfiles{err: errors.New("upstream down")})

	resp, err := f.usecase.StartSession(context.Background(), &dto.StartFormSessionRequest{
		LineAccessToken: "token",
	})
	require.NoError(t, err)

	assert.False(t, resp.LinePrefilled)
	assert.Empty(t, resp.Data.Name)
}

func TestSendCodeRejectsInvalidPhone(t *testing.T) {
	f := newFormFixture(t, nil)
	ctx := context.Background()

	started, err := f.usecase.StartSession(ctx, &dto.StartFormSessionRequest{})
	require.NoError(t, err)
	sessionID := uuid.MustParse(started.ID)

	_, err = f.usecase.SendCode(ctx, sessionID, &dto.SendCodeRequest{PhoneNumber: "0812345678"})

	var fieldErrs *FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, wizard.MsgInvalidPhone, fieldErrs.Fields["phone_number"])

	// No code was generated and the error is persisted on the session.
	assert.False(t, f.mr.Exists("otp:code:"+started.ID))
	resp, err := f.usecase.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, wizard.MsgInvalidPhone, resp.Errors["phone_number"])
	assert.False(t, resp.CodeRequested)
}

func TestSendCodeCooldown(t *testing.T) {
	f := newFormFixture(t, nil)
	ctx := context.Background()

	started, err := f.usecase.StartSession(ctx, &dto.StartFormSessionRequest{})
	require.NoError(t, err)
	sessionID := uuid.MustParse(started.ID)

	resp, err := f.usecase.SendCode(ctx, sessionID, &dto.SendCodeRequest{PhoneNumber: "0912345678"})
	require.NoError(t, err)
	assert.True(t, resp.CodeRequested)
	assert.Equal(t, int(service.ResendCooldown.Seconds()), resp.ResendAvailableIn)

	_, err = f.usecase.SendCode(ctx, sessionID, &dto.SendCodeRequest{PhoneNumber: "0912345678"})
	assert.ErrorIs(t, err, service.ErrCooldownActive)

	f.mr.FastForward(service.ResendCooldown)

	_, err = f.usecase.SendCode(ctx, sessionID, &dto.SendCodeRequest{PhoneNumber: "0912345678"})
	require.NoError(t, err)
}

func TestVerifyCodeMismatchKeepsStage(t *testing.T) {
	f := newFormFixture(t, nil)
	ctx := context.Background()

	started, err := f.usecase.StartSession(ctx, &dto.StartFormSessionRequest{})
	require.NoError(t, err)
	sessionID := uuid.MustParse(started.ID)

	_, err = f.usecase.SendCode(ctx, sessionID, &dto.SendCodeRequest{PhoneNumber: "0912345678"})
	require.NoError(t, err)

	code := f.pendingCode(t, started.ID)
	wrong := "0000"
	require.NotEqual(t, code, wrong)

	_, err = f.usecase.VerifyCode(ctx, sessionID, &dto.VerifyCodeRequest{Code: wrong})
	assert.ErrorIs(t, err, ErrCodeMismatch)

	resp, err := f.usecase.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, string(wizard.StageVerifyPhone), resp.Stage)
	assert.Equal(t, wizard.MsgCodeMismatch, resp.Errors["phone_number"])

	// The wrong attempt did not consume the pending code.
	resp2, err := f.usecase.VerifyCode(ctx, sessionID, &dto.VerifyCodeRequest{Code: code})
	require.NoError(t, err)
	assert.Equal(t, string(wizard.StageFillForm), resp2.Stage)
	assert.NotEmpty(t, resp2.SessionToken)
	assert.Empty(t, resp2.Errors)
}

func TestVerifyCodeWithoutPendingCode(t *testing.T) {
	f := newFormFixture(t, nil)
	ctx := context.Background()

	started, err := f.usecase.StartSession(ctx, &dto.StartFormSessionRequest{})
	require.NoError(t, err)

	_, err = f.usecase.VerifyCode(ctx, uuid.MustParse(started.ID), &dto.VerifyCodeRequest{Code: "1234"})
	assert.ErrorIs(t, err, service.ErrNoPendingCode)
}

func TestSubmitCollectsAllMissingFields(t *testing.T) {
	f := newFormFixture(t, nil)
	ctx := context.Background()
	sessionID := f.startVerified(t)

	_, err := f.usecase.Submit(ctx, sessionID, &dto.SubmitAppointmentRequest{
		Name: "林小明",
		Date: "2025/01/10",
	})

	var fieldErrs *FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs.Fields, 5)
	assert.Contains(t, fieldErrs.Fields, "birthday")
	assert.Contains(t, fieldErrs.Fields, "id_number")
	assert.Contains(t, fieldErrs.Fields, "doctor")
	assert.Contains(t, fieldErrs.Fields, "time_slot")
	assert.Contains(t, fieldErrs.Fields, "visit_type")

	resp, err := f.usecase.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, string(wizard.StageFillForm), resp.Stage)
	assert.Len(t, resp.Errors, 5)
}

func TestSubmitCompletesBooking(t *testing.T) {
	f := newFormFixture(t, nil)
	ctx := context.Background()
	sessionID := f.startVerified(t)

	resp, err := f.usecase.Submit(ctx, sessionID, &dto.SubmitAppointmentRequest{
		Name:        "林小明",
		Birthday:    "1990/01/01",
		IDNumber:    "A123456789",
		Date:        "2025/01/10",
		DoctorID:    3,
		TimeSlotID:  "t2",
		VisitTypeID: "internal",
	})
	require.NoError(t, err)

	assert.Equal(t, string(wizard.StageSuccess), resp.Stage)
	assert.Equal(t, "sending", resp.SMSStatus)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "張醫師", resp.Data.Doctor.Name)
	assert.Equal(t, "11:00–12:00", resp.Data.TimeSlot.Label)
	assert.Equal(t, "內科", resp.Data.VisitType.Label)

	// The webhook received the flattened row.
	require.Eventually(t, func() bool { return f.rows.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	row := f.rows.last()
	assert.Equal(t, "林小明", row["name"])
	assert.Equal(t, "0912345678", row["phoneNumber"])
	assert.Equal(t, "張醫師", row["doctor"])
	assert.Equal(t, "11:00–12:00", row["timeSlot"])
	assert.Equal(t, "內科", row["visitType"])

	// The simulated SMS flips the status to sent.
	require.Eventually(t, func() bool {
		got, err := f.usecase.GetSession(ctx, sessionID)
		return err == nil && got.SMSStatus == "sent"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubmitRequiresFillFormStage(t *testing.T) {
	f := newFormFixture(t, nil)
	ctx := context.Background()

	started, err := f.usecase.StartSession(ctx, &dto.StartFormSessionRequest{})
	require.NoError(t, err)

	_, err = f.usecase.Submit(ctx, uuid.MustParse(started.ID), &dto.SubmitAppointmentRequest{})
	assert.ErrorIs(t, err, ErrWrongStage)
}

func TestRestartClearsEverything(t *testing.T) {
	f := newFormFixture(t, nil)
	ctx := context.Background()
	sessionID := f.startVerified(t)

	_, err := f.usecase.Submit(ctx, sessionID, &dto.SubmitAppointmentRequest{
		Name:        "林小明",
		Birthday:    "1990/01/01",
		IDNumber:    "A123456789",
		Date:        "2025/01/10",
		DoctorID:    1,
		TimeSlotID:  "t1",
		VisitTypeID: "initial",
	})
	require.NoError(t, err)

	resp, err := f.usecase.Restart(ctx, sessionID)
	require.NoError(t, err)

	assert.Equal(t, string(wizard.StageVerifyPhone), resp.Stage)
	assert.False(t, resp.CodeRequested)
	assert.Equal(t, "idle", resp.SMSStatus)
	assert.Equal(t, 0, resp.ResendAvailableIn)
	assert.Empty(t, resp.Data.Name)
	assert.Empty(t, resp.Data.PhoneNumber)
	assert.Nil(t, resp.Data.Doctor)
}

func TestRestartKeepsPrefilledProfile(t *testing.T) {
	f := newFormFixture(t, stubProfiles{profile: &service.Profile{
		UserID:      "U1234",
		DisplayName: "林小明",
	}})
	ctx := context.Background()

	started, err := f.usecase.StartSession(ctx, &dto.StartFormSessionRequest{LineAccessToken: "token"})
	require.NoError(t, err)
	sessionID := uuid.MustParse(started.ID)

	resp, err := f.usecase.Restart(ctx, sessionID)
	require.NoError(t, err)

	assert.Equal(t, "林小明", resp.Data.Name)
	assert.Equal(t, "U1234", resp.Data.LineUserID)
	assert.True(t, resp.LinePrefilled)
}

func TestOperationsOnUnknownSession(t *testing.T) {
	f := newFormFixture(t, nil)
	ctx := context.Background()

	_, err := f.usecase.GetSession(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.usecase.SendCode(ctx, uuid.New(), &dto.SendCodeRequest{PhoneNumber: "0912345678"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
