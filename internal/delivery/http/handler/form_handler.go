package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"medibook-server/internal/delivery/dto"
	"medibook-server/internal/service"
	"medibook-server/internal/usecase"
	"medibook-server/pkg/response"
	"medibook-server/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type FormHandler struct {
	formUsecase usecase.FormWizardUsecase
	validator   *validator.CustomValidator
}

func NewFormHandler(formUsecase usecase.FormWizardUsecase, validator *validator.CustomValidator) *FormHandler {
	return &FormHandler{
		formUsecase: formUsecase,
		validator:   validator,
	}
}

func (h *FormHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req dto.StartFormSessionRequest
	// Empty body means no pre-fill.
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
	}

	session, err := h.formUsecase.StartSession(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to start session")
		return
	}

	response.Success(w, http.StatusCreated, "Session started", session)
}

func (h *FormHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromPath(w, r)
	if !ok {
		return
	}

	session, err := h.formUsecase.GetSession(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err, "Failed to get session")
		return
	}

	response.Success(w, http.StatusOK, "Session retrieved", session)
}

func (h *FormHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.formUsecase.SendCode(r.Context(), sessionID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to send verification code")
		return
	}

	response.Success(w, http.StatusOK, "Verification code sent", session)
}

func (h *FormHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.formUsecase.VerifyCode(r.Context(), sessionID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to verify code")
		return
	}

	response.Success(w, http.StatusOK, "Phone verified", session)
}

func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.SubmitAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	session, err := h.formUsecase.Submit(r.Context(), sessionID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to submit appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment booked", session)
}

func (h *FormHandler) Restart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromPath(w, r)
	if !ok {
		return
	}

	session, err := h.formUsecase.Restart(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err, "Failed to restart session")
		return
	}

	response.Success(w, http.StatusOK, "Session restarted", session)
}

func (h *FormHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	var fieldErrs *usecase.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		response.ValidationError(w, fieldErrs.Fields)
	case errors.Is(err, usecase.ErrSessionNotFound):
		response.NotFound(w, "Session not found or expired")
	case errors.Is(err, usecase.ErrWrongStage):
		response.Conflict(w, "Operation not allowed in current stage")
	case errors.Is(err, usecase.ErrCodeMismatch):
		response.Error(w, http.StatusBadRequest, "Verification code mismatch", nil)
	case errors.Is(err, service.ErrCooldownActive):
		response.TooManyRequests(w, "Please wait before requesting another code")
	case errors.Is(err, service.ErrNoPendingCode):
		response.Error(w, http.StatusBadRequest, "No verification code was requested", nil)
	default:
		response.InternalServerError(w, fallback)
	}
}

// sessionIDFromPath parses the {id} path variable, writing a 400 on failure.
func sessionIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	sessionID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid session ID", nil)
		return uuid.Nil, false
	}
	return sessionID, true
}
