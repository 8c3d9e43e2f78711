package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"medibook-server/internal/delivery/dto"
	"medibook-server/internal/usecase"
	"medibook-server/pkg/response"
	"medibook-server/pkg/validator"
)

type ChatHandler struct {
	chatUsecase usecase.ChatWizardUsecase
	validator   *validator.CustomValidator
}

func NewChatHandler(chatUsecase usecase.ChatWizardUsecase, validator *validator.CustomValidator) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
		validator:   validator,
	}
}

func (h *ChatHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatUsecase.StartSession(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to start session")
		return
	}

	response.Success(w, http.StatusCreated, "Session started", session)
}

func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromPath(w, r)
	if !ok {
		return
	}

	session, err := h.chatUsecase.GetSession(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err, "Failed to get session")
		return
	}

	response.Success(w, http.StatusOK, "Session retrieved", session)
}

func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.ChatInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.chatUsecase.HandleInput(r.Context(), sessionID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to process message")
		return
	}

	response.Success(w, http.StatusOK, "Message processed", session)
}

func (h *ChatHandler) SelectDoctor(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.SelectDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.chatUsecase.SelectDoctor(r.Context(), sessionID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to select doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor selected", session)
}

func (h *ChatHandler) SelectTimeSlot(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.SelectTimeSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.chatUsecase.SelectTimeSlot(r.Context(), sessionID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to select time slot")
		return
	}

	response.Success(w, http.StatusOK, "Time slot selected", session)
}

func (h *ChatHandler) SelectVisitType(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.SelectVisitTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.chatUsecase.SelectVisitType(r.Context(), sessionID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to select visit type")
		return
	}

	response.Success(w, http.StatusOK, "Appointment booked", session)
}

func (h *ChatHandler) Restart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromPath(w, r)
	if !ok {
		return
	}

	session, err := h.chatUsecase.Restart(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err, "Failed to restart session")
		return
	}

	response.Success(w, http.StatusOK, "Session restarted", session)
}

func (h *ChatHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		response.NotFound(w, "Session not found or expired")
	case errors.Is(err, usecase.ErrWrongStep):
		response.Conflict(w, "Operation not allowed in current step")
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrTimeSlotNotFound):
		response.NotFound(w, "Time slot not found")
	case errors.Is(err, usecase.ErrVisitTypeNotFound):
		response.NotFound(w, "Visit type not found")
	default:
		response.InternalServerError(w, fallback)
	}
}
