package handler

import (
	"net/http"

	"medibook-server/internal/converter"
	"medibook-server/internal/wizard"
	"medibook-server/pkg/response"
)

// CatalogHandler serves the static reference lists used by the wizard
// renderers.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

func (h *CatalogHandler) GetDoctors(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Doctors retrieved", converter.DoctorsToListResponse(wizard.Doctors))
}

func (h *CatalogHandler) GetTimeSlots(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Time slots retrieved", converter.TimeSlotsToListResponse(wizard.TimeSlots))
}

func (h *CatalogHandler) GetVisitTypes(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Visit types retrieved", converter.VisitTypesToListResponse(wizard.VisitTypes))
}
