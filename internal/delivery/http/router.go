package http

import (
	"net/http"

	"medibook-server/internal/delivery/http/handler"
	"medibook-server/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	formHandler       *handler.FormHandler
	chatHandler       *handler.ChatHandler
	catalogHandler    *handler.CatalogHandler
	sessionMiddleware *middleware.SessionMiddleware
	corsMiddleware    *middleware.CORSMiddleware
}

func NewRouter(
	formHandler *handler.FormHandler,
	chatHandler *handler.ChatHandler,
	catalogHandler *handler.CatalogHandler,
	sessionMiddleware *middleware.SessionMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		formHandler:       formHandler,
		chatHandler:       chatHandler,
		catalogHandler:    catalogHandler,
		sessionMiddleware: sessionMiddleware,
		corsMiddleware:    corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Static reference data
	catalog := api.PathPrefix("/catalog").Subrouter()
	catalog.HandleFunc("/doctors", r.catalogHandler.GetDoctors).Methods(http.MethodGet)
	catalog.HandleFunc("/time-slots", r.catalogHandler.GetTimeSlots).Methods(http.MethodGet)
	catalog.HandleFunc("/visit-types", r.catalogHandler.GetVisitTypes).Methods(http.MethodGet)

	// Form wizard (public: everything up to and including code verification)
	form := api.PathPrefix("/form").Subrouter()
	form.HandleFunc("/sessions", r.formHandler.StartSession).Methods(http.MethodPost)
	form.HandleFunc("/sessions/{id}", r.formHandler.GetSession).Methods(http.MethodGet)
	form.HandleFunc("/sessions/{id}/code/send", r.formHandler.SendCode).Methods(http.MethodPost)
	form.HandleFunc("/sessions/{id}/code/verify", r.formHandler.VerifyCode).Methods(http.MethodPost)

	// Form wizard (verified sessions only)
	formVerified := api.PathPrefix("/form").Subrouter()
	formVerified.Use(r.sessionMiddleware.RequireVerified)
	formVerified.HandleFunc("/sessions/{id}/submit", r.formHandler.Submit).Methods(http.MethodPost)
	formVerified.HandleFunc("/sessions/{id}/restart", r.formHandler.Restart).Methods(http.MethodPost)

	// Chat wizard
	chat := api.PathPrefix("/chat").Subrouter()
	chat.HandleFunc("/sessions", r.chatHandler.StartSession).Methods(http.MethodPost)
	chat.HandleFunc("/sessions/{id}", r.chatHandler.GetSession).Methods(http.MethodGet)
	chat.HandleFunc("/sessions/{id}/messages", r.chatHandler.PostMessage).Methods(http.MethodPost)
	chat.HandleFunc("/sessions/{id}/select/doctor", r.chatHandler.SelectDoctor).Methods(http.MethodPost)
	chat.HandleFunc("/sessions/{id}/select/time-slot", r.chatHandler.SelectTimeSlot).Methods(http.MethodPost)
	chat.HandleFunc("/sessions/{id}/select/visit-type", r.chatHandler.SelectVisitType).Methods(http.MethodPost)
	chat.HandleFunc("/sessions/{id}/restart", r.chatHandler.Restart).Methods(http.MethodPost)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
