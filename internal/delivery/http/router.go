package http

import (
	"net/http"

	"go-clinic-scheduling/internal/delivery/http/handler"
	"go-clinic-scheduling/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	appointmentHandler *handler.AppointmentHandler
	slotHandler        *handler.SlotHandler
	treatmentHandler   *handler.TreatmentHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	appointmentHandler *handler.AppointmentHandler,
	slotHandler *handler.SlotHandler,
	treatmentHandler *handler.TreatmentHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		appointmentHandler: appointmentHandler,
		slotHandler:        slotHandler,
		treatmentHandler:   treatmentHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Scheduling routes (protected - staff and admin)
	scheduling := api.PathPrefix("").Subrouter()
	scheduling.Use(r.authMiddleware.Authenticate)
	scheduling.Use(middleware.RequireStaff)

	// Appointment groups
	scheduling.HandleFunc("/appointments", r.appointmentHandler.CreateGroup).Methods(http.MethodPost)
	scheduling.HandleFunc("/appointments", r.appointmentHandler.List).Methods(http.MethodGet)
	scheduling.HandleFunc("/appointments/{id}", r.appointmentHandler.GetGroup).Methods(http.MethodGet)
	scheduling.HandleFunc("/appointments/{id}", r.appointmentHandler.RescheduleGroup).Methods(http.MethodPut)
	scheduling.HandleFunc("/appointments/{id}", r.appointmentHandler.CancelGroup).Methods(http.MethodDelete)

	// Appointment lifecycle
	scheduling.HandleFunc("/appointments/{id}/confirm", r.appointmentHandler.Confirm).Methods(http.MethodPost)
	scheduling.HandleFunc("/appointments/{id}/start", r.appointmentHandler.Start).Methods(http.MethodPost)
	scheduling.HandleFunc("/appointments/{id}/complete", r.appointmentHandler.Complete).Methods(http.MethodPost)
	scheduling.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.Cancel).Methods(http.MethodPost)
	scheduling.HandleFunc("/appointments/{id}/no-show", r.appointmentHandler.NoShow).Methods(http.MethodPost)

	// Slot search
	scheduling.HandleFunc("/slots/search", r.slotHandler.Search).Methods(http.MethodPost)
	scheduling.HandleFunc("/slots", r.slotHandler.SearchByQuery).Methods(http.MethodGet)

	// Treatment catalog
	scheduling.HandleFunc("/treatments", r.treatmentHandler.GetAll).Methods(http.MethodGet)
	scheduling.HandleFunc("/treatments/{id}", r.treatmentHandler.GetByID).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
