package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-clinic-scheduling/internal/delivery/dto"
	"go-clinic-scheduling/internal/usecase"
	"go-clinic-scheduling/pkg/response"
	"go-clinic-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	statusUsecase      usecase.AppointmentStatusUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(
	appointmentUsecase usecase.AppointmentUsecase,
	statusUsecase usecase.AppointmentStatusUsecase,
	validator *validator.CustomValidator,
) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		statusUsecase:      statusUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	group, err := h.appointmentUsecase.CreateGroup(r.Context(), &req)
	if err != nil {
		writeSchedulingError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", group)
}

func (h *AppointmentHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	group, err := h.appointmentUsecase.GetGroup(r.Context(), groupID)
	if err != nil {
		writeSchedulingError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", group)
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if patientParam := r.URL.Query().Get("patient_id"); patientParam != "" {
		patientID, err := uuid.Parse(patientParam)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
			return
		}
		appointments, err := h.appointmentUsecase.ListByPatient(r.Context(), patientID)
		if err != nil {
			writeSchedulingError(w, err, "Failed to list appointments")
			return
		}
		response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.Error(w, http.StatusBadRequest, "date or patient_id query parameter is required", nil)
		return
	}
	appointments, err := h.appointmentUsecase.ListByDate(r.Context(), date)
	if err != nil {
		writeSchedulingError(w, err, "Failed to list appointments")
		return
	}
	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) RescheduleGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.RescheduleGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	group, err := h.appointmentUsecase.RescheduleGroup(r.Context(), groupID, &req)
	if err != nil {
		writeSchedulingError(w, err, "Failed to reschedule appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment rescheduled successfully", group)
}

func (h *AppointmentHandler) CancelGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.CancelGroupRequest
	if r.Body != nil {
		// Reason is optional; an empty body cancels without one
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.appointmentUsecase.CancelGroup(r.Context(), groupID, req.Reason); err != nil {
		writeSchedulingError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", nil)
}

func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, func(id uuid.UUID, _ string) (*dto.AppointmentResponse, error) {
		return h.statusUsecase.Confirm(r.Context(), id)
	})
}

func (h *AppointmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, func(id uuid.UUID, _ string) (*dto.AppointmentResponse, error) {
		return h.statusUsecase.Start(r.Context(), id)
	})
}

func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, func(id uuid.UUID, _ string) (*dto.AppointmentResponse, error) {
		return h.statusUsecase.Complete(r.Context(), id)
	})
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, func(id uuid.UUID, reason string) (*dto.AppointmentResponse, error) {
		return h.statusUsecase.Cancel(r.Context(), id, reason)
	})
}

func (h *AppointmentHandler) NoShow(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, func(id uuid.UUID, _ string) (*dto.AppointmentResponse, error) {
		return h.statusUsecase.NoShow(r.Context(), id)
	})
}

func (h *AppointmentHandler) changeStatus(w http.ResponseWriter, r *http.Request, apply func(uuid.UUID, string) (*dto.AppointmentResponse, error)) {
	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.StatusChangeRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	appointment, err := apply(appointmentID, req.Reason)
	if err != nil {
		writeSchedulingError(w, err, "Failed to change appointment status")
		return
	}

	response.Success(w, http.StatusOK, "Appointment status changed successfully", appointment)
}

// writeSchedulingError maps the scheduling error taxonomy to HTTP statuses:
// validation 400, not-found 404, resource/state/storage conflicts 409.
func writeSchedulingError(w http.ResponseWriter, err error, fallback string) {
	var conflictErr *usecase.ConflictError
	if errors.As(err, &conflictErr) {
		response.Error(w, http.StatusConflict, conflictErr.Error(), conflictErr)
		return
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidDateFormat),
		errors.Is(err, usecase.ErrInvalidTimeFormat),
		errors.Is(err, usecase.ErrInvalidCategory),
		errors.Is(err, usecase.ErrInvalidDuration),
		errors.Is(err, usecase.ErrTooManySegments),
		errors.Is(err, usecase.ErrNoSegments),
		errors.Is(err, usecase.ErrProviderRequired),
		errors.Is(err, usecase.ErrMachineRequired):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, usecase.ErrPatientNotFound),
		errors.Is(err, usecase.ErrProviderNotFound),
		errors.Is(err, usecase.ErrMachineNotFound),
		errors.Is(err, usecase.ErrTreatmentNotFound),
		errors.Is(err, usecase.ErrAppointmentNotFound),
		errors.Is(err, usecase.ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrGroupCancelled),
		errors.Is(err, usecase.ErrTerminalState),
		errors.Is(err, usecase.ErrInvalidStatusTransition),
		errors.Is(err, usecase.ErrStorageConflict):
		response.Error(w, http.StatusConflict, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
