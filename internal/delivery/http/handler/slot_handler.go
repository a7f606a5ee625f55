package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go-clinic-scheduling/internal/delivery/dto"
	"go-clinic-scheduling/internal/service"
	"go-clinic-scheduling/internal/usecase"
	"go-clinic-scheduling/pkg/response"
	"go-clinic-scheduling/pkg/validator"

	"github.com/google/uuid"
)

type SlotHandler struct {
	slotUsecase usecase.SlotUsecase
	validator   *validator.CustomValidator
}

func NewSlotHandler(slotUsecase usecase.SlotUsecase, validator *validator.CustomValidator) *SlotHandler {
	return &SlotHandler{
		slotUsecase: slotUsecase,
		validator:   validator,
	}
}

func (h *SlotHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.SlotSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	h.find(w, r, &req)
}

// SearchByQuery is the single-segment convenience form of Search: the segment
// is described by query parameters instead of a JSON body.
func (h *SlotHandler) SearchByQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	seg := dto.SlotSegmentRequest{Category: q.Get("category")}
	if seg.Category == "" {
		seg.Category = "treatment"
	}

	var err error
	if seg.ServiceID, err = optionalUUIDParam(q.Get("service_id")); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid service_id", nil)
		return
	}
	if seg.MachineID, err = optionalUUIDParam(q.Get("machine_id")); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid machine_id", nil)
		return
	}
	if seg.ProviderID, err = optionalUUIDParam(q.Get("provider_id")); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid provider_id", nil)
		return
	}
	if v := q.Get("duration_minutes"); v != "" {
		duration, err := strconv.Atoi(v)
		if err != nil || duration <= 0 {
			response.Error(w, http.StatusBadRequest, "Invalid duration_minutes", nil)
			return
		}
		seg.DurationMinutes = duration
	}

	req := dto.SlotSearchRequest{
		Date:     q.Get("date"),
		Segments: []dto.SlotSegmentRequest{seg},
	}
	if req.PatientID, err = optionalUUIDParam(q.Get("patient_id")); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient_id", nil)
		return
	}

	h.find(w, r, &req)
}

func (h *SlotHandler) find(w http.ResponseWriter, r *http.Request, req *dto.SlotSearchRequest) {
	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slots, err := h.slotUsecase.FindSlots(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrClinicSettingsMissing) {
			response.Error(w, http.StatusConflict, err.Error(), nil)
			return
		}
		writeSchedulingError(w, err, "Failed to search available slots")
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
}

func optionalUUIDParam(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
