package handler

import (
	"net/http"

	"go-clinic-scheduling/internal/usecase"
	"go-clinic-scheduling/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type TreatmentHandler struct {
	treatmentUsecase usecase.TreatmentUsecase
}

func NewTreatmentHandler(treatmentUsecase usecase.TreatmentUsecase) *TreatmentHandler {
	return &TreatmentHandler{treatmentUsecase: treatmentUsecase}
}

func (h *TreatmentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	treatments, err := h.treatmentUsecase.GetAllTreatments(r.Context())
	if err != nil {
		writeSchedulingError(w, err, "Failed to get treatments")
		return
	}

	response.Success(w, http.StatusOK, "Treatments retrieved successfully", treatments)
}

func (h *TreatmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	treatmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid treatment ID", nil)
		return
	}

	treatment, err := h.treatmentUsecase.GetTreatment(r.Context(), treatmentID)
	if err != nil {
		writeSchedulingError(w, err, "Failed to get treatment")
		return
	}

	response.Success(w, http.StatusOK, "Treatment retrieved successfully", treatment)
}
