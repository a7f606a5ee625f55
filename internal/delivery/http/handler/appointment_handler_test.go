package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-clinic-scheduling/internal/delivery/dto"
	"go-clinic-scheduling/internal/service"
	"go-clinic-scheduling/internal/usecase"
	"go-clinic-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAppointmentUsecase returns a canned group or error for every call.
type stubAppointmentUsecase struct {
	group *dto.AppointmentGroupResponse
	err   error
}

func (s *stubAppointmentUsecase) CreateGroup(context.Context, *dto.CreateAppointmentGroupRequest) (*dto.AppointmentGroupResponse, error) {
	return s.group, s.err
}

func (s *stubAppointmentUsecase) RescheduleGroup(context.Context, uuid.UUID, *dto.RescheduleGroupRequest) (*dto.AppointmentGroupResponse, error) {
	return s.group, s.err
}

func (s *stubAppointmentUsecase) CancelGroup(context.Context, uuid.UUID, string) error {
	return s.err
}

func (s *stubAppointmentUsecase) GetGroup(context.Context, uuid.UUID) (*dto.AppointmentGroupResponse, error) {
	return s.group, s.err
}

func (s *stubAppointmentUsecase) ListByDate(context.Context, string) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{}, s.err
}

func (s *stubAppointmentUsecase) ListByPatient(context.Context, uuid.UUID) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{}, s.err
}

func newHandler(stub *stubAppointmentUsecase) *AppointmentHandler {
	return NewAppointmentHandler(stub, nil, validator.NewValidator())
}

func createBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(dto.CreateAppointmentGroupRequest{
		PatientID: uuid.New(),
		Date:      "2025-06-02",
		StartTime: "09:00",
		Segments: []dto.SegmentRequest{
			{Category: "treatment", DurationMinutes: 30},
		},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestCreateGroupSuccess(t *testing.T) {
	groupID := uuid.New()
	h := newHandler(&stubAppointmentUsecase{group: &dto.AppointmentGroupResponse{
		GroupID: groupID,
		Members: []dto.AppointmentResponse{{ID: groupID}},
		Total:   1,
	}})

	rec := httptest.NewRecorder()
	h.CreateGroup(rec, httptest.NewRequest(http.MethodPost, "/appointments", createBody(t)))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateGroupInvalidBody(t *testing.T) {
	h := newHandler(&stubAppointmentUsecase{})

	rec := httptest.NewRecorder()
	h.CreateGroup(rec, httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateGroupValidationFailure(t *testing.T) {
	h := newHandler(&stubAppointmentUsecase{})

	body, err := json.Marshal(dto.CreateAppointmentGroupRequest{Date: "2025-06-02"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.CreateGroup(rec, httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBuffer(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateGroupErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation error", usecase.ErrInvalidDuration, http.StatusBadRequest},
		{"patient missing", usecase.ErrPatientNotFound, http.StatusNotFound},
		{"storage race", usecase.ErrStorageConflict, http.StatusConflict},
		{"resource conflict", &usecase.ConflictError{
			SegmentIndex: 0,
			Conflict: &service.Conflict{
				Kind:           service.ResourceMachine,
				ResourceID:     uuid.New(),
				ConflictingIDs: []uuid.UUID{uuid.New()},
			},
		}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(&stubAppointmentUsecase{err: tt.err})

			rec := httptest.NewRecorder()
			h.CreateGroup(rec, httptest.NewRequest(http.MethodPost, "/appointments", createBody(t)))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestConflictResponseCarriesDetail(t *testing.T) {
	machineID := uuid.New()
	blocking := uuid.New()
	h := newHandler(&stubAppointmentUsecase{err: &usecase.ConflictError{
		SegmentIndex: 1,
		Conflict: &service.Conflict{
			Kind:           service.ResourceMachine,
			ResourceID:     machineID,
			ConflictingIDs: []uuid.UUID{blocking},
		},
	}})

	rec := httptest.NewRecorder()
	h.CreateGroup(rec, httptest.NewRequest(http.MethodPost, "/appointments", createBody(t)))

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			SegmentIndex int `json:"segment_index"`
			Conflict     struct {
				Kind           string   `json:"kind"`
				ResourceID     string   `json:"resource_id"`
				ConflictingIDs []string `json:"conflicting_ids"`
			} `json:"conflict"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, 1, resp.Error.SegmentIndex)
	assert.Equal(t, "machine", resp.Error.Conflict.Kind)
	assert.Equal(t, machineID.String(), resp.Error.Conflict.ResourceID)
	assert.Equal(t, []string{blocking.String()}, resp.Error.Conflict.ConflictingIDs)
}

func TestCancelGroupStateConflict(t *testing.T) {
	h := newHandler(&stubAppointmentUsecase{err: usecase.ErrGroupCancelled})

	req := httptest.NewRequest(http.MethodDelete, "/appointments/"+uuid.New().String(), nil)
	req = mux.SetURLVars(req, map[string]string{"id": uuid.New().String()})

	rec := httptest.NewRecorder()
	h.CancelGroup(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetGroupBadID(t *testing.T) {
	h := newHandler(&stubAppointmentUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/appointments/not-a-uuid", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "not-a-uuid"})

	rec := httptest.NewRecorder()
	h.GetGroup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetGroupNotFound(t *testing.T) {
	h := newHandler(&stubAppointmentUsecase{err: usecase.ErrGroupNotFound})

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/appointments/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"id": id})

	rec := httptest.NewRecorder()
	h.GetGroup(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRequiresFilter(t *testing.T) {
	h := newHandler(&stubAppointmentUsecase{})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/appointments", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
