package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	domain "github.com/oshokin/medication-alarm/internal/domain/alarm"
	"github.com/oshokin/medication-alarm/internal/logger"
	rpcv1 "github.com/oshokin/medication-alarm/internal/rpc/v1"
	"github.com/oshokin/medication-alarm/internal/service/reminder"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// handler serves the HTTP routes.
type handler struct {
	service Service
}

// createBody is the POST /api/medication-alarms payload.
type createBody struct {
	MedicationReferenceID int64  `json:"medication_reference_id"`
	AlarmTime             string `json:"alarm_time"`
	IsActive              *bool  `json:"is_active"`
	Notes                 string `json:"notes"`
}

// updateBody is the PATCH payload; absent fields are left unchanged.
type updateBody struct {
	AlarmTime *string `json:"alarm_time"`
	IsActive  *bool   `json:"is_active"`
	Notes     *string `json:"notes"`
}

// statusBody is the PUT .../status payload.
type statusBody struct {
	IsActive *bool `json:"is_active"`
}

// errorBody is returned for every failed request.
type errorBody struct {
	Error string `json:"error"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sweep runs detached from the request context, a dropped connection must not
// cancel the dispatches in flight.
func (h *handler) sweep(w http.ResponseWriter, r *http.Request) {
	report := h.service.ProcessDueAlarms(context.WithoutCancel(r.Context()))

	writeJSON(w, http.StatusOK, rpcv1.ProcessDueAlarmsResponse{
		StartedAt:  report.StartedAt,
		Candidates: report.Candidates,
		Due:        report.Due,
		Sent:       report.Sent,
		Failed:     report.Failed,
	})
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	alarms, err := h.service.GetPersonalAlarms(r.Context(), patientFrom(r.Context()))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	out := make([]*rpcv1.Alarm, 0, len(alarms))
	for _, a := range alarms {
		out = append(out, rpcv1.FromDomain(a))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var body createBody
	if !decodeBody(w, r, &body) {
		return
	}

	alarmTime, err := domain.ParseTimeOfDay(body.AlarmTime)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	isActive := true
	if body.IsActive != nil {
		isActive = *body.IsActive
	}

	created, err := h.service.CreateAlarm(r.Context(), reminder.CreateRequest{
		PatientID:             patientFrom(r.Context()),
		MedicationReferenceID: body.MedicationReferenceID,
		AlarmTime:             alarmTime,
		IsActive:              isActive,
		Notes:                 body.Notes,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rpcv1.FromDomain(created))
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	alarmID, ok := alarmIDParam(w, r)
	if !ok {
		return
	}

	found, err := h.service.GetAlarmByID(r.Context(), alarmID, patientFrom(r.Context()))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	if found == nil {
		writeError(w, http.StatusNotFound, "alarm not found")
		return
	}

	writeJSON(w, http.StatusOK, rpcv1.FromDomain(found))
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	alarmID, ok := alarmIDParam(w, r)
	if !ok {
		return
	}

	var body updateBody
	if !decodeBody(w, r, &body) {
		return
	}

	patch := domain.Patch{IsActive: body.IsActive, Notes: body.Notes}

	if body.AlarmTime != nil {
		alarmTime, err := domain.ParseTimeOfDay(*body.AlarmTime)
		if err != nil {
			writeServiceError(r.Context(), w, err)
			return
		}

		patch.AlarmTime = &alarmTime
	}

	updated, err := h.service.UpdateAlarm(r.Context(), alarmID, patientFrom(r.Context()), patch)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, rpcv1.FromDomain(updated))
}

func (h *handler) remove(w http.ResponseWriter, r *http.Request) {
	alarmID, ok := alarmIDParam(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteAlarm(r.Context(), alarmID, patientFrom(r.Context()))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	if !deleted {
		writeError(w, http.StatusNotFound, "alarm not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) toggle(w http.ResponseWriter, r *http.Request) {
	alarmID, ok := alarmIDParam(w, r)
	if !ok {
		return
	}

	var body statusBody
	if !decodeBody(w, r, &body) {
		return
	}

	if body.IsActive == nil {
		writeError(w, http.StatusBadRequest, "is_active is required")
		return
	}

	updated, err := h.service.ToggleAlarmStatus(r.Context(), alarmID, *body.IsActive, patientFrom(r.Context()))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	if !updated {
		writeError(w, http.StatusNotFound, "alarm not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// alarmIDParam parses the {alarmID} path segment.
func alarmIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	alarmID, err := strconv.ParseInt(chi.URLParam(r, "alarmID"), 10, 64)
	if err != nil || alarmID <= 0 {
		writeError(w, http.StatusBadRequest, "alarm id must be a positive integer")
		return 0, false
	}

	return alarmID, true
}

// decodeBody reads a JSON body into dst, answering 400 on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}

	return true
}

// writeServiceError maps the engine error taxonomy onto HTTP status codes.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.ErrorKV(ctx, "Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
