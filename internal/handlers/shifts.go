package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"plantao-ops/internal/config"
	"plantao-ops/internal/middleware"
	"plantao-ops/internal/models"
)

type ShiftsHandler struct {
	base
}

func NewShiftsHandler(cfg *config.Config, store Store, logger *zap.Logger) *ShiftsHandler {
	return &ShiftsHandler{base{cfg: cfg, store: store, logger: logger}}
}

// GET /api/shifts?date=&studentId=&status=
func (h *ShiftsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	shifts, err := h.store.ListShifts(r.Context(), models.ShiftFilter{
		Date:      q.Get("date"),
		StudentID: q.Get("studentId"),
		Status:    q.Get("status"),
	})
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, shifts)
}

type shiftRequest struct {
	StudentID string  `json:"id_aluno" validate:"required"`
	Date      string  `json:"data_plantao" validate:"required"`
	Notes     *string `json:"observacoes"`
}

// Create books a shift. 422 when the date is full, 409 when the student
// already has a shift that day.
func (h *ShiftsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req shiftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeModelError(w, r, err)
		return
	}

	shift, err := h.store.CreateShift(r.Context(), req.StudentID, req.Date, req.Notes)
	middleware.ShiftBookings.WithLabelValues(bookingResult(err)).Inc()
	if err != nil {
		var ce *models.CapacityExceededError
		if errors.As(err, &ce) {
			h.logger.Info("shift date full", zap.String("date", ce.Date), zap.String("student", req.StudentID))
		}
		h.writeModelError(w, r, err)
		return
	}
	h.cfg.Debugf("shift booked: %s on %s", shift.StudentID, shift.Date)
	jsonResponse(w, http.StatusCreated, shift)
}

func bookingResult(err error) string {
	var (
		ce *models.CapacityExceededError
		de *models.DuplicateError
		ve *models.ValidationError
		nf *models.NotFoundError
	)
	switch {
	case err == nil:
		return "created"
	case errors.As(err, &ce):
		return "capacity"
	case errors.As(err, &de):
		return "duplicate"
	case errors.As(err, &ve), errors.As(err, &nf):
		return "rejected"
	default:
		return "error"
	}
}

type shiftUpdateRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"observacoes"`
}

// PUT /api/shifts/{studentId}/{date}
func (h *ShiftsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req shiftUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	shift, err := h.store.UpdateShift(r.Context(), pathParam(r, "studentId"), pathParam(r, "date"),
		models.ShiftUpdate{Status: req.Status, Notes: req.Notes})
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, shift)
}

func (h *ShiftsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteShift(r.Context(), pathParam(r, "studentId"), pathParam(r, "date")); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
