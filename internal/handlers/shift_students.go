package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"plantao-ops/internal/config"
	"plantao-ops/internal/models"
)

// ShiftStudentsHandler serves the shift-program students and their counters.
type ShiftStudentsHandler struct {
	base
}

func NewShiftStudentsHandler(cfg *config.Config, store Store, logger *zap.Logger) *ShiftStudentsHandler {
	return &ShiftStudentsHandler{base{cfg: cfg, store: store, logger: logger}}
}

func (h *ShiftStudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.ListShiftStudents(r.Context())
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, students)
}

func (h *ShiftStudentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	student, err := h.store.GetShiftStudent(r.Context(), pathParam(r, "id"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, student)
}

type shiftStudentRequest struct {
	ID     string  `json:"id_aluno"`
	Name   string  `json:"nome" validate:"required"`
	Phone  *string `json:"telefone"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Status string  `json:"status"`
}

func (h *ShiftStudentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req shiftStudentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	created, err := h.store.CreateShiftStudent(r.Context(), &models.ShiftStudent{
		ID: req.ID, Name: req.Name, Phone: req.Phone, Email: req.Email, Status: req.Status,
	})
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

// POST /api/shift-students/reconcile?apply=true - admin only
func (h *ShiftStudentsHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	apply := r.URL.Query().Get("apply") == "true"
	drifts, err := h.store.ReconcileCounters(r.Context(), apply)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	if len(drifts) > 0 {
		h.logger.Warn("counter drift detected", zap.Int("students", len(drifts)), zap.Bool("applied", apply))
	}
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"divergencias": drifts,
		"corrigido":    apply,
	})
}
