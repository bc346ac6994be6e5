package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"plantao-ops/internal/config"
	"plantao-ops/internal/models"
)

type EnrollmentsHandler struct {
	base
}

func NewEnrollmentsHandler(cfg *config.Config, store Store, logger *zap.Logger) *EnrollmentsHandler {
	return &EnrollmentsHandler{base{cfg: cfg, store: store, logger: logger}}
}

type enrollmentRequest struct {
	StudentID string  `json:"id_aluno" validate:"required"`
	ClassID   string  `json:"id_turma" validate:"required"`
	Status    string  `json:"status"`
	Notes     *string `json:"observacoes"`
}

type enrollmentUpdateRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"observacoes"`
}

func (h *EnrollmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListEnrollments(r.Context())
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *EnrollmentsHandler) ByStudent(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.EnrollmentsByStudent(r.Context(), pathParam(r, "id"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *EnrollmentsHandler) ByClass(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.EnrollmentsByClass(r.Context(), pathParam(r, "id"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *EnrollmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.GetEnrollment(r.Context(), pathParam(r, "id"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, e)
}

func (h *EnrollmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req enrollmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	created, err := h.store.CreateEnrollment(r.Context(), &models.Enrollment{
		StudentID: req.StudentID,
		ClassID:   req.ClassID,
		Status:    req.Status,
		Notes:     req.Notes,
	})
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

func (h *EnrollmentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req enrollmentUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	updated, err := h.store.UpdateEnrollment(r.Context(), pathParam(r, "id"), req.Status, req.Notes)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (h *EnrollmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteEnrollment(r.Context(), pathParam(r, "id")); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
