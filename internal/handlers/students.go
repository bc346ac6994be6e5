package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"plantao-ops/internal/config"
	"plantao-ops/internal/models"
)

// StudentsHandler serves the CRM registrations under /api/students.
type StudentsHandler struct {
	base
}

func NewStudentsHandler(cfg *config.Config, store Store, logger *zap.Logger) *StudentsHandler {
	return &StudentsHandler{base{cfg: cfg, store: store, logger: logger}}
}

// GET /api/students?status=&q=
func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.ListStudents(r.Context(), r.URL.Query().Get("status"), r.URL.Query().Get("q"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, students)
}

func (h *StudentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	student, err := h.store.GetStudent(r.Context(), pathParam(r, "id"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, student)
}

func (h *StudentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var s models.Student
	if err := decodeJSON(w, r, &s); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	created, err := h.store.CreateStudent(r.Context(), &s)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

// PUT /api/students/{id} replaces every editable column.
func (h *StudentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var s models.Student
	if err := decodeJSON(w, r, &s); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	s.ID = pathParam(r, "id")
	updated, err := h.store.UpdateStudent(r.Context(), &s)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// PATCH /api/students/{id} with {"field": ..., "value": ...}
func (h *StudentsHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req fieldUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	updated, err := h.store.UpdateStudentField(r.Context(), pathParam(r, "id"), req.Field, req.Value)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (h *StudentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteStudent(r.Context(), pathParam(r, "id")); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
