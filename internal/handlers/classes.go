package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"plantao-ops/internal/config"
	"plantao-ops/internal/models"
)

type ClassesHandler struct {
	base
}

func NewClassesHandler(cfg *config.Config, store Store, logger *zap.Logger) *ClassesHandler {
	return &ClassesHandler{base{cfg: cfg, store: store, logger: logger}}
}

// GET /api/classes?status=
func (h *ClassesHandler) List(w http.ResponseWriter, r *http.Request) {
	classes, err := h.store.ListClasses(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, classes)
}

func (h *ClassesHandler) Get(w http.ResponseWriter, r *http.Request) {
	class, err := h.store.GetClass(r.Context(), pathParam(r, "id"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, class)
}

func (h *ClassesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c models.Class
	if err := decodeJSON(w, r, &c); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	created, err := h.store.CreateClass(r.Context(), &c)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

func (h *ClassesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var c models.Class
	if err := decodeJSON(w, r, &c); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	c.ID = pathParam(r, "id")
	updated, err := h.store.UpdateClass(r.Context(), &c)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (h *ClassesHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req fieldUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	updated, err := h.store.UpdateClassField(r.Context(), pathParam(r, "id"), req.Field, req.Value)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (h *ClassesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteClass(r.Context(), pathParam(r, "id")); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/classes/{id}/students
func (h *ClassesHandler) Students(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.ClassStudents(r.Context(), pathParam(r, "id"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, students)
}

// GET /api/classes/{id}/finance
func (h *ClassesHandler) Finance(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ClassFinance(r.Context(), pathParam(r, "id"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, entries)
}
