package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"plantao-ops/internal/config"
	"plantao-ops/internal/models"
)

// AfterShiftHandler serves the post-shift forms. Writing a form also sets the
// shift status; see models.Repository.RecordAfterShift.
type AfterShiftHandler struct {
	base
}

func NewAfterShiftHandler(cfg *config.Config, store Store, logger *zap.Logger) *AfterShiftHandler {
	return &AfterShiftHandler{base{cfg: cfg, store: store, logger: logger}}
}

func (h *AfterShiftHandler) List(w http.ResponseWriter, r *http.Request) {
	forms, err := h.store.ListAfterShift(r.Context())
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, forms)
}

func (h *AfterShiftHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.store.GetAfterShift(r.Context(), pathParam(r, "studentId"), pathParam(r, "date"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, form)
}

func (h *AfterShiftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form models.AfterShiftForm
	if err := decodeJSON(w, r, &form); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	created, err := h.store.RecordAfterShift(r.Context(), &form)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

// PUT /api/after-shift/{studentId}/{date}. The key comes from the path.
func (h *AfterShiftHandler) Update(w http.ResponseWriter, r *http.Request) {
	var form models.AfterShiftForm
	if err := decodeJSON(w, r, &form); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	form.StudentID = pathParam(r, "studentId")
	form.Date = pathParam(r, "date")
	updated, err := h.store.UpdateAfterShift(r.Context(), &form)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (h *AfterShiftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAfterShift(r.Context(), pathParam(r, "studentId"), pathParam(r, "date")); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
