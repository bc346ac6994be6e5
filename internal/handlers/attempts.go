package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"plantao-ops/internal/config"
)

type AttemptsHandler struct {
	base
}

func NewAttemptsHandler(cfg *config.Config, store Store, logger *zap.Logger) *AttemptsHandler {
	return &AttemptsHandler{base{cfg: cfg, store: store, logger: logger}}
}

// GET /api/attempts?studentId=
func (h *AttemptsHandler) List(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.store.ListAttempts(r.Context(), r.URL.Query().Get("studentId"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, attempts)
}

// GET /api/attempts/count/{studentId}
func (h *AttemptsHandler) Count(w http.ResponseWriter, r *http.Request) {
	studentID := pathParam(r, "studentId")
	n, err := h.store.CountAttempts(r.Context(), studentID)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]interface{}{"id_aluno": studentID, "total": n})
}

type attemptRequest struct {
	StudentID    string  `json:"id_aluno" validate:"required"`
	DesiredDate  string  `json:"data_desejada" validate:"required"`
	AchievedDate *string `json:"data_conseguida"`
}

func (h *AttemptsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req attemptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	attempt, err := h.store.CreateAttempt(r.Context(), req.StudentID, req.DesiredDate, req.AchievedDate)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, attempt)
}

// DELETE /api/attempts/{studentId}/{attemptDate}/{desiredDate}
func (h *AttemptsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteAttempt(r.Context(), pathParam(r, "studentId"),
		pathParam(r, "attemptDate"), pathParam(r, "desiredDate"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
