package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"plantao-ops/internal/config"
)

type FeedbackHandler struct {
	base
}

func NewFeedbackHandler(cfg *config.Config, store Store, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{base{cfg: cfg, store: store, logger: logger}}
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.store.ListFeedback(r.Context())
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, feedback)
}
