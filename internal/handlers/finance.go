package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"plantao-ops/internal/config"
	"plantao-ops/internal/models"
	"plantao-ops/internal/util"
)

type FinanceHandler struct {
	base
}

func NewFinanceHandler(cfg *config.Config, store Store, logger *zap.Logger) *FinanceHandler {
	return &FinanceHandler{base{cfg: cfg, store: store, logger: logger}}
}

func (h *FinanceHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListFinance(r.Context())
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, entries)
}

// GET /api/finance/type/{type}
func (h *FinanceHandler) ByType(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.FinanceByType(r.Context(), pathParam(r, "type"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, entries)
}

func (h *FinanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.store.GetFinance(r.Context(), pathParam(r, "id"))
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, entry)
}

func (h *FinanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var f models.FinanceEntry
	if err := decodeJSON(w, r, &f); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	created, err := h.store.CreateFinance(r.Context(), &f)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

func (h *FinanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var f models.FinanceEntry
	if err := decodeJSON(w, r, &f); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	f.ID = pathParam(r, "id")
	updated, err := h.store.UpdateFinance(r.Context(), &f)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// PATCH /api/finance/{id}. Editing quantidade or valor_unitario also rewrites valor_total.
func (h *FinanceHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req fieldUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	updated, err := h.store.UpdateFinanceField(r.Context(), pathParam(r, "id"), req.Field, req.Value)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete is admin only.
func (h *FinanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !IsAdmin(r) {
		jsonError(w, http.StatusForbidden, "Apenas administradores podem excluir lançamentos")
		return
	}
	if err := h.store.DeleteFinance(r.Context(), pathParam(r, "id")); err != nil {
		h.writeModelError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/finance/resumo?from=&to=
func (h *FinanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	summary, err := h.store.FinanceSummary(r.Context(), from, to)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}

// parseDateQuery reads an optional date query parameter in any accepted format.
func parseDateQuery(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := util.ParseDate(raw)
	if err != nil {
		return nil, &models.ValidationError{Field: name, Message: err.Error()}
	}
	return &t, nil
}
