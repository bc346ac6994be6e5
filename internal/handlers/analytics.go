package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"plantao-ops/internal/analytics"
	"plantao-ops/internal/cache"
	"plantao-ops/internal/config"
	"plantao-ops/internal/models"
)

// AnalyticsHandler computes the dashboard server-side. Results are cached
// per query until any write goes through InvalidateOnWrite.
type AnalyticsHandler struct {
	base
	cache *cache.Namespace
}

func NewAnalyticsHandler(cfg *config.Config, store Store, logger *zap.Logger, ns *cache.Namespace) *AnalyticsHandler {
	return &AnalyticsHandler{base: base{cfg: cfg, store: store, logger: logger}, cache: ns}
}

// trendOptions reads from, to, granularity (week|month) and weekStart (0=Sunday).
func trendOptions(r *http.Request) (analytics.TrendOptions, error) {
	opts := analytics.DefaultTrendOptions()
	from, err := parseDateQuery(r, "from")
	if err != nil {
		return opts, err
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		return opts, err
	}
	opts.From, opts.To = from, to

	switch g := r.URL.Query().Get("granularity"); g {
	case "", string(analytics.ByWeek):
	case string(analytics.ByMonth):
		opts.Granularity = analytics.ByMonth
	default:
		return opts, &models.ValidationError{Field: "granularity", Message: "granularity deve ser week ou month"}
	}

	if ws := r.URL.Query().Get("weekStart"); ws != "" {
		n, err := strconv.Atoi(ws)
		if err != nil || n < 0 || n > 6 {
			return opts, &models.ValidationError{Field: "weekStart", Message: "weekStart deve estar entre 0 e 6"}
		}
		opts.WeekStart = time.Weekday(n)
	}
	return opts, nil
}

func (h *AnalyticsHandler) collect(r *http.Request) (analytics.Input, error) {
	var in analytics.Input
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) { in.Students, err = h.store.ListShiftStudents(ctx); return })
	g.Go(func() (err error) { in.Shifts, err = h.store.ListShifts(ctx, models.ShiftFilter{}); return })
	g.Go(func() (err error) { in.Attempts, err = h.store.ListAttempts(ctx, ""); return })
	g.Go(func() (err error) { in.Forms, err = h.store.ListAfterShift(ctx); return })
	g.Go(func() (err error) { in.Feedback, err = h.store.ListFeedback(ctx); return })
	return in, g.Wait()
}

// GET /api/analytics/dashboard?from=&to=&granularity=&weekStart=
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	opts, err := trendOptions(r)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}

	key := r.URL.Query().Encode()
	if cached, ok, err := h.cache.Get(r.Context(), key); err == nil && ok {
		w.Header().Set("X-Cache", "HIT")
		var d analytics.Dashboard
		if err := json.Unmarshal(cached, &d); err == nil {
			jsonResponse(w, http.StatusOK, d)
			return
		}
	} else if err != nil && !errors.Is(err, cache.ErrNotConfigured) {
		h.logger.Warn("dashboard cache read failed", zap.Error(err))
	}

	in, err := h.collect(r)
	if err != nil {
		h.writeModelError(w, r, err)
		return
	}
	d := analytics.BuildDashboard(in, opts)

	raw, err := json.Marshal(d)
	if err != nil {
		h.logger.Error("failed to encode dashboard", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "Falha ao montar o painel")
		return
	}
	if err := h.cache.Set(r.Context(), key, raw); err != nil && !errors.Is(err, cache.ErrNotConfigured) {
		h.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	w.Header().Set("X-Cache", "MISS")
	jsonResponse(w, http.StatusOK, d)
}

// InvalidateOnWrite drops cached dashboards after every successful non-GET request.
func (h *AnalyticsHandler) InvalidateOnWrite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		if ww.Status() < 400 {
			if err := h.cache.Invalidate(r.Context()); err != nil && !errors.Is(err, cache.ErrNotConfigured) {
				h.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
			}
		}
	})
}
