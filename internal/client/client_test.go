package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantao-ops/internal/models"
)

type fakeAPI struct {
	shiftGets int32
	onBook    func(w http.ResponseWriter, r *http.Request)
	lastPath  string
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"token": "tok-123"})
	})
	mux.HandleFunc("/api/shifts", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Não autenticado"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			atomic.AddInt32(&f.shiftGets, 1)
			writeJSON(w, http.StatusOK, []*models.Shift{{StudentID: "S1", Date: "10/03/2025", Status: models.ShiftDone}})
		case http.MethodPost:
			f.onBook(w, r)
		}
	})
	mux.HandleFunc("/api/shifts/", func(w http.ResponseWriter, r *http.Request) {
		f.lastPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	})
	empty := func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, []struct{}{}) }
	mux.HandleFunc("/api/shift-students", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []*models.ShiftStudent{{ID: "S1", Name: "Aluno 01"}})
	})
	mux.HandleFunc("/api/attempts", empty)
	mux.HandleFunc("/api/after-shift", empty)
	mux.HandleFunc("/api/feedback", empty)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	c := New(srv.URL+"/", "")
	require.NoError(t, c.Login(context.Background(), "ana", "segredo"))
	assert.Equal(t, "tok-123", c.Token())
	return c
}

func TestShiftsAreCached(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api)
	ctx := context.Background()

	first, err := c.Shifts(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	_, err = c.Shifts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&api.shiftGets))

	c.Invalidate()
	_, err = c.Shifts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&api.shiftGets))
}

func TestBookShiftOverlayAndInvalidate(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api)
	ctx := context.Background()
	_, err := c.Shifts(ctx)
	require.NoError(t, err)

	var sawPending bool
	api.onBook = func(w http.ResponseWriter, r *http.Request) {
		cached, ok := c.CachedShifts()
		sawPending = ok && len(cached) == 2 && cached[1].StudentID == "S2" && cached[1].Status == models.ShiftOpen
		writeJSON(w, http.StatusCreated, models.Shift{StudentID: "S2", Date: "10/03/2025", Status: models.ShiftOpen})
	}

	shift, err := c.BookShift(ctx, "S2", "10/03/2025", nil)
	require.NoError(t, err)
	assert.Equal(t, "S2", shift.StudentID)
	assert.True(t, sawPending)

	_, loaded := c.CachedShifts()
	assert.False(t, loaded)
}

func TestBookShiftFailureRollsBack(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api)
	ctx := context.Background()
	_, err := c.Shifts(ctx)
	require.NoError(t, err)

	api.onBook = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   "Limite de 10 plantões atingido para 10/03/2025",
			"details": map[string]interface{}{"date": "10/03/2025", "limit": 10},
		})
	}

	_, err = c.BookShift(ctx, "S2", "10/03/2025", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "Limite de 10 plantões atingido para 10/03/2025", apiErr.Message)
	assert.EqualValues(t, 10, apiErr.Details["limit"])

	shifts, err := c.Shifts(ctx)
	require.NoError(t, err)
	assert.Len(t, shifts, 1)
	assert.EqualValues(t, 2, atomic.LoadInt32(&api.shiftGets))
}

func TestCancelShiftEscapesDate(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api)
	require.NoError(t, c.CancelShift(context.Background(), "S1", "10/03/2025"))
	assert.Equal(t, "/api/shifts/S1/10%2F03%2F2025", api.lastPath)
}

func TestFetchCollections(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api)

	in, err := c.FetchCollections(context.Background())
	require.NoError(t, err)
	assert.Len(t, in.Students, 1)
	assert.Len(t, in.Shifts, 1)
	assert.Empty(t, in.Attempts)
	assert.Empty(t, in.Forms)
	assert.Empty(t, in.Feedback)
}

func TestConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, "tok")
	_, err := c.Shifts(context.Background())
	assert.True(t, errors.Is(err, ErrConnectivity))
}
