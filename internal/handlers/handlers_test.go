package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"plantao-ops/internal/cache"
	"plantao-ops/internal/config"
	"plantao-ops/internal/middleware"
	"plantao-ops/internal/models"
)

// fakeStore implements the few Store methods these tests reach. Anything
// else panics through the nil embedded interface.
type fakeStore struct {
	Store

	mu          sync.Mutex
	user        *models.User
	shiftsOnDay int
	booked      map[string]bool
	deleted     []string
	listCalls   int
	failLists   error
	feedback    []*models.Feedback
}

func newFakeStore(t *testing.T) *fakeStore {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo"), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeStore{
		user:   &models.User{ID: uuid.New(), Username: "ana", PasswordHash: string(hash), Role: models.RoleOperator},
		booked: map[string]bool{},
	}
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	if username != f.user.Username {
		return nil, &models.NotFoundError{Entity: "usuário", Key: username}
	}
	return f.user, nil
}

func (f *fakeStore) CreateShift(_ context.Context, studentID, date string, _ *string) (*models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.shiftsOnDay >= models.MaxShiftsPerDay {
		return nil, &models.CapacityExceededError{Date: date, Limit: models.MaxShiftsPerDay}
	}
	if f.booked[studentID+date] {
		return nil, &models.DuplicateError{Entity: "plantão", Constraint: "pf_plantoes_aluno_data_key"}
	}
	f.booked[studentID+date] = true
	f.shiftsOnDay++
	return &models.Shift{StudentID: studentID, Date: date, Status: models.ShiftOpen}, nil
}

func (f *fakeStore) DeleteShift(_ context.Context, studentID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, studentID+"|"+date)
	return nil
}

func (f *fakeStore) UpdateFinanceField(_ context.Context, id, field string, value interface{}) (*models.FinanceEntry, error) {
	if _, _, err := models.ColumnValue(models.EntityFinance, field, value); err != nil {
		return nil, err
	}
	return &models.FinanceEntry{ID: id}, nil
}

func (f *fakeStore) ListShiftStudents(context.Context) ([]*models.ShiftStudent, error) {
	return []*models.ShiftStudent{{ID: "S1"}}, nil
}

func (f *fakeStore) ListShifts(context.Context, models.ShiftFilter) ([]*models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failLists != nil {
		return nil, f.failLists
	}
	return []*models.Shift{{StudentID: "S1", Date: "10/03/2025", Status: models.ShiftDone}}, nil
}

func (f *fakeStore) ListAttempts(context.Context, string) ([]*models.Attempt, error) {
	return []*models.Attempt{}, nil
}

func (f *fakeStore) ListAfterShift(context.Context) ([]*models.AfterShiftForm, error) {
	return []*models.AfterShiftForm{}, nil
}

func (f *fakeStore) ListFeedback(context.Context) ([]*models.Feedback, error) {
	if f.feedback != nil {
		return f.feedback, nil
	}
	return []*models.Feedback{}, nil
}

type testServer struct {
	handler http.Handler
	store   *fakeStore
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
	store := newFakeStore(t)
	ns := cache.NewNamespace(cache.NewMemory(), "dashboard", time.Minute)
	token, err := middleware.NewToken(store.user.ID.String(), "ana", models.RoleOperator, cfg.JWTSecret, time.Hour)
	require.NoError(t, err)
	return &testServer{handler: NewRouter(cfg, store, zap.NewNop(), ns), store: store, token: token}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	rec := s.do(t, http.MethodGet, "/api/shifts", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "ana", "password": "segredo"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ana", resp.User.Username)
	claims, err := middleware.ParseToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleOperator, claims.Role)

	var sawCookie bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			sawCookie = true
		}
	}
	assert.True(t, sawCookie)

	rec = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "ana", "password": "errada"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "ninguem", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginValidation(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "ana"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "required", body.Details["password"])
}

func TestCreateShiftStatuses(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/shifts", map[string]string{"id_aluno": "S1", "data_plantao": "10/03/2025"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/shifts", map[string]string{"id_aluno": "S1", "data_plantao": "10/03/2025"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "pf_plantoes_aluno_data_key", decodeError(t, rec).Details["constraint"])

	s.store.shiftsOnDay = models.MaxShiftsPerDay
	rec = s.do(t, http.MethodPost, "/api/shifts", map[string]string{"id_aluno": "S2", "data_plantao": "10/03/2025"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.EqualValues(t, models.MaxShiftsPerDay, decodeError(t, rec).Details["limit"])

	rec = s.do(t, http.MethodPost, "/api/shifts", map[string]string{"data_plantao": "10/03/2025"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "required", decodeError(t, rec).Details["id_aluno"])
}

func TestDeleteShiftDecodesDatePath(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodDelete, "/api/shifts/S1/10%2F03%2F2025", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/shifts/S1/2025-03-11", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"S1|10/03/2025", "S1|2025-03-11"}, s.store.deleted)
}

func TestPatchFinanceRejectsField(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPatch, "/api/finance/F1", map[string]interface{}{"field": "valor_total", "value": "1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "valor_total", body.Details["field"])
	assert.NotEmpty(t, body.Details["allowed"])

	rec = s.do(t, http.MethodPatch, "/api/finance/F1", map[string]interface{}{"field": "quantidade", "value": 2})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReconcileRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/shift-students/reconcile", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFinanceDeleteRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodDelete, "/api/finance/F1", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDashboardCacheInvalidatedByWrites(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/analytics/dashboard?granularity=month", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	rec = s.do(t, http.MethodGet, "/api/analytics/dashboard?granularity=month", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, s.store.listCalls)

	// A rejected write leaves the cache alone.
	rec = s.do(t, http.MethodPost, "/api/shifts", map[string]string{"data_plantao": "10/03/2025"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/analytics/dashboard?granularity=month", nil)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = s.do(t, http.MethodPost, "/api/shifts", map[string]string{"id_aluno": "S9", "data_plantao": "10/03/2025"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/analytics/dashboard?granularity=month", nil)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, s.store.listCalls)

	var d struct {
		Trend []struct {
			Key   string `json:"chave"`
			Total int    `json:"total"`
		} `json:"tendencia"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	require.Len(t, d.Trend, 1)
	assert.Equal(t, "2025-03", d.Trend[0].Key)
}

func TestDashboardRejectsGranularity(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/analytics/dashboard?granularity=day", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDatabaseErrorCarriesCause(t *testing.T) {
	s := newTestServer(t)
	s.store.failLists = &models.DatabaseError{Op: "list shifts", Err: errors.New("connection refused")}

	rec := s.do(t, http.MethodGet, "/api/shifts", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "connection refused", decodeError(t, rec).Details["cause"])
}

func TestDashboardIgnoresNonNumericScores(t *testing.T) {
	s := newTestServer(t)
	eight, nan := "8", "NaN"
	s.store.feedback = []*models.Feedback{{OverallScore: &eight}, {OverallScore: &nan}}

	rec := s.do(t, http.MethodGet, "/api/analytics/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var d struct {
		Feedback []struct {
			Field     string  `json:"campo"`
			Average   float64 `json:"media"`
			Responses int     `json:"respostas"`
		} `json:"medias_feedback"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	require.NotEmpty(t, d.Feedback)
	assert.Equal(t, "nota_geral", d.Feedback[0].Field)
	assert.InDelta(t, 8.0, d.Feedback[0].Average, 1e-9)
	assert.Equal(t, 1, d.Feedback[0].Responses)
}
