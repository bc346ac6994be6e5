package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func protected(t *testing.T, roles ...string) http.Handler {
	t.Helper()
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetUsername(r) + ":" + GetUserRole(r)))
	})
	if len(roles) > 0 {
		h = RequireRole(roles...)(h)
	}
	return RequireAuth(testSecret)(h)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := NewToken("u1", "ana", "admin", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "admin", claims.Role)

	_, err = ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	token, err := NewToken("u1", "ana", "admin", testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(token, testSecret)
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	token, err := NewToken("u1", "ana", "operador", testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"garbage bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(SessionCookie(token, time.Hour)) }, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/shifts", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			protected(t).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "ana:operador", rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	op, _ := NewToken("u1", "ana", "operador", testSecret, time.Hour)
	admin, _ := NewToken("u2", "root", "admin", testSecret, time.Hour)

	for token, want := range map[string]int{op: http.StatusForbidden, admin: http.StatusOK} {
		req := httptest.NewRequest(http.MethodPost, "/api/shift-students/reconcile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected(t, "admin").ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code)
	}
}
