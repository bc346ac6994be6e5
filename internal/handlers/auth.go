package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"plantao-ops/internal/config"
	"plantao-ops/internal/middleware"
	"plantao-ops/internal/models"
)

type AuthHandler struct {
	base
}

func NewAuthHandler(cfg *config.Config, store Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{base{cfg: cfg, store: store, logger: logger}}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  userSummary `json:"user"`
}

type userSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login handles POST /api/auth/login. The token is returned in the body and
// also set as the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeModelError(w, r, err)
		return
	}

	user, err := h.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		var nf *models.NotFoundError
		if errors.As(err, &nf) {
			jsonError(w, http.StatusUnauthorized, "Usuário ou senha inválidos")
			return
		}
		h.writeModelError(w, r, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.cfg.Debugf("login rejected for %s", req.Username)
		jsonError(w, http.StatusUnauthorized, "Usuário ou senha inválidos")
		return
	}

	token, err := middleware.NewToken(user.ID.String(), user.Username, user.Role, h.cfg.JWTSecret, h.cfg.TokenTTL)
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "Falha ao criar sessão")
		return
	}

	http.SetCookie(w, middleware.SessionCookie(token, h.cfg.TokenTTL))
	jsonResponse(w, http.StatusOK, loginResponse{
		Token: token,
		User:  userSummary{ID: user.ID.String(), Username: user.Username, Role: user.Role},
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := middleware.SessionCookie("", 0)
	cookie.MaxAge = -1 // Immediately expire
	http.SetCookie(w, cookie)
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/auth/me - returns current user info
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, userSummary{
		ID:       middleware.GetUserID(r),
		Username: middleware.GetUsername(r),
		Role:     middleware.GetUserRole(r),
	})
}
