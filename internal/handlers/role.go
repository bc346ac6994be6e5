package handlers

import (
	"net/http"

	"plantao-ops/internal/middleware"
	"plantao-ops/internal/models"
)

// IsAdmin returns true if the current user has the admin role.
func IsAdmin(r *http.Request) bool {
	return middleware.GetUserRole(r) == models.RoleAdmin
}
