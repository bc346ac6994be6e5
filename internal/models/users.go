package models

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin    = "admin"
	RoleOperator = "operador"
)

const entityUser = "usuário"

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	u := &User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, mapError("get user", entityUser, username, err)
	}
	return u, nil
}

// CreateUser stores username with a bcrypt hash of password.
func (r *Repository) CreateUser(ctx context.Context, username, password, role string) (*User, error) {
	if err := required("username", username); err != nil {
		return nil, err
	}
	if err := required("password", password); err != nil {
		return nil, err
	}
	if role != RoleAdmin && role != RoleOperator {
		return nil, &ValidationError{Field: "role", Message: "papel inválido: " + role}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &DatabaseError{Op: "hash password", Err: err}
	}

	u := &User{ID: uuid.New(), Username: username, PasswordHash: string(hash), Role: role}
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, username, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, u.ID, u.Username, u.PasswordHash, u.Role).Scan(&u.CreatedAt)
	if err != nil {
		return nil, mapError("create user", entityUser, username, err)
	}
	return u, nil
}

// EnsureUser creates username unless it already exists.
func (r *Repository) EnsureUser(ctx context.Context, username, password, role string) (created bool, err error) {
	_, err = r.GetUserByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		return false, err
	}
	if _, err := r.CreateUser(ctx, username, password, role); err != nil {
		return false, err
	}
	return true, nil
}
