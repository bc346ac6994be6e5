package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"plantao-ops/internal/config"
	"plantao-ops/internal/models"
)

// base carries what every handler needs.
type base struct {
	cfg    *config.Config
	store  Store
	logger *zap.Logger
}

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports field names by their json tag so error details match
// the payload keys.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// JSON response helpers
func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode JSON response", zap.Error(err))
	}
}

func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

func jsonErrorDetails(w http.ResponseWriter, status int, message string, details interface{}) {
	jsonResponse(w, status, map[string]interface{}{"error": message, "details": details})
}

// decodeJSON reads the body into dst and runs struct-tag validation.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return &models.ValidationError{Field: "body", Message: "JSON inválido: " + err.Error()}
	}
	if err := validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return &models.ValidationError{Field: "body", Message: "Entrada inválida"}
		}
		details := make(map[string]string, len(ve))
		for _, fe := range ve {
			details[fe.Field()] = fe.Tag()
		}
		return &models.ValidationError{Field: ve[0].Field(), Message: "Validação falhou", Details: details}
	}
	return nil
}

// writeModelError maps the repository error taxonomy onto HTTP statuses.
func (b *base) writeModelError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve  *models.ValidationError
		fe  *models.InvalidFieldError
		nf  *models.NotFoundError
		de  *models.DuplicateError
		ce  *models.CapacityExceededError
		dbe *models.DatabaseError
	)
	switch {
	case errors.As(err, &ve):
		if len(ve.Details) > 0 {
			jsonErrorDetails(w, http.StatusBadRequest, ve.Error(), ve.Details)
			return
		}
		jsonError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &fe):
		jsonErrorDetails(w, http.StatusBadRequest, fe.Error(), map[string]interface{}{
			"field":   fe.Field,
			"allowed": models.AllowedFields(fe.Entity),
		})
	case errors.As(err, &nf):
		jsonError(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &de):
		jsonErrorDetails(w, http.StatusConflict, de.Error(), map[string]string{"constraint": de.Constraint})
	case errors.As(err, &ce):
		jsonErrorDetails(w, http.StatusUnprocessableEntity, ce.Error(), map[string]interface{}{
			"date":  ce.Date,
			"limit": ce.Limit,
		})
	case errors.As(err, &dbe):
		b.logger.Error("database error", zap.String("op", dbe.Op), zap.String("path", r.URL.Path), zap.Error(dbe.Err))
		jsonErrorDetails(w, http.StatusInternalServerError, "Erro no banco de dados", map[string]string{"cause": dbe.Err.Error()})
	default:
		b.logger.Error("unexpected error", zap.String("path", r.URL.Path), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "Erro interno")
	}
}

// pathParam returns a chi URL parameter with percent-encoding removed, so
// dates may arrive as 10%2F03%2F2025.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// fieldUpdate is the body of the generic PATCH endpoints.
type fieldUpdate struct {
	Field string      `json:"field" validate:"required"`
	Value interface{} `json:"value"`
}
