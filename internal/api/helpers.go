// moviedb-service/internal/api/helpers.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"moviedb-service/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// responder holds the helpers shared by all handlers.
type responder struct {
	logger    *slog.Logger
	validator *validator.Validate
}

func (h responder) respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to encode JSON response", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

func (h responder) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.respondJSON(w, r, status, map[string]string{"error": message})
}

// respondStoreError maps store errors onto HTTP statuses. Anything unknown
// is logged and reported as a generic server error.
func (h responder) respondStoreError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, store.ErrMovieNotFound):
		h.respondError(w, r, http.StatusNotFound, "Movie not found")
	case errors.Is(err, store.ErrActorNotFound):
		h.respondError(w, r, http.StatusNotFound, "Actor not found")
	case errors.Is(err, store.ErrAssociationNotFound):
		h.respondError(w, r, http.StatusNotFound, "Actor is not associated with this movie")
	case errors.Is(err, store.ErrDuplicateMovie):
		h.respondError(w, r, http.StatusConflict, "Movie already exists")
	case errors.Is(err, store.ErrDuplicateActor):
		h.respondError(w, r, http.StatusConflict, "Actor already exists")
	default:
		h.logger.ErrorContext(r.Context(), "Failed to "+action, slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusInternalServerError, "Failed to "+action)
	}
}

// decodeAndValidate reads a single JSON value from the body into dst and
// validates the struct pointed to by v. It writes the 400 response itself and
// reports whether the handler may continue.
func (h responder) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any, v any) bool {
	ctx := r.Context()
	if err := readJSON(w, r, dst); err != nil {
		h.logger.WarnContext(ctx, "Failed to decode request body", slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	if err := h.validator.StructCtx(ctx, v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			h.logger.ErrorContext(ctx, "Validator failed", slog.String("error", err.Error()))
			h.respondError(w, r, http.StatusInternalServerError, "Failed to validate request")
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = describe(fe)
		}
		h.logger.WarnContext(ctx, "Request validation failed", slog.Any("fields", fields))
		h.respondJSON(w, r, http.StatusBadRequest, map[string]any{
			"error":  "Validation failed",
			"fields": fields,
		})
		return false
	}
	return true
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be provided"
	case "min":
		return "must have at least " + fe.Param() + " element(s) or character(s)"
	case "max":
		return "must have at most " + fe.Param() + " character(s)"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	}
	return "failed on '" + fe.Tag() + "'"
}

// readJSON decodes exactly one JSON value and rejects unknown fields.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return fmt.Errorf("body contains unknown key %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

// readIDParam parses a positive integer path variable.
func readIDParam(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s parameter %q", name, raw)
	}
	return id, nil
}
