package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"restaurant-api/internal/dto/request"
	"restaurant-api/internal/usecase"
	"restaurant-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUploadSize bounds multipart image uploads.
const maxUploadSize = 10 << 20

type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Table       *TableHandler
	Reservation *ReservationHandler
	Menu        *MenuHandler
	Order       *OrderHandler
	Review      *ReviewHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(service.Auth, log),
		User:        NewUserHandler(service.User, log),
		Table:       NewTableHandler(service.Table, log),
		Reservation: NewReservationHandler(service.Reservation, log),
		Menu:        NewMenuHandler(service.Menu, log),
		Order:       NewOrderHandler(service.Order, log),
		Review:      NewReviewHandler(service.Review, log),
	}
}

// handleServiceError maps the usecase error categories onto HTTP statuses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Any("fields", validationErr.Fields))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, reason(err, usecase.ErrValidation), nil)

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, reason(err, usecase.ErrUnauthorized))

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, reason(err, usecase.ErrForbidden))

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, reason(err, usecase.ErrNotFound))

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, reason(err, usecase.ErrConflict))

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// reason strips the category prefix so clients only see the explanation.
func reason(err, category error) string {
	msg := strings.TrimPrefix(err.Error(), category.Error()+": ")
	if msg == "" {
		return category.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// decodeOptionalJSON accepts an empty body.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// currentUser returns the authenticated user id or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

func pageFromQuery(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 15),
	}
}

func optionalQuery(r *http.Request, key string) *string {
	if value := strings.TrimSpace(r.URL.Query().Get(key)); value != "" {
		return &value
	}
	return nil
}

func optionalBoolQuery(r *http.Request, key string) *bool {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}
	b := utils.ParseBool(value)
	return &b
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, value)
}

// optionalTimeQuery writes a 400 naming key when the value does not parse.
func optionalTimeQuery(w http.ResponseWriter, r *http.Request, key string) (*time.Time, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, true
	}
	t, err := parseTime(value)
	if err != nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{
			key: "Must be a date (YYYY-MM-DD) or RFC 3339 timestamp",
		})
		return nil, false
	}
	return &t, true
}

// imageUpload reads the "image" part of a multipart form.
func imageUpload(w http.ResponseWriter, r *http.Request) (io.ReadCloser, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return nil, false
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"image": "This field is required"})
		return nil, false
	}
	return file, true
}
