package adaptor

import (
	"net/http"

	"restaurant-api/internal/dto/request"
	"restaurant-api/internal/usecase"
	"restaurant-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// CreateReservation handles POST /api/customer/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateReservationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reservation, err := h.service.CreateReservation(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create reservation")
		return
	}

	utils.ResponseCreated(w, "Reservation created successfully", reservation)
}

// GetMyReservations handles GET /api/customer/reservations
func (h *ReservationHandler) GetMyReservations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	req := &request.ReservationListRequest{
		PaginatedRequest: pageFromQuery(r),
		Status:           optionalQuery(r, "status"),
	}

	reservations, err := h.service.GetMyReservations(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "get my reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}

// CancelReservation handles POST /api/customer/reservations/{id}/cancel
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	reservation, err := h.service.CancelReservation(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "cancel reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation cancelled successfully", reservation)
}

// GetReservations handles GET /api/manager/reservations?status=&date=
func (h *ReservationHandler) GetReservations(w http.ResponseWriter, r *http.Request) {
	date, ok := optionalTimeQuery(w, r, "date")
	if !ok {
		return
	}

	req := &request.ReservationListRequest{
		PaginatedRequest: pageFromQuery(r),
		Status:           optionalQuery(r, "status"),
		Date:             date,
	}

	reservations, err := h.service.GetReservations(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}

// UpdateReservationStatus handles PUT /api/manager/reservations/{id}/status
func (h *ReservationHandler) UpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateReservationStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reservation, err := h.service.UpdateReservationStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update reservation status")
		return
	}

	utils.ResponseSuccess(w, "Reservation status updated successfully", reservation)
}
