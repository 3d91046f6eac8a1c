package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-api/internal/data/entity"
	"restaurant-api/internal/data/repository"
	"restaurant-api/internal/dto/request"
	"restaurant-api/internal/dto/response"
	"restaurant-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationService interface {
	// Customer
	CreateReservation(ctx context.Context, userID uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	GetMyReservations(ctx context.Context, userID uuid.UUID, req *request.ReservationListRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
	CancelReservation(ctx context.Context, userID uuid.UUID, id string) (*response.ReservationResponse, error)

	// Staff
	GetReservations(ctx context.Context, req *request.ReservationListRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
	UpdateReservationStatus(ctx context.Context, id string, req *request.UpdateReservationStatusRequest) (*response.ReservationResponse, error)
}

type reservationService struct {
	repo          *repository.Repository
	clock         utils.Clock
	staffOverride bool
	log           *zap.Logger
}

func NewReservationService(repo *repository.Repository, clock utils.Clock, config *utils.Config, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:          repo,
		clock:         clock,
		staffOverride: config.Reservation.StaffOverride,
		log:           log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, userID uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	// 1. Validate input
	if err := validate(req); err != nil {
		s.log.Warn("Create reservation validation failed", zap.Error(err))
		return nil, err
	}

	now := s.clock.Now()
	window, legacy, err := reservationWindow(req, now)
	if err != nil {
		return nil, err
	}

	// 2. Banned customers cannot book
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	}
	if user.IsBanned {
		s.log.Warn("Banned user tried to reserve", zap.String("user_id", userID.String()))
		return nil, forbidden("your account is banned from creating orders due to repeated delivery failures")
	}

	// 3. Table must exist and be free for the window
	tableID, err := parseID(req.TableID, "table_id")
	if err != nil {
		return nil, err
	}
	table, err := s.repo.Table.FindByID(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("find table: %w", err)
	}
	if table == nil {
		return nil, notFound("table %s not found", req.TableID)
	}

	existing, err := s.repo.Reservation.FindConflicting(ctx, []uuid.UUID{table.ID}, window)
	if err != nil {
		return nil, fmt.Errorf("find conflicting reservations: %w", err)
	}
	if reason := entity.Unavailability(table, window, req.Guests, existing); reason != "" {
		s.log.Info("Reservation rejected",
			zap.String("table_id", table.ID.String()),
			zap.Stringer("window", window),
			zap.String("reason", reason))
		return nil, conflict("%s", reason)
	}

	// 4. Build the pending reservation, contact details fall back to the profile
	reservation := &entity.Reservation{
		BaseNoDelete:    entity.NewBaseNoDelete(now),
		UserID:          user.ID,
		TableID:         table.ID,
		ReservationDate: window.Start,
		Guests:          req.Guests,
		Status:          entity.ReservationStatusPending,
		SpecialRequests: req.SpecialRequests,
		ContactPhone:    req.ContactPhone,
		ContactEmail:    req.ContactEmail,
	}
	if !legacy {
		start, end := window.Start, window.End
		reservation.StartAt = &start
		reservation.EndAt = &end
	}
	if reservation.ContactPhone == nil {
		reservation.ContactPhone = user.Phone
	}
	if reservation.ContactEmail == nil {
		email := user.Email
		reservation.ContactEmail = &email
	}

	// 5. Persist; the repository re-checks the overlap under the table lock
	if err := s.repo.Reservation.Create(ctx, reservation); err != nil {
		if errors.Is(err, repository.ErrReservationOverlap) {
			return nil, conflict("table is already reserved for the requested time")
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.log.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("table_id", table.ID.String()),
		zap.String("user_id", user.ID.String()),
		zap.Stringer("window", window),
		zap.Int("guests", reservation.Guests))

	resp := response.ReservationToResponse(reservation)
	resp.TableName = table.Name
	return &resp, nil
}

// reservationWindow resolves the requested range. A request without start_at
// is a legacy single instant booking on reservation_date.
func reservationWindow(req *request.CreateReservationRequest, now time.Time) (entity.TimeRange, bool, error) {
	if req.StartAt == nil {
		if req.EndAt != nil {
			return entity.TimeRange{}, false, invalidField("start_at", "This field is required when end_at is set")
		}
		if !req.ReservationDate.After(now) {
			return entity.TimeRange{}, false, invalidField("reservation_date", "Must be in the future")
		}
		return entity.InstantRange(*req.ReservationDate), true, nil
	}

	if !req.StartAt.After(now) {
		return entity.TimeRange{}, false, invalidField("start_at", "Must be in the future")
	}

	end := *req.StartAt
	if req.EndAt != nil {
		if !req.EndAt.After(*req.StartAt) {
			return entity.TimeRange{}, false, invalidField("end_at", "Must be after start_at")
		}
		end = *req.EndAt
	}

	window, err := entity.NewTimeRange(*req.StartAt, end)
	if err != nil {
		return entity.TimeRange{}, false, invalidField("end_at", err.Error())
	}
	return window, false, nil
}

func (s *reservationService) GetMyReservations(ctx context.Context, userID uuid.UUID, req *request.ReservationListRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	req.Normalize()
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := repository.ReservationFilter{UserID: &userID, Status: req.Status}
	return s.list(ctx, filter, true, &req.PaginatedRequest)
}

// CancelReservation is the customer self-service cancel. Reservations of other
// customers are reported as not found.
func (s *reservationService) CancelReservation(ctx context.Context, userID uuid.UUID, id string) (*response.ReservationResponse, error) {
	reservation, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != userID {
		return nil, notFound("reservation %s not found", id)
	}

	from := reservation.Status
	if err := reservation.CustomerCancel(s.clock.Now()); err != nil {
		return nil, transitionFailed(err)
	}

	if err := s.repo.Reservation.UpdateStatus(ctx, reservation, from); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, conflict("reservation was changed by someone else, please retry")
		}
		return nil, fmt.Errorf("cancel reservation: %w", err)
	}

	s.log.Info("Reservation cancelled by customer",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("from", string(from)))

	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

func (s *reservationService) GetReservations(ctx context.Context, req *request.ReservationListRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	req.Normalize()
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := repository.ReservationFilter{Status: req.Status, Date: req.Date}
	return s.list(ctx, filter, false, &req.PaginatedRequest)
}

// UpdateReservationStatus is the staff status write. It follows the
// reservation lifecycle unless the staff override is switched on.
func (s *reservationService) UpdateReservationStatus(ctx context.Context, id string, req *request.UpdateReservationStatusRequest) (*response.ReservationResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	reservation, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	from := reservation.Status
	next := entity.ReservationStatus(req.Status)
	now := s.clock.Now()

	if s.staffOverride {
		err = reservation.OverrideStatus(next, now)
	} else {
		err = reservation.TransitionTo(next, now)
	}
	if err != nil {
		return nil, transitionFailed(err)
	}
	if req.Notes != nil {
		reservation.Notes = req.Notes
	}

	if err := s.repo.Reservation.UpdateStatus(ctx, reservation, from); err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleState):
			return nil, conflict("reservation was changed by someone else, please retry")
		case errors.Is(err, repository.ErrReservationOverlap):
			return nil, conflict("table is already reserved for this reservation's time")
		}
		return nil, fmt.Errorf("update reservation status: %w", err)
	}

	s.log.Info("Reservation status updated",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
		zap.Bool("override", s.staffOverride))

	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func (s *reservationService) list(ctx context.Context, filter repository.ReservationFilter, newestFirst bool, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	reservations, err := s.repo.Reservation.FindAll(ctx, filter, newestFirst, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	total, err := s.repo.Reservation.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	data := make([]response.ReservationResponse, len(reservations))
	for i, res := range reservations {
		data[i] = response.ReservationToResponse(res)
	}

	return response.NewPaginatedResponse(data, page.Page, page.PerPage, total), nil
}

func (s *reservationService) findReservation(ctx context.Context, id string) (*entity.Reservation, error) {
	reservationID, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	if reservation == nil {
		return nil, notFound("reservation %s not found", id)
	}
	return reservation, nil
}
