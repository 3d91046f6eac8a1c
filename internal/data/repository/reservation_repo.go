package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-api/internal/data/entity"
	"restaurant-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// expirySweepLockKey identifies the reservation sweep in pg_try_advisory_xact_lock.
const expirySweepLockKey int64 = 0x52455356 // "RESV"

type ReservationFilter struct {
	UserID *uuid.UUID
	Status *string
	Date   *time.Time
}

type ReservationRepository interface {
	// Create inserts a pending reservation while holding the table row lock and
	// re-checking the overlap rule. Returns ErrReservationOverlap on conflict.
	Create(ctx context.Context, reservation *entity.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindAll(ctx context.Context, filter ReservationFilter, newestFirst bool, limit, offset int) ([]*entity.Reservation, error)
	CountAll(ctx context.Context, filter ReservationFilter) (int64, error)

	// FindConflicting returns live reservations on the given tables that
	// overlap window, including legacy rows whose instant equals window.Start.
	FindConflicting(ctx context.Context, tableIDs []uuid.UUID, window entity.TimeRange) ([]*entity.Reservation, error)
	// FindUpcoming returns non-cancelled reservations on the tables that have not ended at now.
	FindUpcoming(ctx context.Context, tableIDs []uuid.UUID, now time.Time) ([]*entity.Reservation, error)
	CountActiveByTable(ctx context.Context, tableID uuid.UUID) (int64, error)

	// UpdateStatus writes status and notes only if the row is still in from.
	UpdateStatus(ctx context.Context, reservation *entity.Reservation, from entity.ReservationStatus) error
	// DeleteExpired hard-deletes ranged reservations whose end is at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `id, user_id, table_id, reservation_date, start_at, end_at, guests, status,
	special_requests, contact_phone, contact_email, notes, created_at, updated_at`

// conflictCondition expects the window start and end as $2 and $3.
const conflictCondition = `status <> 'cancelled' AND (
		(start_at IS NOT NULL AND end_at IS NOT NULL AND start_at < $3 AND $2 < end_at)
		OR (start_at IS NULL AND end_at IS NULL AND reservation_date = $2)
	)`

func scanReservation(row rowScanner) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.TableID,
		&res.ReservationDate,
		&res.StartAt,
		&res.EndAt,
		&res.Guests,
		&res.Status,
		&res.SpecialRequests,
		&res.ContactPhone,
		&res.ContactEmail,
		&res.Notes,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func collectReservations(rows pgx.Rows) ([]*entity.Reservation, error) {
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	window, ok := reservation.Window()
	if !ok {
		window = entity.InstantRange(reservation.ReservationDate)
	}

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var tableID uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM tables WHERE id = $1 FOR UPDATE`, reservation.TableID).Scan(&tableID)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("table %s not found", reservation.TableID)
		}
		if err != nil {
			return fmt.Errorf("lock table %s: %w", reservation.TableID, err)
		}

		var conflict bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM reservations WHERE table_id = $1 AND `+conflictCondition+`)`,
			reservation.TableID, window.Start, window.End,
		).Scan(&conflict)
		if err != nil {
			return fmt.Errorf("check overlap: %w", err)
		}
		if conflict {
			return ErrReservationOverlap
		}

		query := `
			INSERT INTO reservations (id, user_id, table_id, reservation_date, start_at, end_at, guests,
			                          status, special_requests, contact_phone, contact_email, notes,
			                          created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		_, err = tx.Exec(ctx, query,
			reservation.ID,
			reservation.UserID,
			reservation.TableID,
			reservation.ReservationDate,
			reservation.StartAt,
			reservation.EndAt,
			reservation.Guests,
			reservation.Status,
			reservation.SpecialRequests,
			reservation.ContactPhone,
			reservation.ContactEmail,
			reservation.Notes,
			reservation.CreatedAt,
			reservation.UpdatedAt,
		)
		if err != nil {
			return translate(err, "insert reservation")
		}
		return nil
	})

	if err != nil && !errors.Is(err, ErrReservationOverlap) {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("table_id", reservation.TableID.String()),
			zap.String("user_id", reservation.UserID.String()),
		)
	}
	return err
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation", zap.Error(err), zap.String("reservation_id", id.String()))
		return nil, fmt.Errorf("find reservation %s: %w", id, err)
	}

	return res, nil
}

func (r *reservationRepository) buildFilter(filter ReservationFilter) *queryFilter {
	f := &queryFilter{}
	if filter.UserID != nil {
		f.add("user_id = $%d", *filter.UserID)
	}
	if filter.Status != nil && *filter.Status != "" {
		f.add("status = $%d", *filter.Status)
	}
	if filter.Date != nil {
		f.add("COALESCE(start_at, reservation_date)::date = $%d::date", *filter.Date)
	}
	return f
}

func (r *reservationRepository) FindAll(ctx context.Context, filter ReservationFilter, newestFirst bool, limit, offset int) ([]*entity.Reservation, error) {
	f := r.buildFilter(filter)
	pageClause, args := f.page(limit, offset)

	order := " ORDER BY COALESCE(start_at, reservation_date) ASC"
	if newestFirst {
		order = " ORDER BY COALESCE(start_at, reservation_date) DESC"
	}
	query := `SELECT ` + reservationColumns + ` FROM reservations` + f.where() + order + pageClause

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list reservations", zap.Error(err))
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	return collectReservations(rows)
}

func (r *reservationRepository) CountAll(ctx context.Context, filter ReservationFilter) (int64, error) {
	f := r.buildFilter(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reservations`+f.where(), f.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count reservations", zap.Error(err))
		return 0, fmt.Errorf("count reservations: %w", err)
	}

	return count, nil
}

func (r *reservationRepository) FindConflicting(ctx context.Context, tableIDs []uuid.UUID, window entity.TimeRange) ([]*entity.Reservation, error) {
	if len(tableIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE table_id = ANY($1) AND ` + conflictCondition

	rows, err := r.db.Query(ctx, query, tableIDs, window.Start, window.End)
	if err != nil {
		r.log.Error("Failed to find conflicting reservations", zap.Error(err), zap.Stringer("window", window))
		return nil, fmt.Errorf("find conflicting reservations: %w", err)
	}

	return collectReservations(rows)
}

func (r *reservationRepository) FindUpcoming(ctx context.Context, tableIDs []uuid.UUID, now time.Time) ([]*entity.Reservation, error) {
	if len(tableIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE table_id = ANY($1)
		  AND status <> 'cancelled'
		  AND (end_at > $2 OR (end_at IS NULL AND reservation_date >= $2))
		ORDER BY COALESCE(start_at, reservation_date)`

	rows, err := r.db.Query(ctx, query, tableIDs, now)
	if err != nil {
		r.log.Error("Failed to find upcoming reservations", zap.Error(err))
		return nil, fmt.Errorf("find upcoming reservations: %w", err)
	}

	return collectReservations(rows)
}

func (r *reservationRepository) CountActiveByTable(ctx context.Context, tableID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM reservations WHERE table_id = $1 AND status IN ('pending', 'confirmed')`,
		tableID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active reservations of table %s: %w", tableID, err)
	}
	return count, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, reservation *entity.Reservation, from entity.ReservationStatus) error {
	result, err := r.db.Exec(ctx,
		`UPDATE reservations SET status = $3, notes = $4, updated_at = $5 WHERE id = $1 AND status = $2`,
		reservation.ID, from, reservation.Status, reservation.Notes, reservation.UpdatedAt,
	)
	if err != nil {
		if !database.IsPgError(err, database.CodeExclusionViolation) {
			r.log.Error("Failed to update reservation status",
				zap.Error(err),
				zap.String("reservation_id", reservation.ID.String()),
			)
		}
		return translate(err, "update reservation %s", reservation.ID)
	}
	if result.RowsAffected() == 0 {
		return ErrStaleState
	}

	return nil
}

func (r *reservationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var deleted int64

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var acquired bool
		if err := tx.QueryRow(ctx, `SELECT pg_try_advisory_xact_lock($1)`, expirySweepLockKey).Scan(&acquired); err != nil {
			return fmt.Errorf("acquire sweep lock: %w", err)
		}
		if !acquired {
			return ErrLockNotAcquired
		}

		result, err := tx.Exec(ctx, `DELETE FROM reservations WHERE end_at IS NOT NULL AND end_at <= $1`, now)
		if err != nil {
			return fmt.Errorf("delete expired reservations: %w", err)
		}
		deleted = result.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
