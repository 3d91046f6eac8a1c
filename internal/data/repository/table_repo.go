package repository

import (
	"context"
	"errors"
	"fmt"

	"restaurant-api/internal/data/entity"
	"restaurant-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TableFilter struct {
	Status     *string
	Type       *string
	ActiveOnly bool
}

type TableRepository interface {
	Create(ctx context.Context, table *entity.Table) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Table, error)
	FindAll(ctx context.Context, filter TableFilter, limit, offset int) ([]*entity.Table, error)
	CountAll(ctx context.Context, filter TableFilter) (int64, error)
	Update(ctx context.Context, table *entity.Table) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindBookable returns active, available tables seating at least partySize.
	FindBookable(ctx context.Context, partySize int) ([]*entity.Table, error)
}

type tableRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTableRepository(db database.PgxIface, log *zap.Logger) TableRepository {
	return &tableRepository{
		db:  db,
		log: log.With(zap.String("repository", "table")),
	}
}

const tableColumns = `id, name, capacity, type, status, description, image_url, is_active, created_at, updated_at`

func scanTable(row rowScanner) (*entity.Table, error) {
	var table entity.Table
	err := row.Scan(
		&table.ID,
		&table.Name,
		&table.Capacity,
		&table.Type,
		&table.Status,
		&table.Description,
		&table.ImageURL,
		&table.IsActive,
		&table.CreatedAt,
		&table.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepository) collect(rows pgx.Rows) ([]*entity.Table, error) {
	defer rows.Close()

	var tables []*entity.Table
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (r *tableRepository) Create(ctx context.Context, table *entity.Table) error {
	query := `
		INSERT INTO tables (id, name, capacity, type, status, description, image_url, is_active,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		table.ID,
		table.Name,
		table.Capacity,
		table.Type,
		table.Status,
		table.Description,
		table.ImageURL,
		table.IsActive,
		table.CreatedAt,
		table.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create table", zap.Error(err), zap.String("name", table.Name))
		return translate(err, "create table %s", table.Name)
	}

	return nil
}

func (r *tableRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables WHERE id = $1`

	table, err := scanTable(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find table", zap.Error(err), zap.String("table_id", id.String()))
		return nil, fmt.Errorf("find table %s: %w", id, err)
	}

	return table, nil
}

func (r *tableRepository) buildFilter(filter TableFilter) *queryFilter {
	f := &queryFilter{}
	if filter.ActiveOnly {
		f.raw("is_active = TRUE")
	}
	if filter.Status != nil && *filter.Status != "" {
		f.add("status = $%d", *filter.Status)
	}
	if filter.Type != nil && *filter.Type != "" {
		f.add("type = $%d", *filter.Type)
	}
	return f
}

func (r *tableRepository) FindAll(ctx context.Context, filter TableFilter, limit, offset int) ([]*entity.Table, error) {
	f := r.buildFilter(filter)
	pageClause, args := f.page(limit, offset)
	query := `SELECT ` + tableColumns + ` FROM tables` + f.where() + ` ORDER BY name` + pageClause

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list tables", zap.Error(err))
		return nil, fmt.Errorf("list tables: %w", err)
	}

	return r.collect(rows)
}

func (r *tableRepository) CountAll(ctx context.Context, filter TableFilter) (int64, error) {
	f := r.buildFilter(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tables`+f.where(), f.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count tables", zap.Error(err))
		return 0, fmt.Errorf("count tables: %w", err)
	}

	return count, nil
}

func (r *tableRepository) Update(ctx context.Context, table *entity.Table) error {
	query := `
		UPDATE tables
		SET name = $2, capacity = $3, type = $4, status = $5, description = $6,
		    image_url = $7, is_active = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		table.ID,
		table.Name,
		table.Capacity,
		table.Type,
		table.Status,
		table.Description,
		table.ImageURL,
		table.IsActive,
		table.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update table", zap.Error(err), zap.String("table_id", table.ID.String()))
		return translate(err, "update table %s", table.ID)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("table %s not found", table.ID)
	}

	return nil
}

func (r *tableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete table", zap.Error(err), zap.String("table_id", id.String()))
		return fmt.Errorf("delete table %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("table %s not found", id)
	}

	return nil
}

func (r *tableRepository) FindBookable(ctx context.Context, partySize int) ([]*entity.Table, error) {
	query := `SELECT ` + tableColumns + `
		FROM tables
		WHERE is_active = TRUE AND status = $1 AND capacity >= $2
		ORDER BY capacity, name`

	rows, err := r.db.Query(ctx, query, entity.TableStatusAvailable, partySize)
	if err != nil {
		r.log.Error("Failed to find bookable tables", zap.Error(err), zap.Int("party_size", partySize))
		return nil, fmt.Errorf("find bookable tables: %w", err)
	}

	return r.collect(rows)
}
