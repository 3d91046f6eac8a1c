package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"restaurant-api/internal/data/entity"
	"restaurant-api/internal/data/repository"
	"restaurant-api/internal/dto/request"
	"restaurant-api/internal/dto/response"
	"restaurant-api/pkg/storage"
	"restaurant-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TableService interface {
	// Staff
	ListTables(ctx context.Context, req *request.TableListRequest) (*response.PaginatedResponse[response.TableResponse], error)
	GetTable(ctx context.Context, id string) (*response.TableResponse, error)
	CreateTable(ctx context.Context, req *request.CreateTableRequest) (*response.TableResponse, error)
	UpdateTable(ctx context.Context, id string, req *request.UpdateTableRequest) (*response.TableResponse, error)
	DeleteTable(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, src io.Reader) (*response.TableResponse, error)

	// Availability
	IsAvailable(ctx context.Context, tableID uuid.UUID, window entity.TimeRange, guests int) (bool, error)
	AvailableTables(ctx context.Context, req *request.AvailabilityRequest) (*response.AvailableTablesResponse, error)
}

type tableService struct {
	repo  *repository.Repository
	store storage.ImageStore
	clock utils.Clock
	log   *zap.Logger
}

func NewTableService(repo *repository.Repository, store storage.ImageStore, clock utils.Clock, log *zap.Logger) TableService {
	return &tableService{
		repo:  repo,
		store: store,
		clock: clock,
		log:   log.With(zap.String("service", "table")),
	}
}

// ListTables returns tables together with their live reservations, i.e. the
// ones that are not cancelled and have not ended yet.
func (s *tableService) ListTables(ctx context.Context, req *request.TableListRequest) (*response.PaginatedResponse[response.TableResponse], error) {
	req.Normalize()
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := repository.TableFilter{Status: req.Status, Type: req.Type}
	tables, err := s.repo.Table.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	total, err := s.repo.Table.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count tables: %w", err)
	}

	ids := make([]uuid.UUID, len(tables))
	for i, table := range tables {
		ids[i] = table.ID
	}

	upcoming, err := s.repo.Reservation.FindUpcoming(ctx, ids, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("load table reservations: %w", err)
	}

	byTable := make(map[uuid.UUID][]response.ReservationResponse)
	for _, res := range upcoming {
		byTable[res.TableID] = append(byTable[res.TableID], response.ReservationToResponse(res))
	}

	data := make([]response.TableResponse, len(tables))
	for i, table := range tables {
		data[i] = response.TableToResponse(table)
		data[i].Reservations = byTable[table.ID]
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *tableService) GetTable(ctx context.Context, id string) (*response.TableResponse, error) {
	table, err := s.findTable(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.TableToResponse(table)
	return &resp, nil
}

func (s *tableService) CreateTable(ctx context.Context, req *request.CreateTableRequest) (*response.TableResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create table validation failed", zap.Error(err))
		return nil, err
	}

	now := s.clock.Now()
	table := &entity.Table{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		Name:         req.Name,
		Capacity:     req.Capacity,
		Type:         entity.TableType(req.Type),
		Status:       entity.TableStatusAvailable,
		Description:  req.Description,
		IsActive:     true,
	}
	if req.Status != nil {
		table.Status = entity.TableStatus(*req.Status)
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}

	if err := s.repo.Table.Create(ctx, table); err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}

	s.log.Info("Table created",
		zap.String("table_id", table.ID.String()),
		zap.String("name", table.Name),
		zap.Int("capacity", table.Capacity))

	resp := response.TableToResponse(table)
	return &resp, nil
}

func (s *tableService) UpdateTable(ctx context.Context, id string, req *request.UpdateTableRequest) (*response.TableResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	table, err := s.findTable(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		table.Name = *req.Name
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Type != nil {
		table.Type = entity.TableType(*req.Type)
	}
	if req.Status != nil {
		table.Status = entity.TableStatus(*req.Status)
	}
	if req.Description != nil {
		table.Description = req.Description
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}
	table.UpdatedAt = s.clock.Now()

	if err := s.repo.Table.Update(ctx, table); err != nil {
		return nil, fmt.Errorf("update table: %w", err)
	}

	s.log.Info("Table updated",
		zap.String("table_id", table.ID.String()),
		zap.String("status", string(table.Status)))

	resp := response.TableToResponse(table)
	return &resp, nil
}

// DeleteTable refuses while the table still has pending or confirmed bookings.
func (s *tableService) DeleteTable(ctx context.Context, id string) error {
	table, err := s.findTable(ctx, id)
	if err != nil {
		return err
	}

	active, err := s.repo.Reservation.CountActiveByTable(ctx, table.ID)
	if err != nil {
		return fmt.Errorf("count table reservations: %w", err)
	}
	if active > 0 {
		return conflict("table has %d active reservations", active)
	}

	if err := s.repo.Table.Delete(ctx, table.ID); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return conflict("table is still referenced")
		}
		return fmt.Errorf("delete table: %w", err)
	}

	if table.ImageURL != nil {
		if err := s.store.Delete(ctx, *table.ImageURL); err != nil {
			s.log.Warn("Failed to delete table image", zap.Error(err), zap.String("url", *table.ImageURL))
		}
	}

	s.log.Info("Table deleted", zap.String("table_id", table.ID.String()))
	return nil
}

func (s *tableService) UploadImage(ctx context.Context, id string, src io.Reader) (*response.TableResponse, error) {
	table, err := s.findTable(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.store.SaveImage(ctx, "tables", src)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			return nil, invalidField("image", "Must be a valid image")
		}
		s.log.Error("Failed to store table image", zap.Error(err), zap.String("table_id", id))
		return nil, fmt.Errorf("store image: %w", err)
	}

	previous := table.ImageURL
	table.ImageURL = &url
	table.UpdatedAt = s.clock.Now()
	if err := s.repo.Table.Update(ctx, table); err != nil {
		return nil, fmt.Errorf("update table image: %w", err)
	}

	if previous != nil {
		if err := s.store.Delete(ctx, *previous); err != nil {
			s.log.Warn("Failed to delete previous table image", zap.Error(err), zap.String("url", *previous))
		}
	}

	resp := response.TableToResponse(table)
	return &resp, nil
}

func (s *tableService) IsAvailable(ctx context.Context, tableID uuid.UUID, window entity.TimeRange, guests int) (bool, error) {
	table, err := s.repo.Table.FindByID(ctx, tableID)
	if err != nil {
		return false, fmt.Errorf("find table: %w", err)
	}
	if table == nil {
		return false, notFound("table %s not found", tableID)
	}

	existing, err := s.repo.Reservation.FindConflicting(ctx, []uuid.UUID{table.ID}, window)
	if err != nil {
		return false, fmt.Errorf("find conflicting reservations: %w", err)
	}

	return entity.IsAvailable(table, window, guests, existing), nil
}

func (s *tableService) AvailableTables(ctx context.Context, req *request.AvailabilityRequest) (*response.AvailableTablesResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if !req.Start.After(s.clock.Now()) {
		return nil, invalidField("start", "Must be in the future")
	}

	end := req.Start
	if req.End != nil {
		end = *req.End
	}
	window, err := entity.NewTimeRange(req.Start, end)
	if err != nil {
		return nil, invalidField("end", "Must not be before start")
	}

	candidates, err := s.repo.Table.FindBookable(ctx, req.Guests)
	if err != nil {
		return nil, fmt.Errorf("find bookable tables: %w", err)
	}

	ids := make([]uuid.UUID, len(candidates))
	for i, table := range candidates {
		ids[i] = table.ID
	}

	existing, err := s.repo.Reservation.FindConflicting(ctx, ids, window)
	if err != nil {
		return nil, fmt.Errorf("find conflicting reservations: %w", err)
	}

	available := entity.AvailableTables(candidates, window, req.Guests, existing)

	resp := &response.AvailableTablesResponse{
		Start:  window.Start,
		End:    window.End,
		Guests: req.Guests,
		Tables: make([]response.TableResponse, len(available)),
	}
	for i, table := range available {
		resp.Tables[i] = response.TableToResponse(table)
	}

	s.log.Debug("Availability checked",
		zap.Stringer("window", window),
		zap.Int("guests", req.Guests),
		zap.Int("candidates", len(candidates)),
		zap.Int("available", len(available)))

	return resp, nil
}

func (s *tableService) findTable(ctx context.Context, id string) (*entity.Table, error) {
	tableID, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}

	table, err := s.repo.Table.FindByID(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("find table: %w", err)
	}
	if table == nil {
		return nil, notFound("table %s not found", id)
	}
	return table, nil
}
