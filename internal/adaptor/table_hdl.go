package adaptor

import (
	"net/http"

	"restaurant-api/internal/dto/request"
	"restaurant-api/internal/usecase"
	"restaurant-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TableHandler struct {
	service usecase.TableService
	log     *zap.Logger
}

func NewTableHandler(service usecase.TableService, log *zap.Logger) *TableHandler {
	return &TableHandler{
		service: service,
		log:     log.With(zap.String("handler", "table")),
	}
}

// ListTables handles GET /api/manager/tables
func (h *TableHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	req := &request.TableListRequest{
		PaginatedRequest: pageFromQuery(r),
		Status:           optionalQuery(r, "status"),
		Type:             optionalQuery(r, "type"),
	}

	tables, err := h.service.ListTables(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list tables")
		return
	}

	utils.ResponseSuccess(w, "success", tables)
}

// GetTable handles GET /api/manager/tables/{id}
func (h *TableHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.GetTable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get table")
		return
	}

	utils.ResponseSuccess(w, "success", table)
}

// CreateTable handles POST /api/manager/tables
func (h *TableHandler) CreateTable(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTableRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	table, err := h.service.CreateTable(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create table")
		return
	}

	utils.ResponseCreated(w, "Table created successfully", table)
}

// UpdateTable handles PUT /api/manager/tables/{id}
func (h *TableHandler) UpdateTable(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateTableRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	table, err := h.service.UpdateTable(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update table")
		return
	}

	utils.ResponseSuccess(w, "Table updated successfully", table)
}

// DeleteTable handles DELETE /api/manager/tables/{id}
func (h *TableHandler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTable(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete table")
		return
	}

	utils.ResponseSuccess(w, "Table deleted successfully", nil)
}

// UploadImage handles POST /api/manager/tables/{id}/image (multipart, field "image")
func (h *TableHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	file, ok := imageUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	table, err := h.service.UploadImage(r.Context(), chi.URLParam(r, "id"), file)
	if err != nil {
		handleServiceError(w, h.log, err, "upload table image")
		return
	}

	utils.ResponseSuccess(w, "Table image uploaded successfully", table)
}

// AvailableTables handles GET /api/customer/tables/available?start=&end=&guests=
func (h *TableHandler) AvailableTables(w http.ResponseWriter, r *http.Request) {
	start, ok := optionalTimeQuery(w, r, "start")
	if !ok {
		return
	}
	if start == nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"start": "This field is required"})
		return
	}

	end, ok := optionalTimeQuery(w, r, "end")
	if !ok {
		return
	}

	req := &request.AvailabilityRequest{
		Start:  *start,
		End:    end,
		Guests: utils.ParseInt(r.URL.Query().Get("guests"), 0),
	}

	tables, err := h.service.AvailableTables(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", tables)
}
