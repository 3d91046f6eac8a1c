package wire

import (
	"restaurant-api/internal/adaptor"
	"restaurant-api/internal/data/repository"
	"restaurant-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTable(
	r chi.Router,
	tableHandler *adaptor.TableHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== CUSTOMER ROUTES ====================
	r.With(authenticated(repo, log), customerOnly(log)).
		Get("/api/customer/tables/available", tableHandler.AvailableTables) // ?start=&end=&guests=

	// ==================== MANAGER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log), staffOnly(log))

		r.Get("/api/manager/tables", tableHandler.ListTables)
		r.Post("/api/manager/tables", tableHandler.CreateTable)
		r.Get("/api/manager/tables/{id}", tableHandler.GetTable)
		r.Put("/api/manager/tables/{id}", tableHandler.UpdateTable)
		r.Delete("/api/manager/tables/{id}", tableHandler.DeleteTable)
		r.Post("/api/manager/tables/{id}/image", tableHandler.UploadImage)
	})
}
