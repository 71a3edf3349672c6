package handlers

import (
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/query"
	"github.com/BruksfildServices01/tour-booking/internal/resource"
)

// AuditLogsHandler exposes the audit trail read-only.
type AuditLogsHandler struct {
	*resource.Resource[models.AuditLog, *models.AuditLog]
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{
		Resource: resource.New[models.AuditLog](db, resource.Config[models.AuditLog]{
			Name:   "audit log",
			Schema: query.MustSchema(&models.AuditLog{}),
		}),
	}
}
