package interfaces

import (
	"context"

	"go-catalog-cache/internal/models"
)

//go:generate mockgen -package=mock -source=audit_logger.go -destination=mock/audit_logger.go

// AuditLogger records user actions
type AuditLogger interface {
	Log(ctx context.Context, record models.AuditRecord) error
}

// AuditReader queries stored audit records. Only sinks that keep records implement it.
type AuditReader interface {
	// Records returns matching records, oldest first
	Records(ctx context.Context, filter models.AuditFilter) ([]models.AuditRecord, error)
	// Count returns the number of stored records
	Count(ctx context.Context) (int64, error)
}
