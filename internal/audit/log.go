package audit

import (
	"context"

	"go.uber.org/zap"

	"go-catalog-cache/internal/interfaces"
	"go-catalog-cache/internal/models"
)

// Ensure LogAuditLogger implements interfaces.AuditLogger
var _ interfaces.AuditLogger = (*LogAuditLogger)(nil)

// LogAuditLogger writes audit records to the application log
type LogAuditLogger struct {
	logger *zap.Logger
}

// NewLogAuditLogger creates an audit logger backed by zap
func NewLogAuditLogger(logger *zap.Logger) interfaces.AuditLogger {
	return &LogAuditLogger{logger: logger.Named("audit")}
}

// Log never fails
func (l *LogAuditLogger) Log(_ context.Context, record models.AuditRecord) error {
	l.logger.Info("Audit",
		zap.String("id", record.ID.String()),
		zap.Time("timestamp", record.Timestamp),
		zap.String("username", record.Username),
		zap.String("action", string(record.Action)),
		zap.String("action_name", record.Action.DisplayName()),
		zap.String("details", record.Details))
	return nil
}
