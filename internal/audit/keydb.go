package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"go-catalog-cache/internal/config"
	"go-catalog-cache/internal/interfaces"
	"go-catalog-cache/internal/metrics"
	"go-catalog-cache/internal/models"
)

// Ensure KeyDBAuditLogger implements interfaces.AuditLogger and interfaces.AuditReader
var (
	_ interfaces.AuditLogger = (*KeyDBAuditLogger)(nil)
	_ interfaces.AuditReader = (*KeyDBAuditLogger)(nil)
)

// KeyDBAuditLogger appends audit records as JSON to a capped KeyDB list
type KeyDBAuditLogger struct {
	client interfaces.KeyDbClient
	config config.KeyDBConfig
	logger *zap.Logger
}

// NewKeyDBAuditLogger creates a new KeyDBAuditLogger instance with provided client
func NewKeyDBAuditLogger(cfg config.KeyDBConfig, client interfaces.KeyDbClient, logger *zap.Logger) *KeyDBAuditLogger {
	return &KeyDBAuditLogger{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// Log pushes record to the list and trims it to the newest MaxRecords entries
func (k *KeyDBAuditLogger) Log(ctx context.Context, record models.AuditRecord) error {
	ctx, cancel := context.WithTimeout(ctx, k.config.GetSendTimeout())
	defer cancel()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	if err := k.client.RPush(ctx, k.config.ListKey, data).Err(); err != nil {
		metrics.RecordAuditError("keydb")
		return fmt.Errorf("failed to push audit record: %w", err)
	}

	if k.config.MaxRecords > 0 {
		if err := k.client.LTrim(ctx, k.config.ListKey, -k.config.MaxRecords, -1).Err(); err != nil {
			// The record is stored; an untrimmed list is only a size concern
			k.logger.Warn("Failed to trim audit list", zap.String("key", k.config.ListKey), zap.Error(err))
		}
	}

	return nil
}

// Records returns the stored audit records matching filter, oldest first.
// Malformed entries are skipped.
func (k *KeyDBAuditLogger) Records(ctx context.Context, filter models.AuditFilter) ([]models.AuditRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, k.config.GetReadTimeout())
	defer cancel()

	raw, err := k.client.LRange(ctx, k.config.ListKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read audit records: %w", err)
	}

	records := make([]models.AuditRecord, 0, len(raw))
	for _, item := range raw {
		var record models.AuditRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			k.logger.Warn("Skipping malformed audit record", zap.String("key", k.config.ListKey), zap.Error(err))
			continue
		}
		if filter.Matches(record) {
			records = append(records, record)
		}
	}
	return records, nil
}

// Count returns the number of stored records
func (k *KeyDBAuditLogger) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, k.config.GetReadTimeout())
	defer cancel()

	count, err := k.client.LLen(ctx, k.config.ListKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count audit records: %w", err)
	}
	return count, nil
}

// Close closes the underlying client
func (k *KeyDBAuditLogger) Close() error {
	return k.client.Close()
}
