package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-crm-api/internal/models"
)

// AuditRepository manages the append-only audit log table.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs an AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append inserts an audit entry. LogID and Timestamp are assigned here;
// callers only supply action, record id and details.
func (r *AuditRepository) Append(ctx context.Context, entry *models.AuditLogEntry) error {
	if entry.RecordID == "" {
		entry.RecordID = models.AuditRecordIDNone
	}
	entry.Timestamp = time.Now().UTC().Truncate(time.Second)
	const query = `INSERT INTO audit_logs (timestamp, action, record_id, details)
        VALUES ($1, $2, $3, $4) RETURNING log_id`
	if err := r.db.GetContext(ctx, &entry.LogID, query, entry.Timestamp, entry.Action, entry.RecordID, entry.Details); err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

// List returns audit entries, most recent first.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLogEntry, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT log_id, timestamp, action, record_id, details FROM audit_logs
        ORDER BY timestamp DESC, log_id DESC LIMIT %d OFFSET %d`, size, offset)

	entries := []models.AuditLogEntry{}
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM audit_logs`); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}
	return entries, total, nil
}

// ListAll streams the full table for backup exports, most recent first.
func (r *AuditRepository) ListAll(ctx context.Context) ([]models.AuditLogEntry, error) {
	entries := []models.AuditLogEntry{}
	if err := r.db.SelectContext(ctx, &entries, `SELECT log_id, timestamp, action, record_id, details FROM audit_logs ORDER BY timestamp DESC, log_id DESC`); err != nil {
		return nil, fmt.Errorf("list all audit logs: %w", err)
	}
	return entries, nil
}
