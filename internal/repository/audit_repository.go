package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/inteduweb-admin/internal/models"
)

const auditSchema = `CREATE TABLE IF NOT EXISTS admin_audit_logs (
	id UUID PRIMARY KEY,
	session_id TEXT NOT NULL,
	request_id TEXT,
	action TEXT NOT NULL,
	resource TEXT NOT NULL,
	resource_id BIGINT,
	outcome TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL
)`

// AuditRepository persists the admin mutation journal.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs an audit repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// EnsureSchema creates the journal table when missing.
func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, auditSchema); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

// Create inserts one audit entry.
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	const query = `INSERT INTO admin_audit_logs (id, session_id, request_id, action, resource, resource_id, outcome, error_message, created_at) VALUES (:id, :session_id, :request_id, :action, :resource, :resource_id, :outcome, :error_message, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries, optionally limited to one resource.
func (r *AuditRepository) ListRecent(ctx context.Context, resource string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query := `SELECT id, session_id, request_id, action, resource, resource_id, outcome, error_message, created_at FROM admin_audit_logs`
	args := []interface{}{}
	if resource != "" {
		query += ` WHERE resource = $1`
		args = append(args, resource)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}
