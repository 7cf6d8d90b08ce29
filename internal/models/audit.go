package models

import "time"

// Audit actions recorded for mutating commands.
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// Audit outcomes.
const (
	AuditOutcomeOK     = "OK"
	AuditOutcomeFailed = "FAILED"
)

// AuditLog records one mutating command issued through the admin frontend.
type AuditLog struct {
	ID           string    `db:"id" json:"id"`
	SessionID    string    `db:"session_id" json:"session_id"`
	RequestID    *string   `db:"request_id" json:"request_id,omitempty"`
	Action       string    `db:"action" json:"action"`
	Resource     string    `db:"resource" json:"resource"`
	ResourceID   *int64    `db:"resource_id" json:"resource_id,omitempty"`
	Outcome      string    `db:"outcome" json:"outcome"`
	ErrorMessage *string   `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
