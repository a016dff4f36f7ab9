package models

import "time"

// AuditAction constants represent the mutations recorded in the audit log.
const (
	AuditActionAdd    = "ADD"
	AuditActionEdit   = "EDIT"
	AuditActionDelete = "DELETE"
)

// AuditRecordIDNone is the sentinel stored when no student record applies.
const AuditRecordIDNone = "N/A"

// AuditLogEntry is one append-only audit row. LogID and Timestamp are
// assigned by the store.
type AuditLogEntry struct {
	LogID     int64     `db:"log_id" json:"log_id"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	Action    string    `db:"action" json:"action"`
	RecordID  string    `db:"record_id" json:"record_id"`
	Details   string    `db:"details" json:"details"`
}

// AuditFilter bounds audit log listing.
type AuditFilter struct {
	Page     int
	PageSize int
}
