package model

import "time"

// Audit action tags written by the core.
const (
	AuditActionAIScored = "ai_scored"
	// AuditActorSystem marks automated pipeline writes.
	AuditActorSystem = "system"
)

// AuditLogEntry is an append-only record of a scoring event. Created
// exactly once per successful scoring run; never mutated by the core.
type AuditLogEntry struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID  string         `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	Table     string         `gorm:"column:table_name;type:varchar(64);not null" json:"table_name"`
	RecordID  string         `gorm:"type:varchar(36);not null;index" json:"record_id"`
	Action    string         `gorm:"type:varchar(32);not null" json:"action"`
	Changes   map[string]any `gorm:"serializer:json" json:"changes"`
	Actor     string         `gorm:"type:varchar(64);not null" json:"actor"`
	CreatedAt time.Time      `json:"created_at"`
}

// TableName implements the GORM tabler interface.
func (AuditLogEntry) TableName() string { return "audit_logs" }
