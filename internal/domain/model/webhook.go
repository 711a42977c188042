package model

import "time"

// WebhookConfig is a registered shared-secret credential for the
// internal event webhook, one per integration per tenant.
type WebhookConfig struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID  string    `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	Name      string    `gorm:"type:varchar(128)" json:"name"`
	Secret    string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"-"`
	Enabled   bool      `gorm:"not null" json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName implements the GORM tabler interface.
func (WebhookConfig) TableName() string { return "webhook_configs" }

// WebhookLog records every received internal webhook event, matched
// or not, exactly once per delivery.
type WebhookLog struct {
	ID         string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID   string         `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	Event      string         `gorm:"type:varchar(64);not null" json:"event"`
	Payload    map[string]any `gorm:"serializer:json" json:"payload"`
	Handled    bool           `gorm:"not null" json:"handled"`
	HandlerErr string         `gorm:"column:handler_error;type:text" json:"handler_error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// TableName implements the GORM tabler interface.
func (WebhookLog) TableName() string { return "webhook_logs" }

// EmailLog tracks an outbound notification email, keyed by the
// provider's message id so delivery webhooks can update it.
type EmailLog struct {
	ID                string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID          string     `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	ProviderMessageID string     `gorm:"type:varchar(128);not null;uniqueIndex" json:"provider_message_id"`
	Recipient         string     `gorm:"type:varchar(255)" json:"recipient"`
	Kind              string     `gorm:"type:varchar(64)" json:"kind"`
	Status            string     `gorm:"type:varchar(32);not null" json:"status"`
	StatusReason      string     `gorm:"type:text" json:"status_reason,omitempty"`
	LastEventAt       *time.Time `json:"last_event_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName implements the GORM tabler interface.
func (EmailLog) TableName() string { return "email_logs" }
