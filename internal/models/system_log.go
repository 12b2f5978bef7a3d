package models

import (
	"time"

	"gorm.io/datatypes"
)

// SystemLog stores ERROR level records written through logging.PGHandler.
type SystemLog struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Level     string         `gorm:"size:10;not null;index" json:"level"`
	Message   string         `gorm:"type:text" json:"message"`
	OrgID     string         `gorm:"size:50;index" json:"orgId"`
	RequestID string         `gorm:"size:64;index" json:"requestId"`
	UserID    *string        `gorm:"size:36" json:"userId"`
	Action    string         `gorm:"size:100" json:"action"`
	Error     string         `gorm:"type:text" json:"error"`
	LatencyMs int            `json:"latencyMs"`
	Extra     datatypes.JSON `json:"extra"`
	CreatedAt time.Time      `json:"createdAt"`
}
