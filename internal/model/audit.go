package model

import "time"

// AuditLog records one admin action for the activity trail. Append-only.
type AuditLog struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(150);not null" json:"usuario"`
	Action    string    `gorm:"type:varchar(150);not null" json:"acao"`
	Details   string    `gorm:"type:varchar(500)" json:"detalhes"`
	CreatedAt time.Time `json:"timestamp"`
}

func (AuditLog) TableName() string { return "logs" }
