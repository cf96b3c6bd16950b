package model

import (
	"strings"
	"time"
)

type TicketStatus string

const (
	StatusPending    TicketStatus = "Pendente"
	StatusInProgress TicketStatus = "Em andamento"
	StatusDone       TicketStatus = "Concluída"
)

// FilterAll / FilterAllFem are the sentinel filter values the UI sends for
// "no filter" ("Todos" for status, "Todas" for priority).
const (
	FilterAll    = "Todos"
	FilterAllFem = "Todas"
)

func ValidStatus(s TicketStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "Alta"
	PriorityUrgent Priority = "Urgente"
)

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Ticket is a single support request. Code is the public 8-char identifier
// shown to requesters; ID is the surrogate key.
type Ticket struct {
	ID             uint64       `gorm:"primaryKey" json:"id"`
	Code           string       `gorm:"type:varchar(8);uniqueIndex;not null" json:"ticket_id"`
	RequesterName  string       `gorm:"type:varchar(100);not null" json:"nome"`
	RequesterEmail string       `gorm:"type:varchar(120);not null" json:"email"`
	SquadLeader    string       `gorm:"type:varchar(100);not null" json:"squad_leader"`
	Devices        string       `gorm:"type:text;not null" json:"dispositivos"`
	Description    string       `gorm:"type:text;not null" json:"necessidade"`
	Priority       Priority     `gorm:"type:varchar(20);index;not null" json:"prioridade"`
	Status         TicketStatus `gorm:"type:varchar(20);index;not null" json:"status"`

	CreatedAt time.Time `json:"data_criacao"`
	UpdatedAt time.Time `json:"data_atualizacao"`

	Notes []TicketNote `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"observacoes"`
}

// DeviceList splits the comma-delimited Devices field into trimmed entries.
func (t *Ticket) DeviceList() []string {
	var out []string
	for _, d := range strings.Split(t.Devices, ",") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// TicketNote is one triage observation, appended when an admin updates the
// status with a comment. Append-only.
type TicketNote struct {
	ID        uint64       `gorm:"primaryKey" json:"id"`
	TicketID  uint64       `gorm:"index;not null" json:"-"`
	Text      string       `gorm:"type:text;not null" json:"texto"`
	Status    TicketStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt time.Time    `json:"data"`
}

func (TicketNote) TableName() string { return "ticket_observacoes" }

type User struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string `gorm:"uniqueIndex;not null;size:50" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	// Email is optional. A pointer keeps absent emails NULL so the unique
	// index does not collide on users created without one.
	Email     *string   `gorm:"uniqueIndex;size:120" json:"email,omitempty"`
	Role      string    `gorm:"size:20;default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const RoleAdmin = "admin"
