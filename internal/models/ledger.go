package models

import (
	"time"

	"github.com/google/uuid"
)

type LedgerEntryKind string

const (
	LedgerKindContribution LedgerEntryKind = "EVENT_CONTRIBUTION"
	LedgerKindRefund       LedgerEntryKind = "CASHBACK"
)

// LedgerEntry records a single currency movement against one character.
// An entry can be reversed at most once; Reversed guards the refund path.
type LedgerEntry struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	CharacterID   uint            `gorm:"not null;index" json:"character_id"`
	Kind          LedgerEntryKind `gorm:"size:50;not null;index" json:"kind"`
	Reference     string          `gorm:"size:100;not null;index" json:"reference"`
	Description   string          `gorm:"size:255" json:"description"`
	Amount        int             `gorm:"not null" json:"amount"`
	BalanceAfter  int             `gorm:"not null" json:"balance_after"`
	CharacterName string          `gorm:"size:255;not null" json:"character_name"`
	Username      string          `gorm:"size:255;not null" json:"username"`
	Reversed      bool            `gorm:"not null;default:false;index" json:"reversed"`
	ReversedAt    *time.Time      `json:"reversed_at,omitempty"`
	ReversedBy    *string         `gorm:"size:255" json:"reversed_by,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
