package models

import (
	"time"

	"github.com/google/uuid"
)

type ModifierTarget string

const (
	TargetSandbox ModifierTarget = "SANDBOX"
	TargetZone    ModifierTarget = "ZONE"
)

type ValueKind string

const (
	ValueKindPercentage ValueKind = "PERCENTAGE"
	ValueKindAbsolute   ValueKind = "ABSOLUTE"
	ValueKindBoolean    ValueKind = "BOOLEAN"
	ValueKindText       ValueKind = "TEXT"
)

// EventModifier is a snapshot of a catalog selection made at event creation.
// Cost and delta are recomputed server-side from the catalog; client values
// are never trusted. Immutable after creation except for LinkedZoneID, which
// is set once when the event activates.
type EventModifier struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EventID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"event_id"`
	CatalogKey      string         `gorm:"size:100;not null" json:"catalog_key"`
	Target          ModifierTarget `gorm:"size:20;not null" json:"target"`
	PropertyKey     string         `gorm:"size:100;not null" json:"property_key"`
	DisplayName     string         `gorm:"size:255;not null" json:"display_name"`
	ValueKind       ValueKind      `gorm:"size:20;not null" json:"value_kind"`
	SelectedValue   string         `gorm:"size:255;not null" json:"selected_value"`
	CalculatedDelta string         `gorm:"size:255;not null" json:"calculated_delta"`
	Cost            int            `gorm:"not null" json:"cost"`
	ZoneX1          *int           `json:"zone_x1,omitempty"`
	ZoneX2          *int           `json:"zone_x2,omitempty"`
	ZoneY1          *int           `json:"zone_y1,omitempty"`
	ZoneY2          *int           `json:"zone_y2,omitempty"`
	ZoneZ           *int           `json:"zone_z,omitempty"`
	LinkedZoneID    *uuid.UUID     `gorm:"type:uuid;index" json:"linked_zone_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (EventModifier) TableName() string {
	return "event_modifiers"
}

// Contribution is an append-only record of currency pooled into an event.
type Contribution struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID       uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Amount        int       `gorm:"not null" json:"amount"`
	ContributedAt time.Time `json:"contributed_at"`
}

func (Contribution) TableName() string {
	return "event_contributions"
}
