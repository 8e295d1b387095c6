package models

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventStatusPending   EventStatus = "PENDING"
	EventStatusActive    EventStatus = "ACTIVE"
	EventStatusExpired   EventStatus = "EXPIRED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

// Event represents a community-funded world event. Modifiers and contributions
// are owned exclusively by the event and are removed with it.
type Event struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string          `gorm:"size:255;not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	CreatedByID     uint            `gorm:"not null;index" json:"created_by_id"`
	CreatedBy       User            `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Status          EventStatus     `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	TotalCost       int             `gorm:"not null" json:"total_cost"`
	AmountCollected int             `gorm:"not null;default:0" json:"amount_collected"`
	DurationDays    int             `gorm:"not null;default:7" json:"duration_days"`
	ZoneName        *string         `gorm:"size:255" json:"zone_name,omitempty"`
	Modifiers       []EventModifier `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"modifiers,omitempty"`
	Contributions   []Contribution  `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"contributions,omitempty"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	ActivatedAt     *time.Time      `json:"activated_at,omitempty"`
	ExpirationDate  *time.Time      `json:"expiration_date,omitempty"`
	ExpiredAt       *time.Time      `json:"expired_at,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

// FullyFunded reports whether collected contributions cover the total cost.
func (e *Event) FullyFunded() bool {
	return e.AmountCollected >= e.TotalCost
}

// RemainingAmount returns how much currency is still needed, never negative.
func (e *Event) RemainingAmount() int {
	if r := e.TotalCost - e.AmountCollected; r > 0 {
		return r
	}
	return 0
}

// FundingPercentage returns funding progress in [0, 100].
func (e *Event) FundingPercentage() float64 {
	if e.TotalCost == 0 {
		return 100.0
	}
	pct := float64(e.AmountCollected) * 100.0 / float64(e.TotalCost)
	if pct > 100.0 {
		return 100.0
	}
	return pct
}

// HasZoneModifiers reports whether any modifier targets a geofenced zone.
func (e *Event) HasZoneModifiers() bool {
	for _, m := range e.Modifiers {
		if m.Target == TargetZone {
			return true
		}
	}
	return false
}

// Reference returns the ledger reference tag for this event's transactions.
func (e *Event) Reference() string {
	return "event_" + e.ID.String()
}
