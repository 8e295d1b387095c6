package models

import (
	"time"

	"github.com/google/uuid"
)

// Zone is a rectangular geofenced area carrying its own property overrides.
// Zones created by events are disabled on expiration, never hard-deleted.
type Zone struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Code           string         `gorm:"size:100;not null;uniqueIndex" json:"code"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	X1             int            `gorm:"not null" json:"x1"`
	X2             int            `gorm:"not null" json:"x2"`
	Y1             int            `gorm:"not null" json:"y1"`
	Y2             int            `gorm:"not null" json:"y2"`
	Z              int            `gorm:"not null;default:0" json:"z"`
	Enabled        bool           `gorm:"not null;default:true;index" json:"enabled"`
	Permanent      bool           `gorm:"not null;default:false" json:"permanent"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Overrides      []ZoneOverride `gorm:"foreignKey:ZoneID;constraint:OnDelete:CASCADE" json:"overrides,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (Zone) TableName() string {
	return "zones"
}

// ZoneOverride is a single name→value property applied inside a zone.
type ZoneOverride struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ZoneID uuid.UUID `gorm:"type:uuid;not null;index" json:"zone_id"`
	Name   string    `gorm:"size:100;not null" json:"name"`
	Value  string    `gorm:"size:255;not null" json:"value"`
}

func (ZoneOverride) TableName() string {
	return "zone_overrides"
}
