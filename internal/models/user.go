package models

import (
	"time"
)

// User represents a registered player account.
type User struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Username   string      `gorm:"uniqueIndex;not null" json:"username"`
	SteamID    *string     `gorm:"uniqueIndex" json:"steam_id,omitempty"`
	Role       string      `gorm:"size:50;default:USER" json:"role"`
	Characters []Character `gorm:"foreignKey:UserID" json:"characters,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// Character is one of a player's in-game characters. Each character holds
// its own currency balance; contributions draw across them in id order.
type Character struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	PlayerName     string    `gorm:"size:255;not null" json:"player_name"`
	CurrencyPoints int       `gorm:"not null;default:0" json:"currency_points"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Character) TableName() string {
	return "characters"
}
