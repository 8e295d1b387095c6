package models

import "time"

type ConfigType string

const (
	ConfigTypeSandbox     ConfigType = "SANDBOX"
	ConfigTypeSandboxVars ConfigType = "SANDBOX_VARS"
	ConfigTypeServer      ConfigType = "SERVER"
)

// WorldSetting mirrors one key of the game world's difficulty configuration.
// CurrentValue is what the world runs with today; AppliedValue is a pending
// override that the restart pipeline persists when OverwriteAtStartup is set.
type WorldSetting struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	SettingKey         string     `gorm:"size:100;not null;index:idx_setting_key_type,unique" json:"setting_key"`
	ConfigType         ConfigType `gorm:"size:20;not null;default:SANDBOX;index:idx_setting_key_type,unique" json:"config_type"`
	CurrentValue       string     `gorm:"size:255" json:"current_value"`
	AppliedValue       *string    `gorm:"size:255" json:"applied_value,omitempty"`
	OverwriteAtStartup bool       `gorm:"not null;default:false" json:"overwrite_at_startup"`
	Description        string     `gorm:"type:text" json:"description"`
	Category           string     `gorm:"size:100" json:"category"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (WorldSetting) TableName() string {
	return "world_settings"
}

// EffectiveValue returns the applied override when present, otherwise the
// world's current value.
func (s *WorldSetting) EffectiveValue() string {
	if s.AppliedValue != nil && *s.AppliedValue != "" {
		return *s.AppliedValue
	}
	return s.CurrentValue
}
