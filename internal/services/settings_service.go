package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"world-events/internal/catalog"
	"world-events/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrSettingNotFound = errors.New("world setting not found")

// SettingsService is the engine's view of the world's difficulty
// configuration. It reads effective values and issues override writes;
// whether the running game picks a write up immediately or at the next
// restart is the store's business, not ours.
type SettingsService struct {
	repo *repository.Repository
}

func NewSettingsService(repo *repository.Repository) *SettingsService {
	return &SettingsService{repo: repo}
}

// CurrentValue returns the effective value of the setting behind a sandbox
// catalog definition. Definitions without a config type fall back to their
// catalog base value.
func (ss *SettingsService) CurrentValue(ctx context.Context, def catalog.Definition) (float64, error) {
	return ss.currentValue(ctx, ss.repo, def)
}

func (ss *SettingsService) currentValue(ctx context.Context, r *repository.Repository, def catalog.Definition) (float64, error) {
	if def.ConfigType == "" {
		if def.BaseValue != nil {
			return *def.BaseValue, nil
		}
		return 0, nil
	}

	setting, err := r.GetSetting(ctx, def.PropertyKey, def.ConfigType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: %s (%s)", ErrSettingNotFound, def.PropertyKey, def.ConfigType)
		}
		return 0, fmt.Errorf("failed to load setting %s: %w", def.PropertyKey, err)
	}

	fallback := 0.0
	if def.BaseValue != nil {
		fallback = *def.BaseValue
	}
	return parseFloat(setting.EffectiveValue(), fallback), nil
}

// ApplyDelta adds a modifier's delta onto the setting's effective value and
// writes the result as an override, flagged for persistence at the next
// restart. Writes round up to 2 decimal places.
func (ss *SettingsService) ApplyDelta(ctx context.Context, def catalog.Definition, delta float64) error {
	return ss.applyDelta(ctx, ss.repo, def, delta)
}

func (ss *SettingsService) applyDelta(ctx context.Context, r *repository.Repository, def catalog.Definition, delta float64) error {
	setting, err := r.GetSetting(ctx, def.PropertyKey, def.ConfigType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s (%s)", ErrSettingNotFound, def.PropertyKey, def.ConfigType)
		}
		return fmt.Errorf("failed to load setting %s: %w", def.PropertyKey, err)
	}

	fallback := 0.0
	if def.BaseValue != nil {
		fallback = *def.BaseValue
	}
	current := parseFloat(setting.EffectiveValue(), fallback)

	newVal := decimal.NewFromFloat(current).
		Add(decimal.NewFromFloat(delta)).
		RoundCeil(2).
		String()

	setting.AppliedValue = &newVal
	setting.OverwriteAtStartup = true
	setting.UpdatedAt = time.Now()
	if err := r.SaveSetting(ctx, setting); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", def.PropertyKey, err)
	}

	log.Printf("Applied world setting override: %s (%v + %v = %s)", def.PropertyKey, current, delta, newVal)
	return nil
}

// RevertDelta subtracts a previously applied delta from the setting's
// effective value.
func (ss *SettingsService) RevertDelta(ctx context.Context, def catalog.Definition, delta float64) error {
	return ss.revertDelta(ctx, ss.repo, def, delta)
}

func (ss *SettingsService) revertDelta(ctx context.Context, r *repository.Repository, def catalog.Definition, delta float64) error {
	setting, err := r.GetSetting(ctx, def.PropertyKey, def.ConfigType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s (%s)", ErrSettingNotFound, def.PropertyKey, def.ConfigType)
		}
		return fmt.Errorf("failed to load setting %s: %w", def.PropertyKey, err)
	}

	fallback := 0.0
	if def.BaseValue != nil {
		fallback = *def.BaseValue
	}
	current := parseFloat(setting.EffectiveValue(), fallback)

	newVal := decimal.NewFromFloat(current).
		Sub(decimal.NewFromFloat(delta)).
		String()

	setting.AppliedValue = &newVal
	setting.UpdatedAt = time.Now()
	if err := r.SaveSetting(ctx, setting); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", def.PropertyKey, err)
	}

	log.Printf("Reverted world setting override: %s (%v - %v = %s)", def.PropertyKey, current, delta, newVal)
	return nil
}

func parseFloat(value string, fallback float64) float64 {
	if value == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return v
}
