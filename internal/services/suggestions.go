package services

import (
	"context"
	"errors"
	"log"

	"world-events/internal/catalog"
	"world-events/internal/models"
)

// Suggestion is one catalog entry presented to event creators, with the
// percentage tiers that would push the world past its cap already disabled.
type Suggestion struct {
	CatalogKey    string                `json:"catalog_key"`
	DisplayName   string                `json:"display_name"`
	Description   string                `json:"description"`
	Target        models.ModifierTarget `json:"target"`
	PropertyKey   string                `json:"property_key"`
	ValueKind     models.ValueKind      `json:"value_kind"`
	BaseCost      int                   `json:"base_cost"`
	CurrentValue  *float64              `json:"current_value,omitempty"`
	MinValue      *float64              `json:"min_value,omitempty"`
	MaxValue      *float64              `json:"max_value,omitempty"`
	TierCosts     map[int]int           `json:"tier_costs,omitempty"`
	DisabledTiers []int                 `json:"disabled_tiers,omitempty"`
}

// FilteredSandboxSuggestions builds the sandbox side of the catalog against
// the world's current values. Tiers whose delta would push a capped setting
// past its maximum are listed as disabled; a definition with no usable tier
// left is dropped entirely. Definitions whose backing setting is missing are
// excluded rather than shown with a wrong baseline.
func (es *EventService) FilteredSandboxSuggestions(ctx context.Context) ([]Suggestion, error) {
	var suggestions []Suggestion

	for _, def := range catalog.SandboxDefinitions() {
		s := definitionSuggestion(def)

		if def.ValueKind != models.ValueKindPercentage || def.MaxValue == nil {
			suggestions = append(suggestions, s)
			continue
		}

		current, err := es.settings.CurrentValue(ctx, def)
		if errors.Is(err, ErrSettingNotFound) {
			log.Printf("Warning: skipping suggestion %s, world setting missing: %s", def.Key, def.PropertyKey)
			continue
		}
		if err != nil {
			return nil, err
		}
		s.CurrentValue = &current

		usable := 0
		for _, tier := range catalog.PercentageTiers {
			if current+def.Delta(tier) > *def.MaxValue {
				s.DisabledTiers = append(s.DisabledTiers, tier)
			} else {
				usable++
			}
		}
		if usable == 0 {
			continue
		}

		suggestions = append(suggestions, s)
	}

	return suggestions, nil
}

// ZoneSuggestions returns the zone side of the catalog. Zone effects apply
// to a fresh zone, so no cap filtering is needed.
func (es *EventService) ZoneSuggestions() []Suggestion {
	var suggestions []Suggestion
	for _, def := range catalog.ZoneDefinitions() {
		suggestions = append(suggestions, definitionSuggestion(def))
	}
	return suggestions
}

func definitionSuggestion(def catalog.Definition) Suggestion {
	s := Suggestion{
		CatalogKey:  def.Key,
		DisplayName: def.DisplayName,
		Description: def.Description,
		Target:      def.Target,
		PropertyKey: def.PropertyKey,
		ValueKind:   def.ValueKind,
		BaseCost:    def.BaseCost,
		MinValue:    def.MinValue,
		MaxValue:    def.MaxValue,
	}
	if def.ValueKind == models.ValueKindPercentage {
		s.TierCosts = make(map[int]int, len(catalog.PercentageTiers))
		for _, tier := range catalog.PercentageTiers {
			if cost, err := def.Cost(tier); err == nil {
				s.TierCosts[tier] = cost
			}
		}
	}
	return s
}
