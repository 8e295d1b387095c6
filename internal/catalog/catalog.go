package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"world-events/internal/models"
)

var (
	ErrInvalidTier    = errors.New("invalid percentage tier")
	ErrNotAbsolute    = errors.New("not an absolute value modifier")
	ErrUnknownKey     = errors.New("unknown modifier key")
)

// PercentageTiers are the purchasable magnitudes for PERCENTAGE modifiers.
var PercentageTiers = []int{5, 10, 15, 30, 50, 100}

// tierCostMultipliers is index-matched with PercentageTiers.
var tierCostMultipliers = []int{1, 2, 3, 6, 10, 20}

// Definition is one purchasable modifier in the catalog. The catalog is the
// single source of truth for validation; costs and deltas are recomputed from
// it on every request and client-submitted values are never trusted.
type Definition struct {
	Key         string
	DisplayName string
	PropertyKey string
	Target      models.ModifierTarget
	ConfigType  models.ConfigType
	ValueKind   models.ValueKind
	Description string
	BaseValue   *float64
	MinValue    *float64
	MaxValue    *float64
	BaseCost    int
}

// Cost returns the price of buying this modifier at the given percentage
// tier. BOOLEAN and TEXT kinds ignore the tier and cost their base price.
func (d Definition) Cost(tier int) (int, error) {
	if d.ValueKind == models.ValueKindBoolean || d.ValueKind == models.ValueKindText {
		return d.BaseCost, nil
	}
	for i, t := range PercentageTiers {
		if t == tier {
			return d.BaseCost * tierCostMultipliers[i], nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidTier, tier)
}

// CostForAbsolute prices an ABSOLUTE modifier by how far the requested value
// sits from the base, scaled against the allowed maximum.
func (d Definition) CostForAbsolute(value float64) (int, error) {
	if d.ValueKind != models.ValueKindAbsolute {
		return 0, ErrNotAbsolute
	}
	if d.MaxValue == nil || *d.MaxValue == 0 {
		return d.BaseCost, nil
	}
	base := 0.0
	if d.BaseValue != nil {
		base = *d.BaseValue
	}
	ratio := math.Abs(value-base) / *d.MaxValue
	return int(math.Ceil(float64(d.BaseCost) * math.Max(1, ratio*20))), nil
}

// Delta returns the effect magnitude for a percentage tier.
// SANDBOX targets scale the base value (tier as a fraction); ZONE targets use
// the raw tier as a percentage chance. BOOLEAN and TEXT always yield 1.
func (d Definition) Delta(tier int) float64 {
	if d.ValueKind == models.ValueKindBoolean || d.ValueKind == models.ValueKindText {
		return 1.0
	}
	if d.Target == models.TargetSandbox {
		base := 1.0
		if d.BaseValue != nil {
			base = *d.BaseValue
		}
		return base * float64(tier) / 100.0
	}
	return float64(tier)
}

// DeltaString renders the delta the way it is stored on an EventModifier:
// "true" for BOOLEAN/TEXT kinds, whole numbers without a decimal point.
func (d Definition) DeltaString(tier int) string {
	if d.ValueKind == models.ValueKindBoolean || d.ValueKind == models.ValueKindText {
		return "true"
	}
	delta := d.Delta(tier)
	if delta == math.Floor(delta) {
		return strconv.Itoa(int(delta))
	}
	return strconv.FormatFloat(delta, 'f', -1, 64)
}

// ValidTier reports whether the tier is one of the fixed purchasable tiers.
func (d Definition) ValidTier(tier int) bool {
	for _, t := range PercentageTiers {
		if t == tier {
			return true
		}
	}
	return false
}

// ValidAbsolute checks an absolute value against the min/max bounds, inclusive.
func (d Definition) ValidAbsolute(value float64) bool {
	if d.MinValue != nil && value < *d.MinValue {
		return false
	}
	if d.MaxValue != nil && value > *d.MaxValue {
		return false
	}
	return true
}

// Lookup resolves a catalog key. The second return is false for unknown keys.
func Lookup(key string) (Definition, bool) {
	d, ok := index[key]
	return d, ok
}

// SandboxDefinitions returns all definitions targeting global world settings.
func SandboxDefinitions() []Definition {
	return byTarget(models.TargetSandbox)
}

// ZoneDefinitions returns all definitions targeting geofenced zones.
func ZoneDefinitions() []Definition {
	return byTarget(models.TargetZone)
}

func byTarget(target models.ModifierTarget) []Definition {
	var out []Definition
	for _, d := range definitions {
		if d.Target == target {
			out = append(out, d)
		}
	}
	return out
}

var index map[string]Definition

func init() {
	index = make(map[string]Definition, len(definitions))
	for _, d := range definitions {
		index[d.Key] = d
	}
}
