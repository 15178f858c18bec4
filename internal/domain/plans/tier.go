package plans

import "strings"

// Tier constants (single source of truth)
const (
	TierNone    = "none"
	TierBasic   = "basic"
	TierPremium = "premium"
)

// PlanTier returns the effective tier for a plan.
// Priority:
// 1. Explicit Tier stored in DB
// 2. Fallback inference by price (legacy safety net)
func PlanTier(p *Plan) string {
	if p == nil {
		return TierNone
	}

	tier := strings.ToLower(strings.TrimSpace(p.Tier))
	switch tier {
	case TierBasic, TierPremium:
		return tier
	}

	return inferTierFromPrice(p.Price)
}

// inferTierFromPrice exists only as a backward-compatibility fallback for
// rows migrated without a tier column.
func inferTierFromPrice(price float64) string {
	if price > 0 {
		return TierPremium
	}
	return TierBasic
}
