package mentor

import "math"

const (
	XPReward = 10

	StreakBadgeName      = "Streak Master"
	StreakBadgeThreshold = 3

	MinPortion = 0.5
	MaxPortion = 3.0

	leftoverFactor  = 0.9
	lowRatingFactor = 1.05
	lowRatingBelow  = 3
)

// PortionFromRotis derives the starting multiplier from staple units per meal.
// Two units is the baseline.
func PortionFromRotis(rotis int) float64 {
	return clampPortion(float64(rotis) / 2.0)
}

// AdjustPortion applies end-of-session feedback to the multiplier. Leftovers
// take precedence over a low rating; the two never combine.
func AdjustPortion(current float64, leftovers bool, rating int) (float64, string) {
	switch {
	case leftovers:
		return clampPortion(current * leftoverFactor), "Reduced portion size by 10% (leftovers reported)"
	case rating < lowRatingBelow:
		return clampPortion(current * lowRatingFactor), "Increased portion size by 5% (low rating)"
	default:
		return clampPortion(current), "No change"
	}
}

// EarnsStreakBadge reports whether reaching streak awards the streak badge.
// Only the exact threshold triggers; higher streaks do not re-award.
func EarnsStreakBadge(streak int) bool {
	return streak == StreakBadgeThreshold
}

func clampPortion(v float64) float64 {
	if math.IsNaN(v) {
		return MinPortion
	}
	return math.Min(MaxPortion, math.Max(MinPortion, v))
}
