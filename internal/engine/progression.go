package engine

import (
	"math"
)

const (
	// LevelCurveBase and LevelCurveExponent define XPForLevel(n) = floor(100 * n^1.5).
	LevelCurveBase     = 100.0
	LevelCurveExponent = 1.5

	// StreakBonusThreshold is the streak length at which streak_booster pays out.
	StreakBonusThreshold = 3
	StreakBonus          = 1.0
)

// XPForLevel returns the cumulative XP threshold of level n.
// Values are truncated, never rounded: XPForLevel(2) is 282.
func XPForLevel(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Floor(LevelCurveBase * math.Pow(float64(n), LevelCurveExponent)))
}

// LevelForXP returns the greatest level n >= 1 with XPForLevel(n) <= totalXP.
// It searches the curve rather than inverting it so thresholds stay exact.
func LevelForXP(totalXP int) int {
	if totalXP < XPForLevel(2) {
		return 1
	}

	// Start just under the closed-form estimate, then widen until the bound holds.
	est := int(math.Pow(float64(totalXP)/LevelCurveBase, 1/LevelCurveExponent))
	low := max(1, est-1)
	for XPForLevel(low) > totalXP && low > 1 {
		low /= 2
	}
	high := low + 2
	for XPForLevel(high) <= totalXP {
		low = high
		high *= 2
		if high > 100_000_000 {
			break
		}
	}

	for low+1 < high {
		mid := low + (high-low)/2
		if XPForLevel(mid) <= totalXP {
			low = mid
		} else {
			high = mid
		}
	}
	return max(1, low)
}

// LevelProgress is the fraction of the way from level to level+1, clamped to [0,1].
func LevelProgress(totalXP, level int) float64 {
	floor := XPForLevel(level)
	span := XPForLevel(level+1) - floor
	if span <= 0 {
		return 0
	}
	f := float64(totalXP-floor) / float64(span)
	return math.Min(1, math.Max(0, f))
}

// Multipliers is the breakdown applied to base XP awards.
type Multipliers struct {
	Base         float64
	UpgradeBonus float64
	StreakBonus  float64
	Total        float64
}

// ComputeMultipliers composes bonuses additively: +10% and +20% give +30%, not +32%.
func ComputeMultipliers(owned map[string]bool, streak int) Multipliers {
	m := Multipliers{Base: 1.0}
	for _, u := range catalog {
		if !owned[u.ID] {
			continue
		}
		switch e := u.Effect.(type) {
		case MultiplierEffect:
			m.UpgradeBonus += e.Value
		case StreakBoostEffect:
			if streak >= StreakBonusThreshold {
				m.StreakBonus = StreakBonus
			}
		case PassiveRateEffect, ThemeUnlockEffect, AutoCollectEffect:
		}
	}
	m.Total = m.Base + m.UpgradeBonus + m.StreakBonus
	return m
}

// EffectiveXP applies the multiplier with truncation.
func EffectiveXP(base int, m Multipliers) int {
	if base <= 0 || m.Total <= 0 {
		return 0
	}
	return int(math.Floor(float64(base) * m.Total))
}
