package service

import (
	"context"
	"math"

	"github.com/bwmarrin/snowflake"
	commissiondomain "github.com/dispatchly/commission/internal/commission/domain"
	"github.com/dispatchly/commission/internal/period"
	"gorm.io/gorm"
)

// Streak walking stops after this many months regardless of history depth.
const maxStreakLookback = 24

// growthPercent compares one month's total against the prior month's.
//
// A member with no usable baseline (prior snapshot absent, or its total at
// or below zero) who earned anything this month reads as +100. Two months
// without earnings read as 0. Otherwise the relative change is rounded
// half away from zero; it can be negative and is never capped.
func growthPercent(currentCents int64, previousCents int64, hasPrevious bool) int64 {
	if !hasPrevious || previousCents <= 0 {
		if currentCents > 0 {
			return 100
		}
		return 0
	}
	ratio := float64(currentCents-previousCents) / float64(previousCents) * 100
	return roundHalfAway(ratio)
}

// consecutiveGrowthStreak counts how many month-over-month transitions of
// strict growth precede (and include) the given month. Walking backward
// stops at the first missing snapshot, a non-positive prior total, or a
// transition that was flat or declining.
func consecutiveGrowthStreak(ctx context.Context, db *gorm.DB, snapshots commissiondomain.Repository, userID snowflake.ID, month period.Month, currentCents int64) (int, error) {
	streak := 0
	cur := currentCents
	m := month
	for i := 0; i < maxStreakLookback; i++ {
		prev, err := snapshots.FindByUserMonth(ctx, db, userID, m.Prev())
		if err != nil {
			return 0, err
		}
		if prev == nil || prev.TotalCommissionCents <= 0 || prev.TotalCommissionCents >= cur {
			break
		}
		streak++
		cur = prev.TotalCommissionCents
		m = m.Prev()
	}
	return streak, nil
}

// roundHalfAway rounds half away from zero so declines mirror gains.
func roundHalfAway(raw float64) int64 {
	if raw >= 0 {
		return int64(math.Floor(raw + 0.5))
	}
	return int64(math.Ceil(raw - 0.5))
}
