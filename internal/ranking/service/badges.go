package service

import rankingdomain "github.com/dispatchly/commission/internal/ranking/domain"

// Badge thresholds.
const (
	targetAchievedPercent = 100
	atRiskPercent         = 70
	growthStreakMonths    = 2
)

// classifyBadges applies each badge rule independently; a member can hold
// any subset, including top-performer alongside at-risk.
func classifyBadges(rank int, targetPercent int64, streak int) []string {
	badges := make([]string, 0, 4)
	if rank == 1 {
		badges = append(badges, rankingdomain.BadgeTopPerformer)
	}
	if targetPercent >= targetAchievedPercent {
		badges = append(badges, rankingdomain.BadgeTargetAchieved)
	}
	if streak >= growthStreakMonths {
		badges = append(badges, rankingdomain.BadgeConsistentGrowth)
	}
	if targetPercent < atRiskPercent {
		badges = append(badges, rankingdomain.BadgeAtRisk)
	}
	return badges
}
