// Package domain defines cohort ranking: ranked leaderboard entries, the
// per-department monthly target, and the performance badges derived from a
// member's standing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dispatchly/commission/internal/period"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
)

// Badge codes. Rules are independent; any subset may apply to one member.
const (
	BadgeTopPerformer     = "top-performer"
	BadgeTargetAchieved   = "target-achieved"
	BadgeConsistentGrowth = "consistent-growth"
	BadgeAtRisk           = "at-risk"
)

// DepartmentTarget is the department-wide commission target for one month.
// Each cohort member's individual target is this amount divided by the
// cohort head-count.
type DepartmentTarget struct {
	ID          snowflake.ID             `json:"id" gorm:"primaryKey"`
	OrgID       snowflake.ID             `json:"organization_id" gorm:"column:org_id;not null;uniqueIndex:idx_department_targets_org_dept_month"`
	Department  rulesetdomain.Department `json:"department" gorm:"type:text;not null;uniqueIndex:idx_department_targets_org_dept_month"`
	Month       period.Month             `json:"month" gorm:"type:text;not null;uniqueIndex:idx_department_targets_org_dept_month"`
	TargetCents int64                    `json:"target_cents" gorm:"not null"`
	CreatedAt   time.Time                `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time                `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (DepartmentTarget) TableName() string { return "department_targets" }

// RankedEntry is one row of a cohort leaderboard.
type RankedEntry struct {
	Rank                 int          `json:"rank"`
	UserID               string       `json:"user_id"`
	DisplayName          string       `json:"display_name,omitempty"`
	Department           string       `json:"department"`
	Month                period.Month `json:"month"`
	MetricValue          float64      `json:"metric_value"`
	TotalCommissionCents int64        `json:"total_commission_cents"`
	GrowthPercent        int64        `json:"growth_percent"`
	TargetPercent        int64        `json:"target_percent"`
	GrowthStreak         int          `json:"growth_streak"`
	Badges               []string     `json:"badges"`
}

// UserMetrics is the full per-user view for one month: the committed
// snapshot plus the derived standing.
type UserMetrics struct {
	UserID               string       `json:"user_id"`
	OrganizationID       string       `json:"organization_id"`
	Department           string       `json:"department"`
	Month                period.Month `json:"month"`
	MetricValue          float64      `json:"metric_value"`
	BaseCommissionCents  int64        `json:"base_commission_cents"`
	Bonuses              map[string]int64 `json:"bonuses,omitempty"`
	TotalCommissionCents int64        `json:"total_commission_cents"`
	GrowthPercent        int64        `json:"growth_percent"`
	Rank                 int          `json:"rank"`
	TargetPercent        int64        `json:"target_percent"`
	GrowthStreak         int          `json:"growth_streak"`
	Badges               []string     `json:"badges"`
}
