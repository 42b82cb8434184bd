// Package domain contains the persisted monthly commission snapshot. The
// record is the single authoritative shape for a computed commission; only
// the aggregator service constructs it.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dispatchly/commission/internal/period"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"gorm.io/datatypes"
)

// MonthlyCommissionRecord is one user's commission snapshot for one calendar
// month. The (user_id, month) pair is unique: recomputing upserts the row in
// place, it never duplicates it.
type MonthlyCommissionRecord struct {
	ID                   snowflake.ID             `json:"id" gorm:"primaryKey"`
	OrgID                snowflake.ID             `json:"organization_id" gorm:"column:org_id;not null;index:idx_monthly_commissions_org_month"`
	UserID               snowflake.ID             `json:"user_id" gorm:"not null;uniqueIndex:idx_monthly_commissions_user_month"`
	Month                period.Month             `json:"month" gorm:"type:text;not null;uniqueIndex:idx_monthly_commissions_user_month;index:idx_monthly_commissions_org_month"`
	Department           rulesetdomain.Department `json:"department" gorm:"type:text;not null"`
	MetricValue          float64                  `json:"metric_value" gorm:"type:numeric;not null"`
	BaseCommissionCents  int64                    `json:"base_commission_cents" gorm:"not null"`
	Bonuses              datatypes.JSONMap        `json:"bonuses,omitempty" gorm:"type:jsonb"`
	TotalCommissionCents int64                    `json:"total_commission_cents" gorm:"not null"`
	CreatedAt            time.Time                `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time                `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (MonthlyCommissionRecord) TableName() string { return "monthly_commissions" }

// BonusCents reads one named bonus from the breakdown, tolerating the
// numeric widening JSON round-trips introduce.
func (r MonthlyCommissionRecord) BonusCents(code string) int64 {
	if r.Bonuses == nil {
		return 0
	}
	switch v := r.Bonuses[code].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case int:
		return int64(v)
	default:
		return 0
	}
}
