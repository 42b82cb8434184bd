package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Department identifies which commission plan a user is paid under.
type Department string

const (
	DepartmentSales    Department = "sales"
	DepartmentDispatch Department = "dispatch"
)

// Valid reports whether the department is one of the known plans.
func (d Department) Valid() bool {
	return d == DepartmentSales || d == DepartmentDispatch
}

// CommissionTier is one reward rule inside an org's rule set.
//
// Sales tiers are staircase thresholds: MinMetric is the active-lead count at
// which the tier starts applying and MaxMetric is ignored. Dispatch tiers are
// closed revenue ranges [MinMetric, MaxMetric]; a nil MaxMetric marks the
// final, unbounded range.
type CommissionTier struct {
	ID              snowflake.ID      `json:"id" gorm:"primaryKey"`
	OrgID           snowflake.ID      `json:"organization_id" gorm:"column:org_id;not null;index:idx_commission_tiers_org_dept"`
	Department      Department        `json:"department" gorm:"type:text;not null;index:idx_commission_tiers_org_dept"`
	Position        int               `json:"position" gorm:"not null"`
	MinMetric       float64           `json:"min_metric" gorm:"type:numeric;not null"`
	MaxMetric       *float64          `json:"max_metric,omitempty" gorm:"type:numeric"`
	FlatAmountCents *int64            `json:"flat_amount_cents,omitempty" gorm:""`
	Percent         *float64          `json:"percent,omitempty" gorm:"type:numeric"`
	Metadata        datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CommissionTier) TableName() string { return "commission_tiers" }

// Reward is the resolved payout definition of a matched tier. A negative
// Percent expresses an under-performance penalty.
type Reward struct {
	FlatAmountCents int64
	Percent         float64
}

// Reward returns the tier's payout definition with absent components as zero.
func (t CommissionTier) Reward() Reward {
	var r Reward
	if t.FlatAmountCents != nil {
		r.FlatAmountCents = *t.FlatAmountCents
	}
	if t.Percent != nil {
		r.Percent = *t.Percent
	}
	return r
}

// RuleSet is the ordered tier collection for one (org, department) pair.
// Tiers are ordered by ascending MinMetric and their bands do not overlap.
type RuleSet struct {
	OrgID      snowflake.ID
	Department Department
	Tiers      []CommissionTier
}
