// Package domain contains the activity data the commission engine reads:
// worked leads, dispatched loads and discretionary bonuses. These tables are
// written by the surrounding CRM, never by this engine.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dispatchly/commission/internal/period"
)

type LeadStatus string

const (
	LeadStatusActive LeadStatus = "active"
	LeadStatusClosed LeadStatus = "closed"
	LeadStatusLost   LeadStatus = "lost"
)

// LeadActivity is one lead worked by a sales rep in a given month.
type LeadActivity struct {
	ID                 snowflake.ID `gorm:"primaryKey"`
	OrgID              snowflake.ID `gorm:"column:org_id;not null;index:idx_lead_activities_org_user_month"`
	UserID             snowflake.ID `gorm:"not null;index:idx_lead_activities_org_user_month"`
	Month              period.Month `gorm:"type:text;not null;index:idx_lead_activities_org_user_month"`
	Status             LeadStatus   `gorm:"type:text;not null"`
	BookedRevenueCents int64        `gorm:"not null;default:0"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (LeadActivity) TableName() string { return "lead_activities" }

// DispatchLoad is one load moved by a dispatcher in a given month.
type DispatchLoad struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	OrgID        snowflake.ID `gorm:"column:org_id;not null;index:idx_dispatch_loads_org_user_month"`
	UserID       snowflake.ID `gorm:"not null;index:idx_dispatch_loads_org_user_month"`
	Month        period.Month `gorm:"type:text;not null;index:idx_dispatch_loads_org_user_month"`
	RevenueCents int64        `gorm:"not null;default:0"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (DispatchLoad) TableName() string { return "dispatch_loads" }

// Bonus codes sourced independently of tier resolution.
const (
	BonusRepOfMonth  = "rep_of_month"
	BonusActiveFleet = "active_fleet"
	BonusTeamLead    = "team_lead"
)

// CommissionBonus is one named discretionary bonus for a user and month.
type CommissionBonus struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	OrgID       snowflake.ID `gorm:"column:org_id;not null;index:idx_commission_bonuses_org_user_month"`
	UserID      snowflake.ID `gorm:"not null;index:idx_commission_bonuses_org_user_month"`
	Month       period.Month `gorm:"type:text;not null;index:idx_commission_bonuses_org_user_month"`
	Code        string       `gorm:"type:text;not null"`
	AmountCents int64        `gorm:"not null"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CommissionBonus) TableName() string { return "commission_bonuses" }
