package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
)

// Member is one commissionable employee. The surrounding CRM owns the rest
// of the user profile; the engine only needs identity, org and department.
type Member struct {
	ID           snowflake.ID              `json:"id" gorm:"primaryKey"`
	OrgID        snowflake.ID              `json:"organization_id" gorm:"column:org_id;not null;index:idx_members_org_dept"`
	Email        string                    `json:"email" gorm:"type:text;not null;uniqueIndex"`
	DisplayName  string                    `json:"display_name" gorm:"type:text;not null"`
	Department   rulesetdomain.Department  `json:"department" gorm:"type:text;not null;index:idx_members_org_dept"`
	PasswordHash string                    `json:"-" gorm:"type:text"`
	Active       bool                      `json:"active" gorm:"not null;default:true"`
	CreatedAt    time.Time                 `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time                 `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Member) TableName() string { return "members" }
