package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/dispatchly/commission/internal/period"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"gorm.io/gorm"
)

type Repository interface {
	// FindTarget returns the department target for one (org, department,
	// month), or nil when none is configured.
	FindTarget(ctx context.Context, db *gorm.DB, orgID snowflake.ID, department rulesetdomain.Department, month period.Month) (*DepartmentTarget, error)

	UpsertTarget(ctx context.Context, db *gorm.DB, target *DepartmentTarget) error
}
