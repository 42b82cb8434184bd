package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tier *CommissionTier) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*CommissionTier, error)
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, department Department) ([]CommissionTier, error)

	// RuleSet loads the ordered tier collection for one (org, department)
	// pair. Returns nil when no tiers are configured.
	RuleSet(ctx context.Context, db *gorm.DB, orgID snowflake.ID, department Department) (*RuleSet, error)
}
