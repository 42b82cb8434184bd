package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/dispatchly/commission/internal/period"
	"gorm.io/gorm"
)

// Repository reads activity metrics for commission computation. A user with
// no recorded activity is a metric of zero, never an error.
type Repository interface {
	ActiveLeadCount(ctx context.Context, db *gorm.DB, orgID, userID snowflake.ID, month period.Month) (int64, error)
	GrossRevenueCents(ctx context.Context, db *gorm.DB, orgID, userID snowflake.ID, month period.Month) (int64, error)
	Bonuses(ctx context.Context, db *gorm.DB, orgID, userID snowflake.ID, month period.Month) (map[string]int64, error)
}
