package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/dispatchly/commission/internal/period"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"gorm.io/gorm"
)

type Repository interface {
	// Upsert inserts or replaces the snapshot keyed by (user_id, month).
	// The write is guarded by the unique index, so concurrent recomputes
	// collapse to last-writer-wins instead of duplicating rows.
	Upsert(ctx context.Context, db *gorm.DB, record *MonthlyCommissionRecord) error

	FindByUserMonth(ctx context.Context, db *gorm.DB, userID snowflake.ID, month period.Month) (*MonthlyCommissionRecord, error)

	// ListByOrgMonth returns the committed snapshots for one (org, month),
	// optionally filtered to one department.
	ListByOrgMonth(ctx context.Context, db *gorm.DB, orgID snowflake.ID, month period.Month, department rulesetdomain.Department) ([]MonthlyCommissionRecord, error)
}
