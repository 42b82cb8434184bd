package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	commissiondomain "github.com/dispatchly/commission/internal/commission/domain"
	"github.com/dispatchly/commission/internal/period"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() commissiondomain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, record *commissiondomain.MonthlyCommissionRecord) error {
	// The conflict target is the natural key; the row ID and created_at of
	// the first write survive recomputation so the record's identity is
	// stable across runs.
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"org_id",
			"department",
			"metric_value",
			"base_commission_cents",
			"bonuses",
			"total_commission_cents",
			"updated_at",
		}),
	}).Create(record).Error
}

func (r *repo) FindByUserMonth(ctx context.Context, db *gorm.DB, userID snowflake.ID, month period.Month) (*commissiondomain.MonthlyCommissionRecord, error) {
	var record commissiondomain.MonthlyCommissionRecord
	err := db.WithContext(ctx).
		Where("user_id = ? AND month = ?", userID, month).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) ListByOrgMonth(ctx context.Context, db *gorm.DB, orgID snowflake.ID, month period.Month, department rulesetdomain.Department) ([]commissiondomain.MonthlyCommissionRecord, error) {
	var records []commissiondomain.MonthlyCommissionRecord
	stmt := db.WithContext(ctx).Where("org_id = ? AND month = ?", orgID, month)
	if department != "" {
		stmt = stmt.Where("department = ?", department)
	}
	err := stmt.Order("user_id ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
