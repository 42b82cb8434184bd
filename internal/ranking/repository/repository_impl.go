package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/dispatchly/commission/internal/period"
	rankingdomain "github.com/dispatchly/commission/internal/ranking/domain"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() rankingdomain.Repository {
	return &repo{}
}

func (r *repo) FindTarget(ctx context.Context, db *gorm.DB, orgID snowflake.ID, department rulesetdomain.Department, month period.Month) (*rankingdomain.DepartmentTarget, error) {
	var target rankingdomain.DepartmentTarget
	err := db.WithContext(ctx).
		Where("org_id = ? AND department = ? AND month = ?", orgID, department, month).
		First(&target).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &target, nil
}

func (r *repo) UpsertTarget(ctx context.Context, db *gorm.DB, target *rankingdomain.DepartmentTarget) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "org_id"}, {Name: "department"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"target_cents", "updated_at"}),
	}).Create(target).Error
}
