package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() rulesetdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tier *rulesetdomain.CommissionTier) error {
	return db.WithContext(ctx).Create(tier).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*rulesetdomain.CommissionTier, error) {
	var tier rulesetdomain.CommissionTier
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&tier).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &tier, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&rulesetdomain.CommissionTier{}).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, department rulesetdomain.Department) ([]rulesetdomain.CommissionTier, error) {
	var items []rulesetdomain.CommissionTier
	stmt := db.WithContext(ctx).Where("org_id = ?", orgID)
	if department != "" {
		stmt = stmt.Where("department = ?", department)
	}
	err := stmt.Order("department ASC, min_metric ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) RuleSet(ctx context.Context, db *gorm.DB, orgID snowflake.ID, department rulesetdomain.Department) (*rulesetdomain.RuleSet, error) {
	var tiers []rulesetdomain.CommissionTier
	err := db.WithContext(ctx).
		Where("org_id = ? AND department = ?", orgID, department).
		Order("min_metric ASC").
		Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	if len(tiers) == 0 {
		return nil, nil
	}
	return &rulesetdomain.RuleSet{
		OrgID:      orgID,
		Department: department,
		Tiers:      tiers,
	}, nil
}
