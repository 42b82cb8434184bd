package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/dispatchly/commission/internal/activity/domain"
	"github.com/dispatchly/commission/internal/period"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() activitydomain.Repository {
	return &repo{}
}

func (r *repo) ActiveLeadCount(ctx context.Context, db *gorm.DB, orgID, userID snowflake.ID, month period.Month) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM lead_activities
		 WHERE org_id = ? AND user_id = ? AND month = ? AND status = ?`,
		orgID,
		userID,
		month,
		activitydomain.LeadStatusActive,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) GrossRevenueCents(ctx context.Context, db *gorm.DB, orgID, userID snowflake.ID, month period.Month) (int64, error) {
	// A user works either leads or loads; the other sum is simply zero.
	var booked int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(booked_revenue_cents), 0) FROM lead_activities
		 WHERE org_id = ? AND user_id = ? AND month = ?`,
		orgID,
		userID,
		month,
	).Scan(&booked).Error
	if err != nil {
		return 0, err
	}

	var moved int64
	err = db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(revenue_cents), 0) FROM dispatch_loads
		 WHERE org_id = ? AND user_id = ? AND month = ?`,
		orgID,
		userID,
		month,
	).Scan(&moved).Error
	if err != nil {
		return 0, err
	}

	return booked + moved, nil
}

func (r *repo) Bonuses(ctx context.Context, db *gorm.DB, orgID, userID snowflake.ID, month period.Month) (map[string]int64, error) {
	var rows []activitydomain.CommissionBonus
	err := db.WithContext(ctx).
		Where("org_id = ? AND user_id = ? AND month = ?", orgID, userID, month).
		Order("code ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	bonuses := make(map[string]int64, len(rows))
	for _, row := range rows {
		bonuses[row.Code] += row.AmountCents
	}
	return bonuses, nil
}
