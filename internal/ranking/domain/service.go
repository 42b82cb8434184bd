package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidOrg        = errors.New("invalid_organization")
	ErrInvalidUser       = errors.New("invalid_user")
	ErrInvalidMonth      = errors.New("invalid_month")
	ErrInvalidDepartment = errors.New("invalid_department")
	ErrUserNotFound      = errors.New("user_not_found")
	ErrSnapshotNotFound  = errors.New("commission_snapshot_not_found")
)

type Service interface {
	// RankCohort returns the leaderboard for one (org, month), optionally
	// filtered to one department. A limit of 0 returns the whole cohort.
	RankCohort(ctx context.Context, orgID, month, department string, limit int) ([]RankedEntry, error)

	// GetUserMetrics returns one member's committed snapshot together with
	// their derived standing for the month.
	GetUserMetrics(ctx context.Context, userID, month string) (*UserMetrics, error)
}
