package domain

import (
	"context"
	"errors"
	"time"

	"github.com/dispatchly/commission/internal/period"
)

type Service interface {
	// ComputeMonthlyCommission resolves the user's tier, folds in named
	// bonuses and upserts the (user, month) snapshot. Deterministic and
	// idempotent for unchanged inputs.
	ComputeMonthlyCommission(ctx context.Context, userID string, month string) (*Response, error)
}

type Response struct {
	ID                   string           `json:"id"`
	OrganizationID       string           `json:"organization_id"`
	UserID               string           `json:"user_id"`
	Month                period.Month     `json:"month"`
	Department           string           `json:"department"`
	MetricValue          float64          `json:"metric_value"`
	BaseCommissionCents  int64            `json:"base_commission_cents"`
	Bonuses              map[string]int64 `json:"bonuses"`
	TotalCommissionCents int64            `json:"total_commission_cents"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

var (
	ErrInvalidUser  = errors.New("invalid_user")
	ErrInvalidMonth = errors.New("invalid_month")
	ErrUserNotFound = errors.New("user_not_found")
)
