package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, department string) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Department      string         `json:"department"`
	Position        int            `json:"position"`
	MinMetric       float64        `json:"min_metric"`
	MaxMetric       *float64       `json:"max_metric"`
	FlatAmountCents *int64         `json:"flat_amount_cents"`
	Percent         *float64       `json:"percent"`
	Metadata        map[string]any `json:"metadata"`
}

type Response struct {
	ID              string    `json:"id"`
	OrganizationID  string    `json:"organization_id"`
	Department      string    `json:"department"`
	Position        int       `json:"position"`
	MinMetric       float64   `json:"min_metric"`
	MaxMetric       *float64  `json:"max_metric,omitempty"`
	FlatAmountCents *int64    `json:"flat_amount_cents,omitempty"`
	Percent         *float64  `json:"percent,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidDepartment   = errors.New("invalid_department")
	ErrInvalidBand         = errors.New("invalid_band")
	ErrOverlappingBand     = errors.New("overlapping_band")
	ErrInvalidReward       = errors.New("invalid_reward")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")

	// ErrRuleSetNotFound is the configuration error surfaced when no rule
	// set exists for an (org, department) pair. It must reach the caller
	// instead of being flattened into a zero reward.
	ErrRuleSetNotFound = errors.New("commission_ruleset_not_found")
)
