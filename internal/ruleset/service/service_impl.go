package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dispatchly/commission/internal/orgcontext"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  rulesetdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  rulesetdomain.Repository
}

func New(p Params) rulesetdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ruleset.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req rulesetdomain.CreateRequest) (*rulesetdomain.Response, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	department := rulesetdomain.Department(strings.TrimSpace(strings.ToLower(req.Department)))
	if !department.Valid() {
		return nil, rulesetdomain.ErrInvalidDepartment
	}

	now := time.Now().UTC()
	entity := &rulesetdomain.CommissionTier{
		ID:              s.genID.Generate(),
		OrgID:           orgID,
		Department:      department,
		Position:        req.Position,
		MinMetric:       req.MinMetric,
		MaxMetric:       req.MaxMetric,
		FlatAmountCents: req.FlatAmountCents,
		Percent:         req.Percent,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.Metadata != nil {
		entity.Metadata = datatypes.JSONMap(req.Metadata)
	}

	// Validate the new tier against the existing rule set so the stored
	// collection always stays ordered and non-overlapping.
	existing, err := s.repo.List(ctx, s.db, orgID, department)
	if err != nil {
		return nil, err
	}
	merged := mergeOrdered(existing, *entity)
	if err := rulesetdomain.ValidateTiers(department, merged); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		return nil, err
	}

	return s.toResponse(entity), nil
}

func (s *Service) List(ctx context.Context, department string) ([]rulesetdomain.Response, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	dept := rulesetdomain.Department(strings.TrimSpace(strings.ToLower(department)))
	if dept != "" && !dept.Valid() {
		return nil, rulesetdomain.ErrInvalidDepartment
	}

	items, err := s.repo.List(ctx, s.db, orgID, dept)
	if err != nil {
		return nil, err
	}

	resp := make([]rulesetdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *s.toResponse(&items[i]))
	}

	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*rulesetdomain.Response, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tierID, err := parseID(id)
	if err != nil {
		return nil, rulesetdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, orgID, tierID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, rulesetdomain.ErrNotFound
	}

	return s.toResponse(entity), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return err
	}

	tierID, err := parseID(id)
	if err != nil {
		return rulesetdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, orgID, tierID)
	if err != nil {
		return err
	}
	if entity == nil {
		return rulesetdomain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, orgID, tierID)
}

func (s *Service) orgIDFromContext(ctx context.Context) (snowflake.ID, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return 0, rulesetdomain.ErrInvalidOrganization
	}
	return orgID, nil
}

func (s *Service) toResponse(t *rulesetdomain.CommissionTier) *rulesetdomain.Response {
	return &rulesetdomain.Response{
		ID:              t.ID.String(),
		OrganizationID:  t.OrgID.String(),
		Department:      string(t.Department),
		Position:        t.Position,
		MinMetric:       t.MinMetric,
		MaxMetric:       t.MaxMetric,
		FlatAmountCents: t.FlatAmountCents,
		Percent:         t.Percent,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func mergeOrdered(existing []rulesetdomain.CommissionTier, tier rulesetdomain.CommissionTier) []rulesetdomain.CommissionTier {
	merged := make([]rulesetdomain.CommissionTier, 0, len(existing)+1)
	inserted := false
	for _, t := range existing {
		if !inserted && tier.MinMetric < t.MinMetric {
			merged = append(merged, tier)
			inserted = true
		}
		merged = append(merged, t)
	}
	if !inserted {
		merged = append(merged, tier)
	}
	return merged
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
