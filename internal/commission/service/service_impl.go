package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/dispatchly/commission/internal/activity/domain"
	"github.com/dispatchly/commission/internal/clock"
	commissiondomain "github.com/dispatchly/commission/internal/commission/domain"
	memberdomain "github.com/dispatchly/commission/internal/member/domain"
	obsmetrics "github.com/dispatchly/commission/internal/observability/metrics"
	"github.com/dispatchly/commission/internal/period"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	MemberRepo   memberdomain.Repository
	RuleSetRepo  rulesetdomain.Repository
	ActivityRepo activitydomain.Repository
	SnapshotRepo commissiondomain.Repository
	Metrics      *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	memberRepo   memberdomain.Repository
	ruleSetRepo  rulesetdomain.Repository
	activityRepo activitydomain.Repository
	snapshotRepo commissiondomain.Repository
	metrics      *obsmetrics.Metrics
}

func New(p Params) commissiondomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("commission.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		memberRepo:   p.MemberRepo,
		ruleSetRepo:  p.RuleSetRepo,
		activityRepo: p.ActivityRepo,
		snapshotRepo: p.SnapshotRepo,
		metrics:      p.Metrics,
	}
}

func (s *Service) ComputeMonthlyCommission(ctx context.Context, userID string, month string) (*commissiondomain.Response, error) {
	memberID, err := parseID(userID)
	if err != nil {
		return nil, commissiondomain.ErrInvalidUser
	}
	monthKey, err := period.Parse(strings.TrimSpace(month))
	if err != nil {
		return nil, commissiondomain.ErrInvalidMonth
	}

	member, err := s.memberRepo.FindByID(ctx, s.db, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, commissiondomain.ErrUserNotFound
	}

	ruleSet, err := s.ruleSetRepo.RuleSet(ctx, s.db, member.OrgID, member.Department)
	if err != nil {
		return nil, err
	}
	if ruleSet == nil {
		// Configuration error: a missing rule set must reach the caller,
		// never flatten into a zero reward.
		s.metrics.RecordCompute(ctx, string(member.Department), "missing_ruleset")
		return nil, rulesetdomain.ErrRuleSetNotFound
	}

	metric, revenueCents, err := s.loadMetric(ctx, member, monthKey)
	if err != nil {
		return nil, err
	}

	var reward rulesetdomain.Reward
	if tier := ruleSet.Resolve(metric); tier != nil {
		reward = tier.Reward()
	}

	// Percent rewards (including penalties) apply against the member's
	// gross revenue for the month; flat rewards stand on their own.
	base := reward.FlatAmountCents + roundHalfAway(reward.Percent/100*float64(revenueCents))

	bonuses, err := s.activityRepo.Bonuses(ctx, s.db, member.OrgID, memberID, monthKey)
	if err != nil {
		return nil, err
	}

	total := base
	breakdown := make(datatypes.JSONMap, len(bonuses))
	for code, cents := range bonuses {
		breakdown[code] = cents
		total += cents
	}

	now := s.clock.Now()
	record := &commissiondomain.MonthlyCommissionRecord{
		ID:                   s.genID.Generate(),
		OrgID:                member.OrgID,
		UserID:               memberID,
		Month:                monthKey,
		Department:           member.Department,
		MetricValue:          metric,
		BaseCommissionCents:  base,
		Bonuses:              breakdown,
		TotalCommissionCents: total,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.snapshotRepo.Upsert(ctx, s.db, record); err != nil {
		return nil, err
	}
	s.metrics.RecordSnapshotUpsert(ctx)
	s.metrics.RecordCompute(ctx, string(member.Department), "ok")

	// Read back through the natural key so callers always see the stored
	// row (original ID and created_at survive recomputation).
	stored, err := s.snapshotRepo.FindByUserMonth(ctx, s.db, memberID, monthKey)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		stored = record
	}

	s.log.Debug("computed monthly commission",
		zap.String("user_id", memberID.String()),
		zap.String("month", monthKey.String()),
		zap.Int64("total_cents", stored.TotalCommissionCents),
	)

	return toResponse(stored), nil
}

func (s *Service) loadMetric(ctx context.Context, member *memberdomain.Member, month period.Month) (float64, int64, error) {
	revenueCents, err := s.activityRepo.GrossRevenueCents(ctx, s.db, member.OrgID, member.ID, month)
	if err != nil {
		return 0, 0, err
	}

	switch member.Department {
	case rulesetdomain.DepartmentSales:
		leads, err := s.activityRepo.ActiveLeadCount(ctx, s.db, member.OrgID, member.ID, month)
		if err != nil {
			return 0, 0, err
		}
		return float64(leads), revenueCents, nil
	default:
		// Dispatch tiers are configured in whole currency units.
		return float64(revenueCents) / 100, revenueCents, nil
	}
}

func toResponse(r *commissiondomain.MonthlyCommissionRecord) *commissiondomain.Response {
	bonuses := make(map[string]int64, len(r.Bonuses))
	for code := range r.Bonuses {
		bonuses[code] = r.BonusCents(code)
	}
	return &commissiondomain.Response{
		ID:                   r.ID.String(),
		OrganizationID:       r.OrgID.String(),
		UserID:               r.UserID.String(),
		Month:                r.Month,
		Department:           string(r.Department),
		MetricValue:          r.MetricValue,
		BaseCommissionCents:  r.BaseCommissionCents,
		Bonuses:              bonuses,
		TotalCommissionCents: r.TotalCommissionCents,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// roundHalfAway rounds half away from zero so negative penalties mirror
// positive rewards.
func roundHalfAway(raw float64) int64 {
	if raw >= 0 {
		return int64(math.Floor(raw + 0.5))
	}
	return int64(math.Ceil(raw - 0.5))
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
