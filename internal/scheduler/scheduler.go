// Package scheduler drives the periodic recompute sweep: every interval it
// recomputes the current month's commission snapshot for each active member
// of every organization, so leaderboards stay close to live activity without
// any caller having to trigger computation.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dispatchly/commission/internal/clock"
	commissiondomain "github.com/dispatchly/commission/internal/commission/domain"
	memberdomain "github.com/dispatchly/commission/internal/member/domain"
	obsmetrics "github.com/dispatchly/commission/internal/observability/metrics"
	"github.com/dispatchly/commission/internal/period"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidConfig = errors.New("scheduler_invalid_config")

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Clock         clock.Clock
	CommissionSvc commissiondomain.Service
	MemberRepo    memberdomain.Repository
	Locker        *Locker `optional:"true"`
	Config        Config  `optional:"true"`
}

type Scheduler struct {
	db            *gorm.DB
	log           *zap.Logger
	cfg           Config
	clock         clock.Clock
	commissionSvc commissiondomain.Service
	memberRepo    memberdomain.Repository
	locker        *Locker
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil || p.CommissionSvc == nil || p.MemberRepo == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:            p.DB,
		log:           p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:           p.Config.withDefaults(),
		clock:         p.Clock,
		commissionSvc: p.CommissionSvc,
		memberRepo:    p.MemberRepo,
		locker:        p.Locker,
	}, nil
}

// RunOnce performs one full sweep. When a locker is configured and another
// replica holds the lease, the sweep is skipped without error.
func (s *Scheduler) RunOnce(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, s.cfg.SweepTimeout)
	defer cancel()

	if s.locker != nil {
		token, ok, err := s.locker.TryLock(ctx, s.cfg.LockKey, s.cfg.LockTTL)
		if err != nil {
			return err
		}
		if !ok {
			s.log.Debug("sweep lease held elsewhere, skipping")
			return nil
		}
		defer func() {
			_ = s.locker.Release(context.WithoutCancel(ctx), s.cfg.LockKey, token)
		}()
	}

	start := time.Now()
	month := period.FromTime(s.clock.Now())
	schedMetrics := obsmetrics.Scheduler()

	orgs, err := s.listOrgs(ctx)
	if err != nil {
		schedMetrics.IncSweepError(obsmetrics.ClassifySweepError(err))
		return err
	}

	var sweepErr error
	for _, orgID := range orgs {
		for _, department := range []rulesetdomain.Department{rulesetdomain.DepartmentSales, rulesetdomain.DepartmentDispatch} {
			if ctx.Err() != nil {
				sweepErr = errors.Join(sweepErr, ctx.Err())
				schedMetrics.IncSweepError(obsmetrics.ClassifySweepError(ctx.Err()))
				break
			}
			if err := s.sweepCohort(ctx, orgID, department, month, schedMetrics); err != nil {
				sweepErr = errors.Join(sweepErr, err)
			}
		}
	}

	schedMetrics.ObserveSweepDuration(time.Since(start).Seconds())
	return sweepErr
}

func (s *Scheduler) sweepCohort(ctx context.Context, orgID snowflake.ID, department rulesetdomain.Department, month period.Month, schedMetrics *obsmetrics.SchedulerMetrics) error {
	members, err := s.memberRepo.ListCohort(ctx, s.db, orgID, department)
	if err != nil {
		schedMetrics.IncSweepError(obsmetrics.ClassifySweepError(err))
		return err
	}
	if len(members) == 0 {
		return nil
	}
	schedMetrics.IncSweep(string(department))

	var cohortErr error
	swept := 0
	for _, member := range members {
		if ctx.Err() != nil {
			cohortErr = errors.Join(cohortErr, ctx.Err())
			schedMetrics.IncSweepError(obsmetrics.ClassifySweepError(ctx.Err()))
			break
		}
		if _, err := s.commissionSvc.ComputeMonthlyCommission(ctx, member.ID.String(), month.String()); err != nil {
			// A department without a rule set simply has nothing to sweep;
			// real failures are counted and surfaced.
			if errors.Is(err, rulesetdomain.ErrRuleSetNotFound) {
				break
			}
			cohortErr = errors.Join(cohortErr, err)
			schedMetrics.IncSweepError(obsmetrics.ClassifySweepError(err))
			s.log.Warn("sweep recompute failed",
				zap.String("org_id", orgID.String()),
				zap.String("department", string(department)),
				zap.String("user_id", member.ID.String()),
				zap.Error(err),
			)
			continue
		}
		swept++
	}
	schedMetrics.AddMembersSwept(swept)
	return cohortErr
}

func (s *Scheduler) listOrgs(ctx context.Context) ([]snowflake.ID, error) {
	var orgs []snowflake.ID
	err := s.db.WithContext(ctx).
		Raw(`SELECT DISTINCT org_id FROM members WHERE active = ?`, true).
		Scan(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

// RunForever sweeps on a fixed interval until the context is canceled.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler sweep failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
