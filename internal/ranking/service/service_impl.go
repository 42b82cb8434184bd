package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dispatchly/commission/internal/cache"
	"github.com/dispatchly/commission/internal/clock"
	commissiondomain "github.com/dispatchly/commission/internal/commission/domain"
	memberdomain "github.com/dispatchly/commission/internal/member/domain"
	obsmetrics "github.com/dispatchly/commission/internal/observability/metrics"
	"github.com/dispatchly/commission/internal/period"
	rankingdomain "github.com/dispatchly/commission/internal/ranking/domain"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Leaderboards are point-in-time reads; a short cache window keeps repeated
// dashboard hits off the database without anyone noticing staleness.
const leaderboardTTL = 30 * time.Second

type leaderboardKey struct {
	OrgID      snowflake.ID
	Month      period.Month
	Department rulesetdomain.Department
}

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	MemberRepo   memberdomain.Repository
	SnapshotRepo commissiondomain.Repository
	TargetRepo   rankingdomain.Repository
	Metrics      *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	memberRepo   memberdomain.Repository
	snapshotRepo commissiondomain.Repository
	targetRepo   rankingdomain.Repository
	metrics      *obsmetrics.Metrics
	boards       *cache.TTLCache[leaderboardKey, []rankingdomain.RankedEntry]
}

func New(p Params) rankingdomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("ranking.service"),
		memberRepo:   p.MemberRepo,
		snapshotRepo: p.SnapshotRepo,
		targetRepo:   p.TargetRepo,
		metrics:      p.Metrics,
		boards:       cache.NewTTLCache[leaderboardKey, []rankingdomain.RankedEntry](leaderboardTTL, p.Clock),
	}
}

func (s *Service) RankCohort(ctx context.Context, orgID, month, department string, limit int) ([]rankingdomain.RankedEntry, error) {
	org, err := snowflake.ParseString(strings.TrimSpace(orgID))
	if err != nil {
		return nil, rankingdomain.ErrInvalidOrg
	}
	monthKey, err := period.Parse(strings.TrimSpace(month))
	if err != nil {
		return nil, rankingdomain.ErrInvalidMonth
	}
	dept := rulesetdomain.Department(strings.ToLower(strings.TrimSpace(department)))
	if dept != "" && !dept.Valid() {
		return nil, rankingdomain.ErrInvalidDepartment
	}

	entries, err := s.leaderboard(ctx, org, monthKey, dept)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordRanking(ctx, string(dept))

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Service) GetUserMetrics(ctx context.Context, userID, month string) (*rankingdomain.UserMetrics, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil {
		return nil, rankingdomain.ErrInvalidUser
	}
	monthKey, err := period.Parse(strings.TrimSpace(month))
	if err != nil {
		return nil, rankingdomain.ErrInvalidMonth
	}

	member, err := s.memberRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, rankingdomain.ErrUserNotFound
	}

	record, err := s.snapshotRepo.FindByUserMonth(ctx, s.db, id, monthKey)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, rankingdomain.ErrSnapshotNotFound
	}

	entries, err := s.leaderboard(ctx, member.OrgID, monthKey, member.Department)
	if err != nil {
		return nil, err
	}

	var entry *rankingdomain.RankedEntry
	for i := range entries {
		if entries[i].UserID == id.String() {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		// The snapshot was committed after the cached board was built.
		s.boards.Invalidate(leaderboardKey{OrgID: member.OrgID, Month: monthKey, Department: member.Department})
		entries, err = s.leaderboard(ctx, member.OrgID, monthKey, member.Department)
		if err != nil {
			return nil, err
		}
		for i := range entries {
			if entries[i].UserID == id.String() {
				entry = &entries[i]
				break
			}
		}
	}
	if entry == nil {
		return nil, rankingdomain.ErrSnapshotNotFound
	}

	bonuses := make(map[string]int64, len(record.Bonuses))
	for code := range record.Bonuses {
		bonuses[code] = record.BonusCents(code)
	}

	return &rankingdomain.UserMetrics{
		UserID:               id.String(),
		OrganizationID:       record.OrgID.String(),
		Department:           string(record.Department),
		Month:                record.Month,
		MetricValue:          record.MetricValue,
		BaseCommissionCents:  record.BaseCommissionCents,
		Bonuses:              bonuses,
		TotalCommissionCents: record.TotalCommissionCents,
		GrowthPercent:        entry.GrowthPercent,
		Rank:                 entry.Rank,
		TargetPercent:        entry.TargetPercent,
		GrowthStreak:         entry.GrowthStreak,
		Badges:               entry.Badges,
	}, nil
}

func (s *Service) leaderboard(ctx context.Context, orgID snowflake.ID, month period.Month, department rulesetdomain.Department) ([]rankingdomain.RankedEntry, error) {
	key := leaderboardKey{OrgID: orgID, Month: month, Department: department}
	if cached, ok := s.boards.Get(key); ok {
		return cached, nil
	}

	entries, err := s.buildLeaderboard(ctx, orgID, month, department)
	if err != nil {
		return nil, err
	}
	s.boards.Set(key, entries)
	return entries, nil
}

// cohortStats carries the per-department inputs of target attainment.
type cohortStats struct {
	names        map[snowflake.ID]string
	indivTargetC float64
}

func (s *Service) buildLeaderboard(ctx context.Context, orgID snowflake.ID, month period.Month, department rulesetdomain.Department) ([]rankingdomain.RankedEntry, error) {
	records, err := s.snapshotRepo.ListByOrgMonth(ctx, s.db, orgID, month, department)
	if err != nil {
		return nil, err
	}

	// Snapshots arrive ordered by user ID; the stable sort on total keeps
	// that order inside ties, which is the documented tie-break.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].TotalCommissionCents > records[j].TotalCommissionCents
	})

	previous, err := s.snapshotRepo.ListByOrgMonth(ctx, s.db, orgID, month.Prev(), department)
	if err != nil {
		return nil, err
	}
	prevTotals := make(map[snowflake.ID]int64, len(previous))
	for _, rec := range previous {
		prevTotals[rec.UserID] = rec.TotalCommissionCents
	}

	stats := make(map[rulesetdomain.Department]*cohortStats)
	entries := make([]rankingdomain.RankedEntry, 0, len(records))
	rank := 0
	var prevTotal int64
	for i, rec := range records {
		if i == 0 || rec.TotalCommissionCents < prevTotal {
			// Dense ranking: ties share a rank and the next distinct total
			// takes the immediately following one.
			rank++
		}
		prevTotal = rec.TotalCommissionCents

		st, err := s.cohortStats(ctx, stats, orgID, rec.Department, month)
		if err != nil {
			return nil, err
		}

		targetPercent := int64(0)
		if st.indivTargetC > 0 {
			targetPercent = roundHalfAway(float64(rec.TotalCommissionCents) / st.indivTargetC * 100)
			if targetPercent > 100 {
				targetPercent = 100
			}
		}

		prev, hasPrev := prevTotals[rec.UserID]
		growth := growthPercent(rec.TotalCommissionCents, prev, hasPrev)

		streak, err := consecutiveGrowthStreak(ctx, s.db, s.snapshotRepo, rec.UserID, month, rec.TotalCommissionCents)
		if err != nil {
			return nil, err
		}

		entries = append(entries, rankingdomain.RankedEntry{
			Rank:                 rank,
			UserID:               rec.UserID.String(),
			DisplayName:          st.names[rec.UserID],
			Department:           string(rec.Department),
			Month:                rec.Month,
			MetricValue:          rec.MetricValue,
			TotalCommissionCents: rec.TotalCommissionCents,
			GrowthPercent:        growth,
			TargetPercent:        targetPercent,
			GrowthStreak:         streak,
			Badges:               classifyBadges(rank, targetPercent, streak),
		})
	}

	s.log.Debug("built leaderboard",
		zap.String("org_id", orgID.String()),
		zap.String("month", month.String()),
		zap.String("department", string(department)),
		zap.Int("entries", len(entries)),
	)

	return entries, nil
}

func (s *Service) cohortStats(ctx context.Context, cached map[rulesetdomain.Department]*cohortStats, orgID snowflake.ID, department rulesetdomain.Department, month period.Month) (*cohortStats, error) {
	if st, ok := cached[department]; ok {
		return st, nil
	}

	members, err := s.memberRepo.ListCohort(ctx, s.db, orgID, department)
	if err != nil {
		return nil, err
	}
	names := make(map[snowflake.ID]string, len(members))
	for _, m := range members {
		names[m.ID] = m.DisplayName
	}

	target, err := s.targetRepo.FindTarget(ctx, s.db, orgID, department, month)
	if err != nil {
		return nil, err
	}

	st := &cohortStats{names: names}
	// No target, a zero target, or an empty cohort all yield 0% attainment
	// rather than a division error.
	if target != nil && target.TargetCents > 0 && len(members) > 0 {
		st.indivTargetC = float64(target.TargetCents) / float64(len(members))
	}
	cached[department] = st
	return st, nil
}
