package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	activitydomain "github.com/dispatchly/commission/internal/activity/domain"
	activityrepo "github.com/dispatchly/commission/internal/activity/repository"
	"github.com/dispatchly/commission/internal/clock"
	commissiondomain "github.com/dispatchly/commission/internal/commission/domain"
	commissionrepo "github.com/dispatchly/commission/internal/commission/repository"
	commissionservice "github.com/dispatchly/commission/internal/commission/service"
	memberdomain "github.com/dispatchly/commission/internal/member/domain"
	memberrepo "github.com/dispatchly/commission/internal/member/repository"
	"github.com/dispatchly/commission/internal/period"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	rulesetrepo "github.com/dispatchly/commission/internal/ruleset/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func flat(cents int64) *int64 { return &cents }

func setupSweepTest(t *testing.T) (*gorm.DB, *Scheduler, *clock.FakeClock, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&memberdomain.Member{},
		&rulesetdomain.CommissionTier{},
		&activitydomain.LeadActivity{},
		&activitydomain.DispatchLoad{},
		&activitydomain.CommissionBonus{},
		&commissiondomain.MonthlyCommissionRecord{},
	))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))

	commissionSvc := commissionservice.New(commissionservice.Params{
		DB:           db,
		Log:          zap.NewNop(),
		GenID:        node,
		Clock:        fakeClock,
		MemberRepo:   memberrepo.Provide(),
		RuleSetRepo:  rulesetrepo.Provide(),
		ActivityRepo: activityrepo.Provide(),
		SnapshotRepo: commissionrepo.Provide(),
	})

	sched, err := New(Params{
		DB:            db,
		Log:           zap.NewNop(),
		Clock:         fakeClock,
		CommissionSvc: commissionSvc,
		MemberRepo:    memberrepo.Provide(),
	})
	require.NoError(t, err)

	return db, sched, fakeClock, node
}

func TestScheduler_RunOnce_SweepsCurrentMonth(t *testing.T) {
	db, sched, fakeClock, node := setupSweepTest(t)
	orgID := node.Generate()

	require.NoError(t, db.Create(&rulesetdomain.CommissionTier{
		ID:              node.Generate(),
		OrgID:           orgID,
		Department:      rulesetdomain.DepartmentSales,
		MinMetric:       0,
		FlatAmountCents: flat(100000),
	}).Error)

	userID := node.Generate()
	require.NoError(t, db.Create(&memberdomain.Member{
		ID:          userID,
		OrgID:       orgID,
		Email:       "rep@example.test",
		DisplayName: "Rep",
		Department:  rulesetdomain.DepartmentSales,
		Active:      true,
	}).Error)

	require.NoError(t, sched.RunOnce(context.Background()))

	var record commissiondomain.MonthlyCommissionRecord
	require.NoError(t, db.Where("user_id = ?", userID).First(&record).Error)
	assert.Equal(t, period.Month("2026-03"), record.Month)
	assert.Equal(t, int64(100000), record.TotalCommissionCents)

	// Crossing a month boundary starts a fresh snapshot instead of
	// touching March's.
	fakeClock.Advance(20 * 24 * time.Hour)
	require.NoError(t, sched.RunOnce(context.Background()))

	var count int64
	require.NoError(t, db.Model(&commissiondomain.MonthlyCommissionRecord{}).
		Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	var april commissiondomain.MonthlyCommissionRecord
	require.NoError(t, db.Where("user_id = ? AND month = ?", userID, "2026-04").First(&april).Error)
	assert.Equal(t, int64(100000), april.TotalCommissionCents)
}

func TestScheduler_RunOnce_SkipsCohortWithoutRuleSet(t *testing.T) {
	db, sched, _, node := setupSweepTest(t)
	orgID := node.Generate()

	require.NoError(t, db.Create(&memberdomain.Member{
		ID:          node.Generate(),
		OrgID:       orgID,
		Email:       "dispatcher@example.test",
		DisplayName: "Dispatcher",
		Department:  rulesetdomain.DepartmentDispatch,
		Active:      true,
	}).Error)

	// No tiers configured anywhere: the sweep has nothing to do and must
	// not report an error.
	require.NoError(t, sched.RunOnce(context.Background()))

	var count int64
	require.NoError(t, db.Model(&commissiondomain.MonthlyCommissionRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestScheduler_New_RequiresDependencies(t *testing.T) {
	_, err := New(Params{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, 5*time.Minute, cfg.RunInterval)
	assert.Equal(t, 2*time.Minute, cfg.SweepTimeout)
	assert.NotEmpty(t, cfg.LockKey)

	custom := Config{RunInterval: time.Second}.withDefaults()
	assert.Equal(t, time.Second, custom.RunInterval)
}
