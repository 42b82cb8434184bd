package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	activitydomain "github.com/dispatchly/commission/internal/activity/domain"
	activityrepo "github.com/dispatchly/commission/internal/activity/repository"
	"github.com/dispatchly/commission/internal/clock"
	commissiondomain "github.com/dispatchly/commission/internal/commission/domain"
	commissionrepo "github.com/dispatchly/commission/internal/commission/repository"
	commissionservice "github.com/dispatchly/commission/internal/commission/service"
	"github.com/dispatchly/commission/internal/config"
	memberdomain "github.com/dispatchly/commission/internal/member/domain"
	memberrepo "github.com/dispatchly/commission/internal/member/repository"
	"github.com/dispatchly/commission/internal/observability"
	rankingdomain "github.com/dispatchly/commission/internal/ranking/domain"
	rankingrepo "github.com/dispatchly/commission/internal/ranking/repository"
	rankingservice "github.com/dispatchly/commission/internal/ranking/service"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	rulesetrepo "github.com/dispatchly/commission/internal/ruleset/repository"
	rulesetservice "github.com/dispatchly/commission/internal/ruleset/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serverFixture struct {
	server *Server
	db     *gorm.DB
	node   *snowflake.Node
	orgID  snowflake.ID
}

func setupServerTest(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&memberdomain.Member{},
		&rulesetdomain.CommissionTier{},
		&activitydomain.LeadActivity{},
		&activitydomain.DispatchLoad{},
		&activitydomain.CommissionBonus{},
		&commissiondomain.MonthlyCommissionRecord{},
		&rankingdomain.DepartmentTarget{},
	))

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	ruleSetSvc := rulesetservice.New(rulesetservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  rulesetrepo.Provide(),
	})
	commissionSvc := commissionservice.New(commissionservice.Params{
		DB:           db,
		Log:          log,
		GenID:        node,
		Clock:        clk,
		MemberRepo:   memberrepo.Provide(),
		RuleSetRepo:  rulesetrepo.Provide(),
		ActivityRepo: activityrepo.Provide(),
		SnapshotRepo: commissionrepo.Provide(),
	})
	rankingSvc := rankingservice.New(rankingservice.Params{
		DB:           db,
		Log:          log,
		Clock:        clk,
		MemberRepo:   memberrepo.Provide(),
		SnapshotRepo: commissionrepo.Provide(),
		TargetRepo:   rankingrepo.Provide(),
	})

	srv := NewServer(ServerParams{
		Gin:           NewEngine(observability.Config{}),
		Cfg:           config.Config{},
		DB:            db,
		GenID:         node,
		RuleSetSvc:    ruleSetSvc,
		CommissionSvc: commissionSvc,
		RankingSvc:    rankingSvc,
		TargetRepo:    rankingrepo.Provide(),
	})

	return &serverFixture{server: srv, db: db, node: node, orgID: node.Generate()}
}

func (f *serverFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Org-Id", f.orgID.String())
	rec := httptest.NewRecorder()
	f.server.Engine().ServeHTTP(rec, req)
	return rec
}

func TestServer_RuleSetLifecycle(t *testing.T) {
	f := setupServerTest(t)

	rec := f.do(t, http.MethodPost, "/api/rulesets", gin.H{
		"department":        "sales",
		"min_metric":        2,
		"flat_amount_cents": 500000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		Data rulesetdomain.Response `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	rec = f.do(t, http.MethodGet, "/api/rulesets?department=sales", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/rulesets/"+created.Data.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/rulesets/"+created.Data.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/rulesets/"+created.Data.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CreateRuleSetTier_InvalidDepartment(t *testing.T) {
	f := setupServerTest(t)

	rec := f.do(t, http.MethodPost, "/api/rulesets", gin.H{
		"department": "finance",
		"min_metric": 0,
		"percent":    5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ComputeCommission(t *testing.T) {
	f := setupServerTest(t)

	flatCents := int64(500000)
	require.NoError(t, f.db.Create(&rulesetdomain.CommissionTier{
		ID:              f.node.Generate(),
		OrgID:           f.orgID,
		Department:      rulesetdomain.DepartmentSales,
		MinMetric:       0,
		FlatAmountCents: &flatCents,
	}).Error)

	userID := f.node.Generate()
	require.NoError(t, f.db.Create(&memberdomain.Member{
		ID:          userID,
		OrgID:       f.orgID,
		Email:       "rep@example.test",
		DisplayName: "Rep",
		Department:  rulesetdomain.DepartmentSales,
		Active:      true,
	}).Error)

	rec := f.do(t, http.MethodPost, "/api/commissions/compute", gin.H{
		"user_id": userID.String(),
		"month":   "2026-03",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data commissiondomain.Response `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(500000), resp.Data.TotalCommissionCents)
}

func TestServer_ComputeCommission_MissingRuleSet(t *testing.T) {
	f := setupServerTest(t)

	userID := f.node.Generate()
	require.NoError(t, f.db.Create(&memberdomain.Member{
		ID:          userID,
		OrgID:       f.orgID,
		Email:       "rep@example.test",
		DisplayName: "Rep",
		Department:  rulesetdomain.DepartmentSales,
		Active:      true,
	}).Error)

	rec := f.do(t, http.MethodPost, "/api/commissions/compute", gin.H{
		"user_id": userID.String(),
		"month":   "2026-03",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "configuration_error")
}

func TestServer_Rankings(t *testing.T) {
	f := setupServerTest(t)

	userID := f.node.Generate()
	require.NoError(t, f.db.Create(&memberdomain.Member{
		ID:          userID,
		OrgID:       f.orgID,
		Email:       "rep@example.test",
		DisplayName: "Rep",
		Department:  rulesetdomain.DepartmentSales,
		Active:      true,
	}).Error)
	require.NoError(t, f.db.Create(&commissiondomain.MonthlyCommissionRecord{
		ID:                   f.node.Generate(),
		OrgID:                f.orgID,
		UserID:               userID,
		Month:                "2026-03",
		Department:           rulesetdomain.DepartmentSales,
		TotalCommissionCents: 100000,
	}).Error)

	rec := f.do(t, http.MethodGet, "/api/rankings?month=2026-03&department=sales", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data []rankingdomain.RankedEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.Data[0].Rank)

	rec = f.do(t, http.MethodGet, "/api/users/"+userID.String()+"/metrics?month=2026-03", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/rankings?month=March", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_UpsertTarget(t *testing.T) {
	f := setupServerTest(t)

	rec := f.do(t, http.MethodPut, "/api/targets", gin.H{
		"department":   "sales",
		"month":        "2026-03",
		"target_cents": 400000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var count int64
	require.NoError(t, f.db.Model(&rankingdomain.DepartmentTarget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Replaying the same (org, department, month) replaces, never duplicates.
	rec = f.do(t, http.MethodPut, "/api/targets", gin.H{
		"department":   "sales",
		"month":        "2026-03",
		"target_cents": 500000,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, f.db.Model(&rankingdomain.DepartmentTarget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
