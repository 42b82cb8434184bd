package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dispatchly/commission/internal/config"
	commissiondomain "github.com/dispatchly/commission/internal/commission/domain"
	"github.com/dispatchly/commission/internal/observability"
	obsmiddleware "github.com/dispatchly/commission/internal/observability/logger"
	"github.com/dispatchly/commission/internal/orgcontext"
	rankingdomain "github.com/dispatchly/commission/internal/ranking/domain"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	ruleSetSvc    rulesetdomain.Service
	commissionSvc commissiondomain.Service
	rankingSvc    rankingdomain.Service
	targetRepo    rankingdomain.Repository
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	RuleSetSvc    rulesetdomain.Service
	CommissionSvc commissiondomain.Service
	RankingSvc    rankingdomain.Service
	TargetRepo    rankingdomain.Repository
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		ruleSetSvc:    p.RuleSetSvc,
		commissionSvc: p.CommissionSvc,
		rankingSvc:    p.RankingSvc,
		targetRepo:    p.TargetRepo,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.OrgContext())

	// -------- Rule sets --------
	api.GET("/rulesets", s.ListRuleSetTiers)
	api.POST("/rulesets", s.CreateRuleSetTier)
	api.GET("/rulesets/:id", s.GetRuleSetTierByID)
	api.DELETE("/rulesets/:id", s.DeleteRuleSetTier)

	// -------- Commissions --------
	api.POST("/commissions/compute", s.ComputeMonthlyCommission)

	// -------- Rankings --------
	api.GET("/rankings", s.RankCohort)
	api.GET("/users/:id/metrics", s.GetUserMetrics)
	api.PUT("/targets", s.UpsertDepartmentTarget)
}

// OrgContext resolves the active organization from the X-Org-Id header,
// falling back to the configured default tenant.
func (s *Server) OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("X-Org-Id"))
		var orgID int64
		if header != "" {
			parsed, err := snowflake.ParseString(header)
			if err != nil {
				AbortWithError(c, newValidationError("org_id", "invalid_organization", "invalid value"))
				return
			}
			orgID = int64(parsed)
		} else {
			orgID = s.cfg.DefaultOrgID
		}
		if orgID != 0 {
			ctx := orgcontext.WithOrgID(c.Request.Context(), orgID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func (s *Server) orgIDFromRequest(c *gin.Context) (snowflake.ID, bool) {
	return orgcontext.OrgIDFromContext(c.Request.Context())
}
