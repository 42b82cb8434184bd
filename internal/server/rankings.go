package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/dispatchly/commission/internal/period"
	rankingdomain "github.com/dispatchly/commission/internal/ranking/domain"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
)

func (s *Server) RankCohort(c *gin.Context) {
	orgID, ok := s.orgIDFromRequest(c)
	if !ok {
		AbortWithError(c, rankingdomain.ErrInvalidOrg)
		return
	}

	month := strings.TrimSpace(c.Query("month"))
	department := strings.TrimSpace(c.Query("department"))

	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid value"))
			return
		}
		limit = parsed
	}

	entries, err := s.rankingSvc.RankCohort(c.Request.Context(), orgID.String(), month, department, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (s *Server) GetUserMetrics(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))
	month := strings.TrimSpace(c.Query("month"))

	metrics, err := s.rankingSvc.GetUserMetrics(c.Request.Context(), userID, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": metrics})
}

type upsertTargetRequest struct {
	Department  string `json:"department"`
	Month       string `json:"month"`
	TargetCents int64  `json:"target_cents"`
}

func (s *Server) UpsertDepartmentTarget(c *gin.Context) {
	orgID, ok := s.orgIDFromRequest(c)
	if !ok {
		AbortWithError(c, rankingdomain.ErrInvalidOrg)
		return
	}

	var req upsertTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	department := rulesetdomain.Department(strings.ToLower(strings.TrimSpace(req.Department)))
	if !department.Valid() {
		AbortWithError(c, rankingdomain.ErrInvalidDepartment)
		return
	}
	monthKey, err := period.Parse(strings.TrimSpace(req.Month))
	if err != nil {
		AbortWithError(c, rankingdomain.ErrInvalidMonth)
		return
	}
	if req.TargetCents < 0 {
		AbortWithError(c, newValidationError("target_cents", "invalid_target", "invalid value"))
		return
	}

	now := time.Now().UTC()
	target := &rankingdomain.DepartmentTarget{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Department:  department,
		Month:       monthKey,
		TargetCents: req.TargetCents,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.targetRepo.UpsertTarget(c.Request.Context(), s.db, target); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"organization_id": orgID.String(),
		"department":      string(department),
		"month":           monthKey,
		"target_cents":    req.TargetCents,
	}})
}
