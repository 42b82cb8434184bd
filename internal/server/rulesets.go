package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
)

func (s *Server) ListRuleSetTiers(c *gin.Context) {
	department := strings.TrimSpace(c.Query("department"))
	resp, err := s.ruleSetSvc.List(c.Request.Context(), department)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRuleSetTierByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.ruleSetSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateRuleSetTier(c *gin.Context) {
	var req rulesetdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req.Department = strings.TrimSpace(req.Department)

	resp, err := s.ruleSetSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteRuleSetTier(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.ruleSetSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
