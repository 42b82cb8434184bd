package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type computeCommissionRequest struct {
	UserID string `json:"user_id"`
	Month  string `json:"month"`
}

func (s *Server) ComputeMonthlyCommission(c *gin.Context) {
	var req computeCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.Month = strings.TrimSpace(req.Month)

	resp, err := s.commissionSvc.ComputeMonthlyCommission(c.Request.Context(), req.UserID, req.Month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
