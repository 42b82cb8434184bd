package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	commissiondomain "github.com/dispatchly/commission/internal/commission/domain"
	memberdomain "github.com/dispatchly/commission/internal/member/domain"
	rankingdomain "github.com/dispatchly/commission/internal/ranking/domain"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	// A missing rule set is an operator configuration problem, not a bad
	// request and not a server fault.
	case errors.Is(err, rulesetdomain.ErrRuleSetNotFound):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "configuration_error",
			Message: "no commission rule set configured for this department",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isRuleSetValidationError(err),
		isCommissionValidationError(err),
		isRankingValidationError(err):
		return true
	default:
		return false
	}
}

func isRuleSetValidationError(err error) bool {
	switch err {
	case rulesetdomain.ErrInvalidOrganization,
		rulesetdomain.ErrInvalidDepartment,
		rulesetdomain.ErrInvalidBand,
		rulesetdomain.ErrOverlappingBand,
		rulesetdomain.ErrInvalidReward,
		rulesetdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

func isCommissionValidationError(err error) bool {
	switch err {
	case commissiondomain.ErrInvalidUser,
		commissiondomain.ErrInvalidMonth:
		return true
	default:
		return false
	}
}

func isRankingValidationError(err error) bool {
	switch err {
	case rankingdomain.ErrInvalidOrg,
		rankingdomain.ErrInvalidUser,
		rankingdomain.ErrInvalidMonth,
		rankingdomain.ErrInvalidDepartment:
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, rulesetdomain.ErrNotFound),
		errors.Is(err, commissiondomain.ErrUserNotFound),
		errors.Is(err, memberdomain.ErrMemberNotFound),
		errors.Is(err, rankingdomain.ErrUserNotFound),
		errors.Is(err, rankingdomain.ErrSnapshotNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if code == "invalid_request" {
		return "request"
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}
