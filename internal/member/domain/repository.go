package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"gorm.io/gorm"
)

var ErrMemberNotFound = errors.New("member_not_found")

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Member, error)

	// ListCohort returns the active members of one (org, department): the
	// cohort compared together in a ranking pass.
	ListCohort(ctx context.Context, db *gorm.DB, orgID snowflake.ID, department rulesetdomain.Department) ([]Member, error)
}
