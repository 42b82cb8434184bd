package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	memberdomain "github.com/dispatchly/commission/internal/member/domain"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"github.com/dispatchly/commission/pkg/repository"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() memberdomain.Repository {
	return &repo{}
}

func (r *repo) store(db *gorm.DB) repository.Repository[memberdomain.Member] {
	return repository.ProvideStore[memberdomain.Member](db)
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*memberdomain.Member, error) {
	return r.store(db).FindOne(ctx, &memberdomain.Member{ID: id})
}

func (r *repo) ListCohort(ctx context.Context, db *gorm.DB, orgID snowflake.ID, department rulesetdomain.Department) ([]memberdomain.Member, error) {
	// Struct conditions skip zero values, so an empty department widens the
	// cohort to the whole organization.
	query := &memberdomain.Member{OrgID: orgID, Department: department, Active: true}
	rows, err := r.store(db).Find(ctx, query, repository.WithOrder("id ASC"))
	if err != nil {
		return nil, err
	}
	members := make([]memberdomain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, *row)
	}
	return members, nil
}
