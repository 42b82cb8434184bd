// Package seed bootstraps a fresh installation: the default organization,
// an admin member, and the stock sales and dispatch commission tiers so the
// engine computes something meaningful before anyone configures it.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	memberdomain "github.com/dispatchly/commission/internal/member/domain"
	organizationdomain "github.com/dispatchly/commission/internal/organization/domain"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	pkgdb "github.com/dispatchly/commission/pkg/db"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultOrgName       = "Main"
	defaultAdminEmail    = "admin@dispatchly.io"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "Dispatchly Admin"
)

// EnsureMainOrg seeds the default organization for startup bootstrap.
func EnsureMainOrg(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := ensureMainOrgTx(ctx, tx, node)
		if err != nil {
			return err
		}
		return ensureDefaultTiers(ctx, tx, node, org.ID)
	})
}

// EnsureMainOrgWithID seeds the default organization under a fixed ID, for
// deployments that pin the tenant identifier through configuration.
func EnsureMainOrgWithID(db *gorm.DB, orgID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var org organizationdomain.Organization
		err := tx.WithContext(ctx).Where("id = ?", orgID).First(&org).Error
		if err == nil {
			return ensureDefaultTiers(ctx, tx, node, org.ID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		now := time.Now().UTC()
		org = organizationdomain.Organization{
			ID:        snowflake.ID(orgID),
			Name:      defaultOrgName,
			Slug:      slug.Make(defaultOrgName),
			IsDefault: true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
			return err
		}
		return ensureDefaultTiers(ctx, tx, node, org.ID)
	})
	if err != nil && pkgdb.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}

// EnsureMainOrgAndAdmin seeds the default organization and admin member.
func EnsureMainOrgAndAdmin(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := ensureMainOrgTx(ctx, tx, node)
		if err != nil {
			return err
		}

		var member memberdomain.Member
		err = tx.WithContext(ctx).
			Where("email = ?", strings.ToLower(defaultAdminEmail)).
			First(&member).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			member = memberdomain.Member{
				ID:           node.Generate(),
				OrgID:        org.ID,
				Email:        strings.ToLower(defaultAdminEmail),
				DisplayName:  defaultAdminDisplay,
				Department:   rulesetdomain.DepartmentSales,
				PasswordHash: string(hashed),
				Active:       true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.WithContext(ctx).Create(&member).Error; err != nil {
				return err
			}
		}

		return ensureDefaultTiers(ctx, tx, node, org.ID)
	})
	// Two replicas racing through a fresh bootstrap can both miss the
	// existence check; the loser's unique violation means the work is done.
	if err != nil && pkgdb.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}

func ensureMainOrgTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (organizationdomain.Organization, error) {
	orgSlug := slug.Make(defaultOrgName)
	var org organizationdomain.Organization
	err := tx.WithContext(ctx).Where("slug = ?", orgSlug).First(&org).Error
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return org, err
	}
	now := time.Now().UTC()
	org = organizationdomain.Organization{
		ID:        node.Generate(),
		Name:      defaultOrgName,
		Slug:      orgSlug,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
		return org, err
	}
	return org, nil
}

// ensureDefaultTiers installs the stock rule sets: the sales staircase with
// its below-floor penalty, and the dispatch revenue ranges.
func ensureDefaultTiers(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&rulesetdomain.CommissionTier{}).
		Where("org_id = ?", orgID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	flat := func(cents int64) *int64 { return &cents }
	pct := func(p float64) *float64 { return &p }
	bound := func(max float64) *float64 { return &max }

	tiers := []rulesetdomain.CommissionTier{
		{Department: rulesetdomain.DepartmentSales, Position: 0, MinMetric: 0, Percent: pct(-25)},
		{Department: rulesetdomain.DepartmentSales, Position: 1, MinMetric: 2, FlatAmountCents: flat(500000)},
		{Department: rulesetdomain.DepartmentSales, Position: 2, MinMetric: 5, FlatAmountCents: flat(2150000)},

		{Department: rulesetdomain.DepartmentDispatch, Position: 0, MinMetric: 651, MaxMetric: bound(850), Percent: pct(2.5)},
		{Department: rulesetdomain.DepartmentDispatch, Position: 1, MinMetric: 851, MaxMetric: bound(3700), Percent: pct(9)},
		{Department: rulesetdomain.DepartmentDispatch, Position: 2, MinMetric: 3701, Percent: pct(15)},
	}

	now := time.Now().UTC()
	for i := range tiers {
		tiers[i].ID = node.Generate()
		tiers[i].OrgID = orgID
		tiers[i].CreatedAt = now
		tiers[i].UpdatedAt = now
		if err := tx.WithContext(ctx).Create(&tiers[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
