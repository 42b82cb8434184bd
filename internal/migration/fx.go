package migration

import (
	activitydomain "github.com/dispatchly/commission/internal/activity/domain"
	commissiondomain "github.com/dispatchly/commission/internal/commission/domain"
	"github.com/dispatchly/commission/internal/config"
	memberdomain "github.com/dispatchly/commission/internal/member/domain"
	organizationdomain "github.com/dispatchly/commission/internal/organization/domain"
	rankingdomain "github.com/dispatchly/commission/internal/ranking/domain"
	rulesetdomain "github.com/dispatchly/commission/internal/ruleset/domain"
	"github.com/dispatchly/commission/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql development setups derive the schema from
			// the models instead of the postgres migration files.
			if err := conn.AutoMigrate(
				&organizationdomain.Organization{},
				&memberdomain.Member{},
				&rulesetdomain.CommissionTier{},
				&activitydomain.LeadActivity{},
				&activitydomain.DispatchLoad{},
				&activitydomain.CommissionBonus{},
				&commissiondomain.MonthlyCommissionRecord{},
				&rankingdomain.DepartmentTarget{},
			); err != nil {
				return err
			}
		}

		if cfg.DefaultOrgID != 0 {
			if err := seed.EnsureMainOrgWithID(conn, cfg.DefaultOrgID); err != nil {
				return err
			}
		}
		return seed.EnsureMainOrgAndAdmin(conn)
	}),
)
