package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/dispatchly/commission/internal/activity"
	"github.com/dispatchly/commission/internal/clock"
	"github.com/dispatchly/commission/internal/commission"
	"github.com/dispatchly/commission/internal/config"
	"github.com/dispatchly/commission/internal/logger"
	"github.com/dispatchly/commission/internal/member"
	"github.com/dispatchly/commission/internal/migration"
	"github.com/dispatchly/commission/internal/observability"
	"github.com/dispatchly/commission/internal/ranking"
	"github.com/dispatchly/commission/internal/ruleset"
	"github.com/dispatchly/commission/internal/scheduler"
	"github.com/dispatchly/commission/internal/server"
	"github.com/dispatchly/commission/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Functional domains
		ruleset.Module,
		activity.Module,
		member.Module,
		commission.Module,
		ranking.Module,

		scheduler.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
