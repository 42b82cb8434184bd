package ruleset

import (
	"github.com/dispatchly/commission/internal/ruleset/repository"
	"github.com/dispatchly/commission/internal/ruleset/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ruleset.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
