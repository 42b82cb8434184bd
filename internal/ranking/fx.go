package ranking

import (
	"github.com/dispatchly/commission/internal/ranking/repository"
	"github.com/dispatchly/commission/internal/ranking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ranking.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
