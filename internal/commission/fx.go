package commission

import (
	"github.com/dispatchly/commission/internal/commission/repository"
	"github.com/dispatchly/commission/internal/commission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("commission.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
