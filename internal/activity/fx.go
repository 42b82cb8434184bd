package activity

import (
	"github.com/dispatchly/commission/internal/activity/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("activity.repository",
	fx.Provide(repository.Provide),
)
