package requester

import (
	"github.com/brizzai/tubenotes/internal/auth"
	"go.uber.org/fx"
)

// Module provides the bearer auth backed by the OAuth client
var Module = fx.Module("requester",
	fx.Provide(
		fx.Annotate(
			NewBearerAuth,
			fx.From(new(*auth.Client)),
		),
	),
)
