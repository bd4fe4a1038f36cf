package youtube

import (
	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/requester"
	"go.uber.org/fx"
)

func newClient(cfg *config.Config, user *requester.BearerAuth) *Client {
	return NewClient(&cfg.YouTube, user)
}

var Module = fx.Module("youtube",
	fx.Provide(newClient),
)
