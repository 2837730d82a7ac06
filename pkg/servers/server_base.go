package servers

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"culture-events/pkg/resources"
)

// baseServer does no work of its own. It keeps the application alive and releases the
// shared resources (database pool, telemetry) once the application stops.
type baseServer struct {
	name      string
	done      chan struct{}
	once      sync.Once
	closables []resources.Closable
}

func BuildBaseServer(closables ...resources.Closable) (string, Server) {
	return "base-server", NewBaseServer(closables...)
}

func NewBaseServer(closables ...resources.Closable) Server {
	return &baseServer{
		name:      "base-server",
		done:      make(chan struct{}),
		closables: closables,
	}
}

func (server *baseServer) Run(ctx context.Context) error {
	log.Ctx(ctx).Info().Str("stage", "startup").Str("component", server.name).Int("resources", len(server.closables)).Msg("starting up")

	select {
	case <-server.done:
	case <-ctx.Done():
	}

	return nil
}

// Stop closes the resources in reverse order of registration. It is safe to call twice.
func (server *baseServer) Stop(ctx context.Context) error {
	server.once.Do(func() {
		log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", server.name).Msg("stopping")
		defer log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", server.name).Msg("stopped")

		for i := len(server.closables) - 1; i >= 0; i-- {
			server.closables[i].Close()
		}

		close(server.done)
	})

	return nil
}
