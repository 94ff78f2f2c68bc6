package servers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"pm-backoffice/pkg/resources"
)

// Start runs server in the background. A run error is sent to errChan without blocking; the
// returned StopFn stops the server within its timeout.
func Start(ctx context.Context, name string, server Server, errChan chan<- error) resources.StopFn {
	go func() {
		err := server.Run(ctx)
		if err == nil {
			return
		}

		select {
		case errChan <- err:
		default:
			log.Ctx(ctx).Error().Str("component", name).Err(err).Msg("dropped runtime error")
		}
	}()

	return func(ctx context.Context, timeout time.Duration) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		err := server.Stop(ctx)
		if err != nil {
			log.Ctx(ctx).Error().Str("stage", "shut down").Str("component", name).Err(err).Msg("failed to stop")
		}
	}
}
