package engine

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Supervisor starts one goroutine per runner and waits for all of them
type Supervisor struct {
	runners []*Runner
	logger  zerolog.Logger
}

func NewSupervisor(logger zerolog.Logger, runners ...*Runner) *Supervisor {
	return &Supervisor{
		runners: runners,
		logger:  logger.With().Str("component", "supervisor").Logger(),
	}
}

// Run blocks until ctx is cancelled and every loop has returned
func (s *Supervisor) Run(ctx context.Context) error {
	s.logger.Info().Int("symbols", len(s.runners)).Msg("Starting decision loops")

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range s.runners {
		r := r
		g.Go(func() error {
			return r.Run(ctx)
		})
	}

	err := g.Wait()
	s.logger.Info().Msg("All decision loops stopped")
	return err
}
