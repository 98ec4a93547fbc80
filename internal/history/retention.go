package history

import (
	"context"
	"log"
	"time"

	"github.com/gorhill/cronexpr"

	"github.com/jurema-br/nino/config"
)

// Sweeper prunes turns past their retention age on a cron schedule. The core
// never expires sessions itself; retention belongs to the storage layer.
type Sweeper struct {
	store  Pruner
	expr   *cronexpr.Expression
	maxAge time.Duration
	logger *log.Logger
	stop   chan struct{}
}

// NewSweeper builds a sweeper from retention config. Returns nil when
// retention is disabled or the store cannot prune (Redis ages keys via TTL).
func NewSweeper(store Store, cfg config.RetentionConfig, logger *log.Logger) (*Sweeper, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	pruner, ok := store.(Pruner)
	if !ok {
		return nil, nil
	}
	expr, err := cronexpr.Parse(cfg.Cron)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[RETENTION] ", log.LstdFlags)
	}
	return &Sweeper{
		store:  pruner,
		expr:   expr,
		maxAge: cfg.MaxAge,
		logger: logger,
		stop:   make(chan struct{}),
	}, nil
}

// Start runs the sweep loop in the background until Stop is called.
func (s *Sweeper) Start() {
	go func() {
		for {
			next := s.expr.Next(time.Now())
			if next.IsZero() {
				s.logger.Printf("cron expression yields no next run, stopping sweeper")
				return
			}
			timer := time.NewTimer(time.Until(next))
			select {
			case <-s.stop:
				timer.Stop()
				return
			case <-timer.C:
				s.sweep()
			}
		}
	}()
}

// Stop terminates the sweep loop.
func (s *Sweeper) Stop() {
	close(s.stop)
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	cutoff := time.Now().Add(-s.maxAge)
	pruned, err := s.store.PruneOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Printf("prune failed: %v", err)
		return
	}
	if pruned > 0 {
		s.logger.Printf("pruned %d turns older than %s", pruned, cutoff.Format(time.RFC3339))
	}
}
