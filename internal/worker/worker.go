package worker

import (
	"context"
	"log"
	"time"

	"github.com/VivanRajath/Neusearch/internal/broker"
	"github.com/VivanRajath/Neusearch/internal/catalog"
	"github.com/VivanRajath/Neusearch/internal/session"
)

// CatalogRefresher reloads the catalog snapshot on a fixed interval so the
// served views do not drift too far from the upstream catalog.
type CatalogRefresher struct {
	engine    *catalog.Engine
	publisher *broker.EventPublisher
	interval  time.Duration
	done      chan struct{}
}

// NewCatalogRefresher creates a new catalog refresher
func NewCatalogRefresher(engine *catalog.Engine, publisher *broker.EventPublisher, interval time.Duration) *CatalogRefresher {
	return &CatalogRefresher{
		engine:    engine,
		publisher: publisher,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

// Start runs the refresh loop until the context is cancelled or Stop is called
func (w *CatalogRefresher) Start(ctx context.Context) error {
	log.Printf("Starting catalog refresher: interval=%s", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			if err := w.engine.Reload(ctx); err != nil {
				log.Printf("Scheduled catalog reload failed: %v", err)
				continue
			}
			if err := w.publisher.PublishCatalogReloaded(ctx, len(w.engine.Snapshot()), w.engine.Generation()); err != nil {
				log.Printf("Failed to publish CatalogReloaded event: %v", err)
			}
		}
	}
}

// Stop stops the refresher
func (w *CatalogRefresher) Stop() {
	log.Println("Stopping catalog refresher...")
	close(w.done)
}

// SessionSweeper drops idle sessions on a fixed interval.
type SessionSweeper struct {
	sessions *session.Manager
	interval time.Duration
	done     chan struct{}
}

// NewSessionSweeper creates a new session sweeper
func NewSessionSweeper(sessions *session.Manager, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop until the context is cancelled or Stop is called
func (w *SessionSweeper) Start(ctx context.Context) error {
	log.Printf("Starting session sweeper: interval=%s", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			w.sessions.SweepExpired()
		}
	}
}

// Stop stops the sweeper
func (w *SessionSweeper) Stop() {
	log.Println("Stopping session sweeper...")
	close(w.done)
}
