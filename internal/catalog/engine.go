package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/VivanRajath/Neusearch/internal/models"
	"github.com/VivanRajath/Neusearch/internal/util"

	"go.uber.org/zap"
)

// Source supplies the raw catalog. Implemented by the upstream client and by
// the Redis read-through cache wrapping it.
type Source interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// Engine holds the current Catalog Snapshot and derives filtered, paginated
// views from it. The snapshot is immutable between reloads; View is a pure
// function of (snapshot, filter, page).
type Engine struct {
	source   Source
	pageSize int
	logger   *zap.Logger

	mu         sync.RWMutex
	products   []models.Product
	sources    []string
	loaded     bool
	generation uint64
}

// NewEngine creates a view engine over the given source.
func NewEngine(source Source, pageSize int) *Engine {
	if pageSize <= 0 {
		pageSize = 12
	}
	return &Engine{
		source:   source,
		pageSize: pageSize,
		logger:   util.GetLogger(),
	}
}

// Reload fetches a fresh snapshot, normalizes it and swaps it in. Reloads are
// keyed by a generation token: if a newer reload started while this one was
// in flight, its result is discarded (last response wins). A failed fetch
// degrades to an empty, loaded snapshot rather than leaving the engine in a
// perpetual loading state.
func (e *Engine) Reload(ctx context.Context) error {
	start := time.Now()

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	products, err := e.source.ListProducts(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		e.logger.Debug("Discarding superseded catalog reload", zap.Uint64("generation", gen))
		return nil
	}

	e.loaded = true
	util.CatalogReloadLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		e.products = nil
		e.sources = nil
		util.CatalogReloadsTotal.WithLabelValues("error").Inc()
		util.CatalogProductsLoaded.Set(0)
		e.logger.Error("Catalog reload failed, serving empty snapshot", zap.Error(err))
		return err
	}

	e.products = Normalize(products)
	e.sources = distinctSources(e.products)
	util.CatalogReloadsTotal.WithLabelValues("success").Inc()
	util.CatalogProductsLoaded.Set(float64(len(e.products)))
	e.logger.Info("Catalog snapshot reloaded",
		zap.Int("products", len(e.products)),
		zap.Uint64("generation", gen))
	return nil
}

// View derives the page slice and total page count for (filter, page).
// Unknown filter tags yield an empty result; an empty result still counts as
// one page. Pages outside [1, totalPages] yield an empty item slice.
func (e *Engine) View(filter string, page int) ([]models.Product, int) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	filtered := e.filtered(filter)

	totalPages := (len(filtered) + e.pageSize - 1) / e.pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	offset := (page - 1) * e.pageSize
	if page < 1 || offset >= len(filtered) {
		return nil, totalPages
	}

	end := offset + e.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	items := make([]models.Product, end-offset)
	copy(items, filtered[offset:end])
	return items, totalPages
}

// TotalPages returns the page count for a filter, for page clamping.
func (e *Engine) TotalPages(filter string) int {
	_, totalPages := e.View(filter, 1)
	return totalPages
}

// Lookup finds a product in the current snapshot by id.
func (e *Engine) Lookup(id int64) (*models.Product, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for i := range e.products {
		if e.products[i].ID == id {
			p := e.products[i]
			return &p, true
		}
	}
	return nil, false
}

// Sources returns the distinct source tags of the snapshot, in display order.
func (e *Engine) Sources() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]string, len(e.sources))
	copy(out, e.sources)
	return out
}

// Snapshot returns a copy of the full normalized product list.
func (e *Engine) Snapshot() []models.Product {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]models.Product, len(e.products))
	copy(out, e.products)
	return out
}

// Loaded reports whether at least one reload has completed.
func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

// Generation returns the current snapshot generation.
func (e *Engine) Generation() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generation
}

// PageSize returns the configured page size.
func (e *Engine) PageSize() int {
	return e.pageSize
}

// filtered must be called with the read lock held.
func (e *Engine) filtered(filter string) []models.Product {
	if filter == models.FilterAll {
		return e.products
	}

	var out []models.Product
	for _, p := range e.products {
		if p.Source == filter {
			out = append(out, p)
		}
	}
	return out
}

func distinctSources(products []models.Product) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		if p.Source == "" {
			continue
		}
		if _, ok := seen[p.Source]; !ok {
			seen[p.Source] = struct{}{}
			out = append(out, p.Source)
		}
	}
	return out
}
