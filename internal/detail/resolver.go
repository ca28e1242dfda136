package detail

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/VivanRajath/Neusearch/internal/models"
	"github.com/VivanRajath/Neusearch/internal/upstream"
	"github.com/VivanRajath/Neusearch/internal/util"

	"go.uber.org/zap"
)

// Fetcher resolves one product by id. Implemented by the upstream client and
// by BulkFetcher for backends that only serve the bulk endpoint.
type Fetcher interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

// State is the user-facing detail view state.
type State struct {
	Product  *models.Product `json:"product,omitempty"`
	Loading  bool            `json:"loading"`
	NotFound bool            `json:"not_found"`
}

// Resolver loads single product records and guards against out-of-order
// completions: every Resolve takes a fresh token, and a completion whose
// token has been superseded never touches state.
type Resolver struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu      sync.Mutex
	token   uint64
	product *models.Product
	loading bool
	failed  bool
}

// NewResolver creates a resolver over the given fetcher.
func NewResolver(fetcher Fetcher) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		logger:  util.GetLogger(),
	}
}

// Resolve fetches the product for id and returns the resulting state. Any
// failure (not found, malformed body, network) surfaces as NotFound; nothing
// is fatal. A Resolve superseded by a newer call leaves state to the newer
// call and reports its own outcome only in the returned State.
func (r *Resolver) Resolve(ctx context.Context, id int64) State {
	r.mu.Lock()
	r.token++
	token := r.token
	r.loading = true
	r.failed = false
	r.product = nil
	r.mu.Unlock()

	product, err := r.fetcher.GetProduct(ctx, id)

	r.mu.Lock()
	defer r.mu.Unlock()

	if token != r.token {
		r.logger.Debug("Discarding superseded detail resolution", zap.Int64("product_id", id))
		if err != nil {
			return State{NotFound: true}
		}
		return State{Product: product}
	}

	r.loading = false
	if err != nil {
		if !errors.Is(err, upstream.ErrNotFound) {
			r.logger.Warn("Detail resolution failed", zap.Int64("product_id", id), zap.Error(err))
		}
		util.DetailResolvesTotal.WithLabelValues("not_found").Inc()
		r.failed = true
		return State{NotFound: true}
	}

	util.DetailResolvesTotal.WithLabelValues("success").Inc()
	r.product = product
	return State{Product: product}
}

// State returns the current detail view state.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return State{
		Product:  r.product,
		Loading:  r.loading,
		NotFound: r.failed,
	}
}

// Lister supplies the bulk catalog, for the degraded single-endpoint mode.
type Lister interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// BulkFetcher resolves a product by listing the full catalog and locating
// the matching id. Used when the backend only exposes the bulk endpoint.
type BulkFetcher struct {
	lister Lister
}

// NewBulkFetcher creates a fetcher backed by the bulk endpoint.
func NewBulkFetcher(lister Lister) *BulkFetcher {
	return &BulkFetcher{lister: lister}
}

// GetProduct implements Fetcher.
func (f *BulkFetcher) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	products, err := f.lister.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	return nil, upstream.ErrNotFound
}

// ParseID parses a product identifier from its path representation.
func ParseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
