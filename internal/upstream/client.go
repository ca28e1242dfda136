package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/VivanRajath/Neusearch/internal/models"
	"github.com/VivanRajath/Neusearch/internal/util"

	"go.uber.org/zap"
)

// ErrNotFound is returned when the backend has no product for the requested id.
var ErrNotFound = errors.New("product not found")

// Client talks to the recommendation backend over JSON/HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a backend client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  util.GetLogger(),
	}
}

// rawProduct is the wire shape of GET /products. The backend joins images
// and features into flat comma-separated strings.
type rawProduct struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Source      string `json:"source"`
	Images      string `json:"images"`
	Description string `json:"description"`
	Features    string `json:"features"`
	URL         string `json:"url"`
	Error       string `json:"error"`
}

// ChatReply is the parsed body of POST /chat.
type ChatReply struct {
	Answer          string                  `json:"answer"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "upstream.ListProducts")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("products request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("products request returned status %d", resp.StatusCode)
	}

	var raw []rawProduct
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("malformed products body: %w", err)
	}

	products := make([]models.Product, 0, len(raw))
	for _, r := range raw {
		products = append(products, r.toProduct())
	}

	c.logger.Debug("Fetched catalog", zap.Int("count", len(products)))
	return products, nil
}

// GetProduct fetches a single product by id. A non-2xx status or an explicit
// error field in the body maps to ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "upstream.GetProduct")
	defer span.End()

	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("product request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product request returned status %d", resp.StatusCode)
	}

	var raw rawProduct
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("malformed product body: %w", err)
	}
	if raw.Error != "" {
		return nil, ErrNotFound
	}

	product := raw.toProduct()
	return &product, nil
}

// Chat forwards a free-text query and parses the reply. Missing fields are
// left zero-valued; the session manager applies its own fallbacks.
func (c *Client) Chat(ctx context.Context, query string) (*ChatReply, error) {
	ctx, span := util.StartSpan(ctx, "upstream.Chat")
	defer span.End()

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("chat request returned status %d", resp.StatusCode)
	}

	var reply ChatReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("malformed chat body: %w", err)
	}

	return &reply, nil
}

func (r rawProduct) toProduct() models.Product {
	return models.Product{
		ID:          r.ID,
		Title:       r.Title,
		Price:       r.Price,
		Category:    r.Category,
		Source:      r.Source,
		Images:      SplitList(r.Images),
		Description: r.Description,
		Features:    SplitList(r.Features),
		URL:         r.URL,
	}
}

// SplitList splits a comma-joined wire string into trimmed, non-empty items.
func SplitList(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}

	parts := strings.Split(joined, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return items
}

// JoinList is the inverse of SplitList, for re-serializing to the wire shape.
func JoinList(items []string) string {
	return strings.Join(items, ",")
}
