package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VivanRajath/Neusearch/internal/broker"
	"github.com/VivanRajath/Neusearch/internal/catalog"
	"github.com/VivanRajath/Neusearch/internal/models"
	"github.com/VivanRajath/Neusearch/internal/session"
	"github.com/VivanRajath/Neusearch/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	products []models.Product
}

func (s *staticSource) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.products, nil
}

type stubResponder struct {
	reply *upstream.ChatReply
	err   error
}

func (r *stubResponder) Chat(ctx context.Context, query string) (*upstream.ChatReply, error) {
	return r.reply, r.err
}

type stubFetcher struct {
	products map[int64]*models.Product
}

func (f *stubFetcher) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, upstream.ErrNotFound
}

func testRouter(t *testing.T, responder *stubResponder, fetcher *stubFetcher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := []models.Product{
		{ID: 1, Title: "Serum", Price: "499", Source: "Traya", Images: []string{"http://x/a.jpg"}, URL: "http://shop/1"},
		{ID: 2, Title: "Tee", Price: "999", Source: "Hunnit", Images: []string{"http://x/b.jpg"}, URL: "http://shop/2"},
	}

	engine := catalog.NewEngine(&staticSource{products: products}, 12)
	require.NoError(t, engine.Reload(context.Background()))

	sessions := session.NewManager(engine, responder, fetcher, time.Hour)
	handler := NewHandler(engine, sessions, broker.NewEventPublisher(nil), nil)

	router := gin.New()
	handler.SetupRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createSessionID(t *testing.T, router *gin.Engine) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func TestCatalogViewEndpoint(t *testing.T) {
	router := testRouter(t, &stubResponder{}, &stubFetcher{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/catalog/view?filter=Traya&page=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items      []models.Product `json:"items"`
		TotalPages int              `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Serum", resp.Items[0].Title)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestCatalogViewRejectsBadPage(t *testing.T) {
	router := testRouter(t, &stubResponder{}, &stubFetcher{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/catalog/view?page=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionViewFlow(t *testing.T) {
	router := testRouter(t, &stubResponder{}, &stubFetcher{})
	id := createSessionID(t, router)

	w := doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/filter", gin.H{"filter": "Hunnit"})
	require.Equal(t, http.StatusOK, w.Code)

	var view session.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Hunnit", view.Filter)
	assert.Equal(t, 1, view.Page)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Tee", view.Items[0].Title)

	w = doJSON(t, router, http.MethodPut, "/api/v1/sessions/"+id+"/page", gin.H{"page": 7})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 1, view.Page)
}

func TestSessionNotFound(t *testing.T) {
	router := testRouter(t, &stubResponder{}, &stubFetcher{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/sessions/nope/view", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatEndpointRendersBold(t *testing.T) {
	responder := &stubResponder{reply: &upstream.ChatReply{
		Answer: "Try **these**:",
		Recommendations: []models.Recommendation{
			{Title: "Shoe A", ImageURL: "u1", TargetURL: "l1"},
		},
	}}
	router := testRouter(t, responder, &stubFetcher{})
	id := createSessionID(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/chat", gin.H{"query": "red shoes"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Accepted bool `json:"accepted"`
		Messages []struct {
			Text            string                  `json:"text"`
			Sender          string                  `json:"sender"`
			HTML            string                  `json:"html"`
			Recommendations []models.Recommendation `json:"recommendations"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Accepted)
	require.Len(t, resp.Messages, 3)
	assert.Equal(t, "red shoes", resp.Messages[1].Text)

	last := resp.Messages[2]
	assert.Equal(t, "Try **these**:", last.Text)
	assert.Equal(t, "Try <strong>these</strong>:", last.HTML)
	require.Len(t, last.Recommendations, 1)
	assert.Equal(t, "Shoe A", last.Recommendations[0].Title)
}

func TestChatEndpointRejectsBlankQuery(t *testing.T) {
	router := testRouter(t, &stubResponder{reply: &upstream.ChatReply{Answer: "ok"}}, &stubFetcher{})
	id := createSessionID(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/chat", gin.H{"query": "   "})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Accepted bool              `json:"accepted"`
		Messages []json.RawMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Accepted)
	assert.Len(t, resp.Messages, 1)
}

func TestResolveProductEndpoint(t *testing.T) {
	fetcher := &stubFetcher{products: map[int64]*models.Product{
		1: {ID: 1, Title: "Serum"},
	}}
	router := testRouter(t, &stubResponder{}, fetcher)
	id := createSessionID(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+id+"/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+id+"/products/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+id+"/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogProductEndpoint(t *testing.T) {
	router := testRouter(t, &stubResponder{}, &stubFetcher{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/catalog/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "Serum", p.Title)

	w = doJSON(t, router, http.MethodGet, "/api/v1/catalog/products/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogExportEndpoint(t *testing.T) {
	router := testRouter(t, &stubResponder{}, &stubFetcher{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/catalog/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotZero(t, w.Body.Len())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "catalog.xlsx")
}

func TestHealthAndReady(t *testing.T) {
	router := testRouter(t, &stubResponder{}, &stubFetcher{})

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
