package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestListProductsSplitsJoinedFields(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"id":       1,
				"title":    "Hair Serum",
				"price":    "₹499",
				"source":   "Traya",
				"images":   "http://x/a.jpg, http://x/b.jpg, ",
				"features": "nourishing,  paraben free ,",
				"url":      "http://shop/1",
			},
			{
				"id":     2,
				"title":  "Bare",
				"images": "",
			},
		})
	})
	defer srv.Close()

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, []string{"http://x/a.jpg", "http://x/b.jpg"}, products[0].Images)
	assert.Equal(t, []string{"nourishing", "paraben free"}, products[0].Features)
	assert.Equal(t, "₹499", products[0].Price)

	assert.Empty(t, products[1].Images)
	assert.Empty(t, products[1].Features)
}

func TestListProductsMalformedBody(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	defer srv.Close()

	_, err := client.ListProducts(context.Background())
	assert.Error(t, err)
}

func TestListProductsNonSuccessStatus(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer srv.Close()

	_, err := client.ListProducts(context.Background())
	assert.Error(t, err)
}

func TestGetProduct(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/5", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     5,
			"title":  "Shampoo",
			"images": "http://x/a.jpg",
		})
	})
	defer srv.Close()

	p, err := client.GetProduct(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
	assert.Equal(t, []string{"http://x/a.jpg"}, p.Images)
}

func TestGetProductNotFoundStatus(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()

	_, err := client.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProductErrorBody(t *testing.T) {
	// The backend reports a missing product with 200 and an error field.
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Product not found"})
	})
	defer srv.Close()

	_, err := client.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChat(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "red shoes", body["query"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"answer": "Try these:",
			"recommendations": []map[string]string{
				{"title": "Shoe A", "image_url": "u1", "url": "l1"},
			},
		})
	})
	defer srv.Close()

	reply, err := client.Chat(context.Background(), "red shoes")
	require.NoError(t, err)
	assert.Equal(t, "Try these:", reply.Answer)
	require.Len(t, reply.Recommendations, 1)
	assert.Equal(t, "Shoe A", reply.Recommendations[0].Title)
	assert.Equal(t, "u1", reply.Recommendations[0].ImageURL)
	assert.Equal(t, "l1", reply.Recommendations[0].TargetURL)
}

func TestChatLooseReplyLeavesZeroValues(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	})
	defer srv.Close()

	reply, err := client.Chat(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, reply.Answer)
	assert.Empty(t, reply.Recommendations)
}

func TestChatNonSuccessStatus(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	_, err := client.Chat(context.Background(), "q")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList("a, b"))
	assert.Equal(t, []string{"a"}, SplitList(" a ,, "))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList("  ,  "))
}

func TestJoinListRoundTrip(t *testing.T) {
	items := SplitList("a, b ,c")
	assert.Equal(t, "a,b,c", JoinList(items))
	assert.Equal(t, items, SplitList(JoinList(items)))
}
