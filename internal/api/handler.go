package api

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/VivanRajath/Neusearch/internal/broker"
	"github.com/VivanRajath/Neusearch/internal/catalog"
	"github.com/VivanRajath/Neusearch/internal/chat"
	"github.com/VivanRajath/Neusearch/internal/detail"
	"github.com/VivanRajath/Neusearch/internal/models"
	"github.com/VivanRajath/Neusearch/internal/session"
	"github.com/VivanRajath/Neusearch/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SnapshotInvalidator drops any cached catalog snapshot ahead of a forced
// reload. Nil when no cache is configured.
type SnapshotInvalidator interface {
	InvalidateSnapshot(ctx context.Context) error
}

// Handler contains HTTP handlers
type Handler struct {
	engine    *catalog.Engine
	sessions  *session.Manager
	publisher *broker.EventPublisher
	cache     SnapshotInvalidator
}

// NewHandler creates a new HTTP handler
func NewHandler(engine *catalog.Engine, sessions *session.Manager, publisher *broker.EventPublisher, cache SnapshotInvalidator) *Handler {
	return &Handler{
		engine:    engine,
		sessions:  sessions,
		publisher: publisher,
		cache:     cache,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/catalog/view", h.catalogView)
		v1.GET("/catalog/products/:productID", h.catalogProduct)
		v1.GET("/catalog/sources", h.catalogSources)
		v1.GET("/catalog/export", h.catalogExport)
		v1.POST("/catalog/reload", h.catalogReload)

		v1.POST("/sessions", h.createSession)
		v1.GET("/sessions/:id/view", h.sessionView)
		v1.PUT("/sessions/:id/filter", h.setFilter)
		v1.PUT("/sessions/:id/page", h.setPage)
		v1.GET("/sessions/:id/messages", h.sessionMessages)
		v1.POST("/sessions/:id/chat", h.sendChat)
		v1.GET("/sessions/:id/products/:productID", h.resolveProduct)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once the first catalog load has completed
func (h *Handler) readinessCheck(c *gin.Context) {
	if !h.engine.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// catalogView serves a stateless view derivation for direct rendering
func (h *Handler) catalogView(c *gin.Context) {
	filter := c.DefaultQuery("filter", models.FilterAll)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page number"})
		return
	}

	items, totalPages := h.engine.View(filter, page)
	c.JSON(http.StatusOK, gin.H{
		"filter":      filter,
		"page":        page,
		"total_pages": totalPages,
		"items":       items,
		"pages":       catalog.PageItems(page, totalPages),
		"loaded":      h.engine.Loaded(),
	})
}

// catalogProduct serves a product straight from the current snapshot, with
// no upstream round trip. Detail resolution through a session goes to the
// backend instead.
func (h *Handler) catalogProduct(c *gin.Context) {
	productID, err := detail.ParseID(c.Param("productID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	p, ok := h.engine.Lookup(productID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// catalogSources lists the source tags available for filtering
func (h *Handler) catalogSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": h.engine.Sources()})
}

// catalogExport streams the current snapshot as a spreadsheet
func (h *Handler) catalogExport(c *gin.Context) {
	var buf bytes.Buffer
	if err := catalog.WriteXLSX(&buf, h.engine.Snapshot()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to export catalog",
			"details": err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="catalog.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// catalogReload forces a fresh snapshot fetch, bypassing the cache
func (h *Handler) catalogReload(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if err := h.cache.InvalidateSnapshot(ctx); err != nil {
			util.GetLogger().Warn("Failed to invalidate snapshot cache: " + err.Error())
		}
	}

	if err := h.engine.Reload(ctx); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Catalog reload failed",
			"details": err.Error(),
		})
		return
	}

	if err := h.publisher.PublishCatalogReloaded(ctx, len(h.engine.Snapshot()), h.engine.Generation()); err != nil {
		util.GetLogger().Warn("Failed to publish CatalogReloaded event: " + err.Error())
	}

	c.JSON(http.StatusOK, gin.H{"products": len(h.engine.Snapshot())})
}

// createSession opens a new session with a greeted transcript
func (h *Handler) createSession(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{
		"session_id": s.ID,
		"created_at": s.CreatedAt,
		"messages":   renderMessages(s.Chat.Messages()),
	})
}

// sessionView returns the session's current filtered, paginated slice
func (h *Handler) sessionView(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, s.View())
}

type setFilterRequest struct {
	Filter string `json:"filter" binding:"required"`
}

// setFilter switches the active source filter, resetting to page 1
func (h *Handler) setFilter(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var req setFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	s.SetFilter(req.Filter)
	c.JSON(http.StatusOK, s.View())
}

type setPageRequest struct {
	Page int `json:"page" binding:"required,min=1"`
}

// setPage moves the session to another page, clamped to the valid range
func (h *Handler) setPage(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var req setPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	s.SetPage(req.Page)
	c.JSON(http.StatusOK, s.View())
}

// sessionMessages returns the transcript with display-ready HTML
func (h *Handler) sessionMessages(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"busy":     s.Chat.Busy(),
		"messages": renderMessages(s.Chat.Messages()),
	})
}

type chatRequest struct {
	Query string `json:"query" binding:"required"`
}

// sendChat forwards one query to the recommendation backend. A send that
// arrives while another is in flight, or with blank text, is dropped
// (accepted=false) and leaves the transcript untouched.
func (h *Handler) sendChat(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	accepted := s.Chat.Send(c.Request.Context(), req.Query)

	messages := s.Chat.Messages()
	if accepted {
		last := messages[len(messages)-1]
		answered := last.Text != chat.ApologyText
		if err := h.publisher.PublishChatQuery(c.Request.Context(), s.ID, req.Query, answered, len(last.Recommendations)); err != nil {
			util.GetLogger().Warn("Failed to publish ChatQuery event: " + err.Error())
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"accepted": accepted,
		"busy":     s.Chat.Busy(),
		"messages": renderMessages(messages),
	})
}

// resolveProduct loads one product's detail state for the session
func (h *Handler) resolveProduct(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	productID, err := detail.ParseID(c.Param("productID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	state := s.Detail.Resolve(c.Request.Context(), productID)

	if err := h.publisher.PublishProductViewed(c.Request.Context(), s.ID, productID, !state.NotFound); err != nil {
		util.GetLogger().Warn("Failed to publish ProductViewed event: " + err.Error())
	}

	if state.NotFound {
		c.JSON(http.StatusNotFound, state)
		return
	}
	c.JSON(http.StatusOK, state)
}

// messageView pairs a transcript message with its safe display HTML. The
// stored text is never altered; rendering happens here only.
type messageView struct {
	models.Message
	HTML string `json:"html"`
}

func renderMessages(messages []models.Message) []messageView {
	out := make([]messageView, len(messages))
	for i, m := range messages {
		out[i] = messageView{Message: m, HTML: chat.RenderHTML(m.Text)}
	}
	return out
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
