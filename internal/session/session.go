package session

import (
	"sync"
	"time"

	"github.com/VivanRajath/Neusearch/internal/catalog"
	"github.com/VivanRajath/Neusearch/internal/chat"
	"github.com/VivanRajath/Neusearch/internal/detail"
	"github.com/VivanRajath/Neusearch/internal/models"
)

// View is the derived catalog view for a session's current (filter, page).
type View struct {
	Filter     string             `json:"filter"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
	Items      []models.Product   `json:"items"`
	Pages      []catalog.PageItem `json:"pages"`
	Sources    []string           `json:"sources"`
	Loaded     bool               `json:"loaded"`
}

// Session ties one browser session's mutable state together: its catalog
// View State, chat transcript and detail resolver. The snapshot itself is
// shared and lives in the engine.
type Session struct {
	ID        string
	CreatedAt time.Time

	engine *catalog.Engine
	Chat   *chat.Session
	Detail *detail.Resolver

	mu       sync.Mutex
	filter   string
	page     int
	lastUsed time.Time
}

func newSession(id string, engine *catalog.Engine, responder chat.Responder, fetcher detail.Fetcher) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		engine:    engine,
		Chat:      chat.NewSession(responder),
		Detail:    detail.NewResolver(fetcher),
		filter:    models.FilterAll,
		page:      1,
		lastUsed:  now,
	}
}

// SetFilter switches the active filter and resets the page to 1. Unknown
// tags are accepted and simply yield an empty view.
func (s *Session) SetFilter(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = tag
	s.page = 1
}

// SetPage moves to page n, clamped to [1, totalPages] for the current
// filter. An empty result pins the page at 1.
func (s *Session) SetPage(n int) {
	s.mu.Lock()
	filter := s.filter
	s.mu.Unlock()

	total := s.engine.TotalPages(filter)
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}

	s.mu.Lock()
	// The filter may have changed while we were computing totals; a filter
	// switch wins and keeps its page reset.
	if s.filter == filter {
		s.page = n
	}
	s.mu.Unlock()
}

// View derives the current page slice from the shared snapshot.
func (s *Session) View() View {
	s.mu.Lock()
	filter, page := s.filter, s.page
	s.mu.Unlock()

	items, totalPages := s.engine.View(filter, page)
	return View{
		Filter:     filter,
		Page:       page,
		TotalPages: totalPages,
		Items:      items,
		Pages:      catalog.PageItems(page, totalPages),
		Sources:    s.engine.Sources(),
		Loaded:     s.engine.Loaded(),
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
