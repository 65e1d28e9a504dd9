// Package widget serves the landing page, the chat page and the chat API
// (REST and WebSocket) backed by a chat.Session per page.
package widget

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/academydays/hubby/internal/chat"
	"github.com/academydays/hubby/internal/config"
	"github.com/academydays/hubby/internal/intent"
	"github.com/academydays/hubby/internal/prefs"
	"github.com/academydays/hubby/internal/source"
)

// VisitorCookie identifies a visitor across page loads.
const VisitorCookie = "hubby_visitor"

// Loader acquires the knowledge base for a page load.
type Loader interface {
	Load(ctx context.Context) *source.Result
}

// Widget provides the visitor-facing pages and chat endpoints.
type Widget struct {
	cfg     *config.Config
	loader  Loader
	store   *prefs.Store
	matcher *intent.Matcher
	logger  *zap.Logger
}

// New creates a new Widget.
func New(cfg *config.Config, loader Loader, store *prefs.Store, logger *zap.Logger) *Widget {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Widget{
		cfg:     cfg,
		loader:  loader,
		store:   store,
		matcher: intent.NewMatcher(cfg.Actions),
		logger:  logger,
	}
}

// RegisterRoutes mounts all widget routes onto the given router.
func (wg *Widget) RegisterRoutes(r chi.Router) {
	r.Get("/", wg.ServeLanding)
	r.Get("/select", wg.handleSelect)
	r.Get("/chat", wg.ServeChat)
	r.Get("/api/widget/state", wg.handleState)
	r.Post("/api/widget/language", wg.handleLanguage)
	r.Post("/api/widget/message", wg.handleMessage)
	r.Get("/ws/chat", wg.handleWebSocket)
}

// visitorID returns the visitor id from the cookie, issuing a new one when
// the cookie is missing or malformed.
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(VisitorCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.New().String()
	http.SetCookie(w, visitorCookie(id))
	return id
}

func visitorCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// session loads the knowledge base and opens a session for the visitor.
func (wg *Widget) session(ctx context.Context, visitor string) (*chat.Session, *source.Result) {
	res := wg.loader.Load(ctx)
	s := chat.New(res.Doc, chat.Options{
		Config:  wg.cfg,
		Prefs:   wg.store.Visitor(ctx, visitor),
		Matcher: wg.matcher,
	})
	return s, res
}
