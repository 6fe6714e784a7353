// Package server is the site's HTTP surface: the portfolio page, the chat
// API and WebSockets, the effects endpoints, the contact form and the
// privacy-conscious admin area.
package server

import (
	"context"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/binilvincent/portfolio/internal/chatbot"
	"github.com/binilvincent/portfolio/internal/config"
	"github.com/binilvincent/portfolio/internal/knowledge"
	"github.com/binilvincent/portfolio/internal/mail"
	"github.com/binilvincent/portfolio/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Mailer delivers contact form submissions.
type Mailer interface {
	Send(msg mail.ContactMessage) error
}

type Options struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     *store.Store
	Hub       *chatbot.Hub
	Mailer    Mailer
	Knowledge *knowledge.Base
	Page      Page
	// Now is the clock for stats and cleanup. Defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	opts   Options
	cfg    *config.Config
	logger *zap.Logger
	engine *gin.Engine
	auth   *authService
	salt   string

	// background visitor writes
	tracking sync.WaitGroup
}

// New builds the gin engine and registers every route.
func New(opts Options) (*Server, error) {
	if opts.Config == nil || opts.Store == nil || opts.Hub == nil {
		return nil, errors.New("server: config, store and hub are required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Knowledge == nil {
		opts.Knowledge = knowledge.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Mailer == nil {
		opts.Mailer = mail.New(mail.Settings{}, opts.Logger)
	}

	auth, err := newAuthService(opts.Config.Admin, opts.Now)
	if err != nil {
		return nil, err
	}
	salt := opts.Config.Privacy.Salt
	if salt == "" {
		salt = randomHex(32)
	}

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	gin.SetMode(opts.Config.Server.Mode)
	s := &Server{
		opts:   opts,
		cfg:    opts.Config,
		logger: opts.Logger,
		engine: gin.New(),
		auth:   auth,
		salt:   salt,
	}
	s.engine.SetHTMLTemplate(tmpl)
	s.engine.Use(gin.Recovery(), s.requestLogger(), s.visitorTracking())
	s.routes()

	s.logger.Info("admin access available at /admin/login")
	if opts.Config.UsesDefaultAdmin() {
		s.logger.Warn("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}
	s.logger.Info("visitor tracking enabled with hashed IP addresses")
	return s, nil
}

func (s *Server) routes() {
	r := s.engine

	r.Static("/static", s.cfg.Server.StaticDir)
	r.Static("/images", s.cfg.Server.ImagesDir)

	r.GET("/", s.handleIndex)
	r.GET("/privacy", s.handlePrivacy)
	r.POST("/contact", s.handleContact)

	api := r.Group("/api")
	api.POST("/chat", s.handleChat)
	api.GET("/chat/:id", s.handleTranscript)
	api.GET("/effects/config", s.handleEffectsConfig)
	api.GET("/effects/dissolve", s.handleDissolve)
	api.GET("/effects/:kind", s.handleEffectBatch)

	r.GET("/ws/chat", s.handleChatSocket)
	r.GET("/ws/effects", s.handleEffectsSocket)

	s.adminRoutes()
}

// Handler returns the http.Handler serving the site.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Wait blocks until background visitor writes have finished.
func (s *Server) Wait() {
	s.tracking.Wait()
}

// CleanupVisitors deletes visitor records older than the retention period.
func (s *Server) CleanupVisitors(ctx context.Context) (int64, error) {
	cutoff := s.opts.Now().Add(-s.cfg.Privacy.Retention)
	n, err := s.opts.Store.CleanupVisitors(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("privacy cleanup: removed old visitor records", zap.Int64("deleted", n))
	}
	return n, nil
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	return hex.EncodeToString(b)
}
