package handlers

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/tosh-m12/courtmatch/internal/auth"
	"github.com/tosh-m12/courtmatch/internal/services"
	"github.com/tosh-m12/courtmatch/internal/websocket"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// Templates holds all parsed HTML templates
type Templates struct {
	Index    *template.Template
	Schedule *template.Template
}

// Services groups the service layer the handlers call into
type Services struct {
	Roster       services.RosterServicer
	Schedule     services.ScheduleServicer
	Score        services.ScoreServicer
	Substitution services.SubstitutionServicer
	Settings     services.SettingsServicer
	Share        services.ShareServicer
}

// Options configure the cross-cutting parts of the router
type Options struct {
	CORSOrigins []string
	// RateLimit is requests per second per client IP; 0 disables limiting
	RateLimit float64
	RateBurst int
	// Metrics, when set, is served at /metrics
	Metrics http.Handler
	// Health, when set, is called by /healthz
	Health func(ctx context.Context) error
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Roster       services.RosterServicer
	Schedule     services.ScheduleServicer
	Score        services.ScoreServicer
	Substitution services.SubstitutionServicer
	Settings     services.SettingsServicer
	Share        services.ShareServicer
	Auth         *auth.Auth
	Hub          *websocket.Hub
	Log          HTTPLogger
	opts         Options
	limiter      *IPRateLimiter
	templates    *Templates
	staticServer http.Handler
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	svc Services,
	templatesFS fs.FS,
	staticServer http.Handler,
	organizerAuth *auth.Auth,
	hub *websocket.Hub,
	log HTTPLogger,
	opts Options,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	h := newHandlers(svc, organizerAuth, log, opts)
	h.Hub = hub
	h.templates = templates
	h.staticServer = staticServer
	return h, nil
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without templates, static files
// or a websocket hub (for testing API endpoints)
func NewForTesting(svc Services, organizerAuth *auth.Auth) *Handlers {
	return newHandlers(svc, organizerAuth, NoopHTTPLogger{}, Options{})
}

func newHandlers(svc Services, organizerAuth *auth.Auth, log HTTPLogger, opts Options) *Handlers {
	h := &Handlers{
		Roster:       svc.Roster,
		Schedule:     svc.Schedule,
		Score:        svc.Score,
		Substitution: svc.Substitution,
		Settings:     svc.Settings,
		Share:        svc.Share,
		Auth:         organizerAuth,
		Log:          log,
		opts:         opts,
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		h.limiter = NewIPRateLimiter(opts.RateLimit, burst)
	}
	return h
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Index, err = template.ParseFS(templatesFS, "index.html"); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	if t.Schedule, err = template.New("schedule.html").Funcs(scheduleFuncs).ParseFS(templatesFS, "schedule.html"); err != nil {
		return nil, fmt.Errorf("schedule template: %w", err)
	}

	return t, nil
}

var scheduleFuncs = template.FuncMap{
	"score": func(v *int) string {
		if v == nil {
			return "–"
		}
		return strconv.Itoa(*v)
	},
}
