package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/tosh-m12/courtmatch/internal/auth"
	"github.com/tosh-m12/courtmatch/internal/config"
	"github.com/tosh-m12/courtmatch/internal/handlers"
	"github.com/tosh-m12/courtmatch/internal/locks"
	"github.com/tosh-m12/courtmatch/internal/logger"
	"github.com/tosh-m12/courtmatch/internal/metrics"
	"github.com/tosh-m12/courtmatch/internal/repository"
	"github.com/tosh-m12/courtmatch/internal/services"
	"github.com/tosh-m12/courtmatch/internal/websocket"
	"github.com/tosh-m12/courtmatch/pkg/rosterfeed"
)

// App holds all application dependencies
type App struct {
	cfg      *config.Config
	log      logger.Logger
	repo     *repository.Repository
	hub      *websocket.Hub
	handlers *handlers.Handlers
	baseURL  string
}

// Option customises New
type Option func(*options)

type options struct {
	rosterClient rosterfeed.Client
	network      networkProvider
}

// WithRosterClient replaces the HTTP roster feed client
func WithRosterClient(c rosterfeed.Client) Option {
	return func(o *options) { o.rosterClient = c }
}

func withNetwork(p networkProvider) Option {
	return func(o *options) { o.network = p }
}

// New creates and initializes a new application instance
func New(cfg *config.Config, log logger.Logger, organizerAuth *auth.Auth, templatesFS, staticFS fs.FS, opts ...Option) (*App, error) {
	o := options{network: realNetworkProvider{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rosterClient == nil {
		o.rosterClient = rosterfeed.NewHTTPClient(cfg.Roster.FeedURL, cfg.Roster.Timeout, log)
	}

	repo, err := repository.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.New(registry)

	keyed := locks.NewKeyed(cfg.Scheduling.LockTimeout)
	keyed.OnWait(rec.LockWait)

	baseURL := cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL(cfg.Server.Addr, o.network)
	}

	limits := services.Limits{
		MaxRounds: cfg.Scheduling.MaxRounds,
		MaxCourts: cfg.Scheduling.MaxCourts,
		Seed:      cfg.Scheduling.Seed,
	}
	svc := handlers.Services{
		Roster:       services.NewRosterService(log, repo, o.rosterClient),
		Schedule:     services.NewScheduleService(log, repo, keyed, rec, limits),
		Score:        services.NewScoreService(log, repo, keyed, rec),
		Substitution: services.NewSubstitutionService(log, repo, keyed, rec),
		Settings:     services.NewSettingsService(log, repo),
		Share:        services.NewShareService(repo, baseURL),
	}

	hub := websocket.New(log)
	svc.Schedule.SetBroadcaster(hub)
	svc.Score.SetBroadcaster(hub)
	svc.Substitution.SetBroadcaster(hub)

	h, err := handlers.New(
		svc,
		templatesFS,
		handlers.NewStaticServer(staticFS),
		organizerAuth,
		hub,
		log,
		handlers.Options{
			CORSOrigins: cfg.Server.CORSOrigins,
			RateLimit:   cfg.RateLimit.RPS,
			RateBurst:   cfg.RateLimit.Burst,
			Metrics:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
			Health:      repo.Ping,
		},
	)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		cfg:      cfg,
		log:      log,
		repo:     repo,
		hub:      hub,
		handlers: h,
		baseURL:  baseURL,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// BaseURL is the URL share links fall back to when no base_url setting exists
func (a *App) BaseURL() string {
	return a.baseURL
}

// Close releases the database
func (a *App) Close() error {
	return a.repo.Close()
}

// Run serves HTTP and the websocket hub until ctx is cancelled, then shuts
// the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      a.Router(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}
	return a.serve(ctx, srv, ln)
}

func (a *App) serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.hub.Run(gCtx)
	})

	g.Go(func() error {
		a.log.Info("Server starting", "addr", ln.Addr().String(), "url", a.baseURL)
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
		defer cancel()
		a.log.Info("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) shutdownTimeout() time.Duration {
	if a.cfg.Server.ShutdownTimeout > 0 {
		return a.cfg.Server.ShutdownTimeout
	}
	return 10 * time.Second
}

// defaultBaseURL builds a LAN-reachable URL for addr. Wildcard and empty
// hosts are replaced with the preferred local IP so QR codes work from phones.
func defaultBaseURL(addr string, provider networkProvider) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		host, port = addr, ""
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = getPreferredIP(provider)
	}
	if port == "" || port == "80" {
		return "http://" + host
	}
	return "http://" + net.JoinHostPort(host, port)
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IPv4 address for LAN access, preferring
// private ranges. Falls back to localhost.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		if ip.IsPrivate() {
			return ip.String()
		}
	}
	if len(candidates) > 0 {
		return candidates[0].String()
	}
	return "localhost"
}
