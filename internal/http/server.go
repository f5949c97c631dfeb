package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"booklog/internal/cache"
	"booklog/internal/calendar"
	"booklog/internal/catalog"
	"booklog/internal/log"
	"booklog/internal/middleware/ratelimit"
	"booklog/internal/middleware/security"
	"booklog/internal/middleware/trace"
	appweb "booklog/web"
)

const (
	defaultCacheSize    = 120
	defaultCacheTTL     = 10 * time.Minute
	failedCoversSize    = 1024
	cacheCleanupPeriod  = 10 * time.Minute
	staticAssetMaxAge   = 3600
	templatesLoadFailed = "templates not loaded"
)

// Options tunes a Server. Zero values fall back to defaults.
type Options struct {
	CoversDir          string
	Location           *time.Location
	SwipeThreshold     float64
	RateLimitPerMinute int
	CacheSize          int
	CacheTTL           time.Duration
	Logger             *log.Logger

	// Now overrides the clock used for "today".
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.SwipeThreshold <= 0 {
		o.SwipeThreshold = calendar.DefaultSwipeThreshold
	}
	if o.RateLimitPerMinute <= 0 {
		o.RateLimitPerMinute = ratelimit.DefaultConfig().RequestsPerMinute
	}
	if o.CacheSize <= 0 {
		o.CacheSize = defaultCacheSize
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = defaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.Discard()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Server serves the calendar, the month detail pages and their assets.
type Server struct {
	http.Server
	opts      Options
	templates *template.Template
	catalog   *catalog.Catalog
	logger    *log.Logger

	// Month grids keyed by snapshot version, month and today.
	months *cache.LRUCache[calendar.Month]
	// Cover ids whose image is missing; they are sent to the default cover.
	failedCovers *cache.LRUCache[struct{}]
	caches       *cache.Manager

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	started  time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, cat *catalog.Catalog, opts Options) *Server {
	opts = opts.withDefaults()
	logger := opts.Logger.WithComponent(log.ComponentHTTP)
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		opts:         opts,
		catalog:      cat,
		logger:       logger,
		months:       cache.NewLRUCache[calendar.Month](opts.CacheSize, opts.CacheTTL),
		failedCovers: cache.NewLRUCache[struct{}](failedCoversSize, opts.CacheTTL),
		caches:       cache.NewManager(opts.Logger),
		detector:     security.NewDetector(),
		started:      opts.Now(),
	}

	rlConfig := ratelimit.DefaultConfig()
	rlConfig.RequestsPerMinute = opts.RateLimitPerMinute
	s.limiter = ratelimit.NewLimiter(rlConfig)
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, opts.Logger)

	s.caches.Register("months", s.months)
	s.caches.Register("failed_covers", s.failedCovers)
	s.caches.StartCleanup(cacheCleanupPeriod)

	// A new snapshot invalidates every rendered grid and gives missing
	// covers another chance.
	cat.OnReload(func(snap *catalog.Snapshot) {
		s.months.Purge()
		s.failedCovers.Purge()
		logger.Debug("Month cache purged", "version", snap.Version)
	})

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", log.FieldError, err)
		t = nil
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(staticAssetMaxAge)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	partials := s.limiter.Middleware(s.detector.ExtractClientIP, opts.Logger)

	mux.HandleFunc("/", s.route)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/data/covers/", s.handleCover)
	// UI partials
	mux.Handle("/ui/calendar", partials(http.HandlerFunc(s.handleCalendarPartial)))
	mux.Handle("/ui/cell", partials(http.HandlerFunc(s.handleCell)))
	mux.Handle("/ui/activate", partials(http.HandlerFunc(s.handleActivate)))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Handler = s.tracer.Middleware(headers.Middleware(s.detector.Middleware(opts.Logger)(mux)))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// now is the current time in the configured location.
func (s *Server) now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

func (s *Server) monthCacheKey(version uint64, st calendar.State, todayKey string) string {
	return fmt.Sprintf("%d:%s:%s", version, st.Active, todayKey)
}
