package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"salon/internal/core"
	applog "salon/internal/log"
	"salon/internal/middleware/ratelimit"
	"salon/internal/middleware/security"
	"salon/internal/middleware/trace"
)

type (
	AppointmentAPI interface {
		Create(ctx context.Context, in core.AppointmentInput) (core.Appointment, error)
		Update(ctx context.Context, id int64, patch core.AppointmentPatch) (core.Appointment, error)
		Delete(ctx context.Context, id int64) error
		Get(ctx context.Context, id int64) (core.Appointment, error)
		List(ctx context.Context, f core.AppointmentFilter) ([]core.Appointment, error)
	}

	AgendaAPI interface {
		Today() core.Date
		Day(ctx context.Context, d core.Date) ([]core.Appointment, error)
		Upcoming(ctx context.Context) ([]core.Appointment, error)
		Month(ctx context.Context, year, month int) (core.MonthSummary, error)
	}

	CatalogAPI interface {
		CreateCustomer(ctx context.Context, c core.Customer) (core.Customer, error)
		GetCustomer(ctx context.Context, id int64) (core.Customer, error)
		ListCustomers(ctx context.Context) ([]core.Customer, error)
		UpdateCustomer(ctx context.Context, id int64, patch core.CustomerPatch) (core.Customer, error)
		DeleteCustomer(ctx context.Context, id int64) error

		CreateService(ctx context.Context, s core.Service) (core.Service, error)
		GetService(ctx context.Context, id int64) (core.Service, error)
		ListServices(ctx context.Context) ([]core.Service, error)
		UpdateService(ctx context.Context, id int64, patch core.ServicePatch) (core.Service, error)
		DeleteService(ctx context.Context, id int64) error
	}

	ReportAPI interface {
		Summary(ctx context.Context, from, to core.Date) (core.Report, error)
	}

	// Pinger reports store readiness.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

// Deps are the components the handlers call into.
type Deps struct {
	Appointments AppointmentAPI
	Agenda       AgendaAPI
	Catalog      CatalogAPI
	Reports      ReportAPI
	Store        Pinger
	Logger       *applog.Logger
}

type Options struct {
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	TrustedProxies     []string
}

type Server struct {
	http.Server
	deps    Deps
	limiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps, opts Options) *Server {
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.DefaultConfig())
	}
	logger := deps.Logger.WithComponent(applog.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		deps: deps,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
			ExemptSafeMethods: true,
		}),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/agenda", s.handleAgenda)
	mux.HandleFunc("/api/appointments", s.handleAppointments)
	mux.HandleFunc("/api/customers", s.handleCustomers)
	mux.HandleFunc("/api/services", s.handleServices)
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "no such resource")
	})

	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring invalid trusted proxy", "cidr", cidr, applog.FieldError, err)
		}
	}

	cors := security.DefaultCORSPolicy()
	if len(opts.CORSAllowedOrigins) > 0 {
		cors.AllowedOrigins = opts.CORSAllowedOrigins
	}

	onLimit := func(w http.ResponseWriter, r *http.Request) {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(),
			"Rate limit exceeded",
			applog.FieldClientIP, detector.ExtractClientIP(r),
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path)
		writeError(w, http.StatusTooManyRequests, codeRateLimited, "rate limit exceeded, try again later")
	}

	// outermost first
	var h http.Handler = mux
	h = s.limiter.Middleware(detector.ExtractClientIP, onLimit)(h)
	h = security.WithCORS(cors)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = detector.Middleware(h)
	h = trace.NewMiddleware(deps.Logger, detector.ExtractClientIP).Middleware(h)
	h = otelhttp.NewHandler(h, "salon.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	s.Handler = h

	return s
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(s.limiter.Stop)
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	if s.deps.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Store.Ping(ctx); err != nil {
			applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
			writeError(w, http.StatusServiceUnavailable, codeUnavailable, "store unavailable")
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
