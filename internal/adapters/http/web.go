package web

import (
	"net/http"
	"time"

	"gudlft/internal/adapters/email"
	"gudlft/internal/adapters/http/middleware"
	"gudlft/internal/adapters/http/perf"
	bookingStore "gudlft/internal/adapters/storage/booking"
	clubStore "gudlft/internal/adapters/storage/club"
	competitionStore "gudlft/internal/adapters/storage/competition"
	"gudlft/internal/domain/booking"
)

// Stores holds all storage dependencies.
type Stores struct {
	ClubStore        clubStore.Store
	CompetitionStore competitionStore.Store
	BookingStore     bookingStore.Store
}

// Options configures the HTTP surface.
type Options struct {
	Production         bool
	CSRFKey            []byte // 32 bytes
	TrustedOrigins     []string
	Rules              booking.Rules
	EmailSender        email.Sender // nil disables confirmation emails
	SlowRequestMs      int
	RateLimitPerSecond int
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Booking rules and confirmation sender (set by NewMux)
var (
	bookingRules = booking.DefaultRules
	emailSender  email.Sender
)

// rateLimiter is the limiter of the most recent NewMux; Shutdown stops it.
var rateLimiter *middleware.RateLimiter

// DefaultRateLimitPerSecond is used when Options.RateLimitPerSecond is not set.
const DefaultRateLimitPerSecond = 10

// NewMux wires HTTP handlers for the app.
// PRE: s holds every store; opts.CSRFKey is 32 bytes
// POST: Returns the full middleware chain around the routes
func NewMux(s *Stores, collector *perf.Collector, opts Options) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = opts.Production
	emailSender = opts.EmailSender
	bookingRules = opts.Rules
	if bookingRules == (booking.Rules{}) {
		bookingRules = booking.DefaultRules
	}

	mux := http.NewServeMux()
	registerRoutes(mux, !opts.Production)

	rate := opts.RateLimitPerSecond
	if rate <= 0 {
		rate = DefaultRateLimitPerSecond
	}
	Shutdown()
	limiter := middleware.NewRateLimiter(rate, time.Second)
	rateLimiter = limiter

	// Request order: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(middleware.CSRFOptions{
			Key:            opts.CSRFKey,
			Secure:         opts.Production,
			TrustedOrigins: opts.TrustedOrigins,
		}),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector, opts.SlowRequestMs),
	)
}

// Shutdown stops the background work started by NewMux. Calling it again,
// or before NewMux, does nothing.
func Shutdown() {
	if rateLimiter != nil {
		rateLimiter.Stop()
	}
}

func registerRoutes(mux *http.ServeMux, debug bool) {
	mux.Handle("GET /static/", http.FileServerFS(staticFS))

	mux.HandleFunc("GET /{$}", handleIndex)
	mux.HandleFunc("POST /showSummary", handleShowSummary)
	mux.Handle("GET /showSummary", middleware.RequireClub(http.HandlerFunc(handleSummaryPage)))
	mux.HandleFunc("GET /book/{competition}/{club}", handleBook)
	mux.HandleFunc("POST /purchasePlaces", handlePurchasePlaces)
	mux.HandleFunc("GET /pointsBoard", handlePointsBoard)
	mux.HandleFunc("GET /logout", handleLogout)
	mux.HandleFunc("POST /logout", handleLogout)

	if debug {
		mux.HandleFunc("GET /debug/perf", handlePerf)
	}
}
