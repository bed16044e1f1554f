package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"rangkum.app/internal/auth"
	"rangkum.app/internal/avatar"
	"rangkum.app/internal/content"
	"rangkum.app/internal/notify"
	"rangkum.app/internal/obs"
	"rangkum.app/internal/user"
)

const defaultMaxBodyBytes = 1 << 20

// ReadyProbe checks downstream dependencies for the readiness endpoint.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options wires the API to its collaborators.
type Options struct {
	ReadyProbe    ReadyProbe
	Version       string
	Tokens        *auth.Tokens
	Authenticator *auth.Authenticator
	Users         user.Store
	Content       *content.Service
	Notifications notify.Store
	Avatars       *avatar.Manager
	UploadDir     string
	RateBurst     int
	RatePerSec    int
}

// API is the HTTP layer.
type API struct {
	mux           *http.ServeMux
	readyProbe    ReadyProbe
	version       string
	tokens        *auth.Tokens
	authn         *auth.Authenticator
	users         user.Store
	content       *content.Service
	notifications notify.Store
	avatars       *avatar.Manager
	uploadDir     string
	rateBurst     int
	ratePerSec    int
}

func New(opts Options) *API {
	a := &API{
		mux:           http.NewServeMux(),
		readyProbe:    opts.ReadyProbe,
		version:       opts.Version,
		tokens:        opts.Tokens,
		authn:         opts.Authenticator,
		users:         opts.Users,
		content:       opts.Content,
		notifications: opts.Notifications,
		avatars:       opts.Avatars,
		uploadDir:     opts.UploadDir,
		rateBurst:     opts.RateBurst,
		ratePerSec:    opts.RatePerSec,
	}
	if a.rateBurst <= 0 {
		a.rateBurst = 20
	}
	if a.ratePerSec <= 0 {
		a.ratePerSec = 10
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/api/auth/register", a.handleRegister)
	a.mux.HandleFunc("/api/auth/login", a.handleLogin)
	a.mux.HandleFunc("/api/auth/me", a.handleMe)
	a.mux.HandleFunc("/api/auth/profile", a.handleProfile)
	a.mux.HandleFunc("/api/auth/avatar", a.handleAvatarUpload)

	a.mux.HandleFunc("/api/summaries", a.handleSummaries)
	a.mux.HandleFunc("/api/summaries/", a.handleSummarySubtree)

	a.mux.HandleFunc("/api/comments/", a.handleCommentSubtree)

	a.mux.HandleFunc("/api/notifications", a.handleNotifications)
	a.mux.HandleFunc("/api/notifications/", a.handleNotificationSubtree)

	if a.avatars != nil {
		a.mux.Handle("/avatars/", http.StripPrefix("/avatars/",
			http.FileServer(http.Dir(a.avatars.Dir()))))
	}
	if a.uploadDir != "" {
		a.mux.Handle("/uploads/", http.StripPrefix("/uploads/",
			http.FileServer(http.Dir(a.uploadDir))))
	}

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler assembles the middleware chain around the mux. Instrumentation
// wraps everything so rejected requests are measured too.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytesExcept(h, defaultMaxBodyBytes, isUploadRequest)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// isUploadRequest marks the multipart routes, which carry their own body
// size limits.
func isUploadRequest(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	return r.URL.Path == "/api/auth/avatar" || r.URL.Path == "/api/summaries"
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "rangkum-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}
