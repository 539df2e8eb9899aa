// Package rest exposes the auth and file services over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/cloudvault/internal/logging"
	"github.com/dmitrijs2005/cloudvault/internal/server/models"
)

// AuthService is what the API needs from the auth layer.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, string, error)
	Verify(ctx context.Context, token string) (*models.User, error)
	TokenValidity() time.Duration
}

// FileService is what the API needs from the file hierarchy.
type FileService interface {
	List(ctx context.Context, ownerID int64) ([]*models.FileEntry, error)
	CreateFolder(ctx context.Context, ownerID int64, name string, parentID *int64) (*models.FileEntry, error)
	Upload(ctx context.Context, ownerID int64, name string, r io.Reader, parentID *int64) (*models.FileEntry, error)
	Update(ctx context.Context, ownerID, id int64, patch models.FilePatch) (*models.FileEntry, error)
	Delete(ctx context.Context, ownerID, id int64) error
	OpenBlob(ctx context.Context, ownerID int64, locator string) (io.ReadCloser, *models.FileEntry, error)
	MaxUploadSize() int64
}

// Pinger reports database liveness for /healthz. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options carries the transport settings taken from config.
type Options struct {
	CookieSecure    bool
	CookieSameSite  string
	CORSOrigins     string
	ShutdownTimeout time.Duration
}

type HTTPServer struct {
	address string
	auth    AuthService
	files   FileService
	db      Pinger
	logger  logging.Logger
	opts    Options
}

func NewHTTPServer(a string, l logging.Logger, as AuthService, fs FileService, db Pinger, opts Options) *HTTPServer {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &HTTPServer{
		address: a,
		logger:  l.With("module", "http_server"),
		auth:    as,
		files:   fs,
		db:      db,
		opts:    opts,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}

func splitOrigins(s string) []string {
	var origins []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func sameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}
