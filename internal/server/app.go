// Package server wires configuration, storage and services together and runs
// the HTTP API until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/cloudvault/internal/logging"
	"github.com/dmitrijs2005/cloudvault/internal/server/blobstore"
	"github.com/dmitrijs2005/cloudvault/internal/server/config"
	"github.com/dmitrijs2005/cloudvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cloudvault/internal/server/rest"
	"github.com/dmitrijs2005/cloudvault/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// sqlOpen is replaced in tests.
var sqlOpen = sql.Open

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
	fileService *services.FileService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	if c.SecretKey == "" {
		return nil, fmt.Errorf("secret key is not configured")
	}

	db, err := sqlOpen("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	blobs, err := newBlobStore(ctx, c)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}
	logger.Info(ctx, "blob store ready", "backend", c.BlobBackend)

	as := services.NewAuthService(db, rm, c, logger)
	fs := services.NewFileService(db, rm, blobs, c, logger)

	return &App{config: c, logger: logger, db: db, authService: as, fileService: fs}, nil
}

func newBlobStore(ctx context.Context, c *config.Config) (blobstore.Store, error) {
	switch strings.ToLower(c.BlobBackend) {
	case "", config.BlobBackendDisk:
		return blobstore.NewDiskStore(c.UploadDir)
	case config.BlobBackendS3:
		return blobstore.NewS3Store(ctx, blobstore.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
		})
	case config.BlobBackendMemory:
		return blobstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", c.BlobBackend)
	}
}

// seedUser creates the configured demo account, if any.
func (app *App) seedUser(ctx context.Context) error {
	if app.config.SeedEmail == "" || app.config.SeedPassword == "" {
		return nil
	}
	username, _, _ := strings.Cut(app.config.SeedEmail, "@")
	if err := app.authService.EnsureUser(ctx, username, app.config.SeedEmail, app.config.SeedPassword); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	app.logger.Info(ctx, "seed user ensured", "email", app.config.SeedEmail)
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := rest.NewHTTPServer(app.config.HTTPAddr, app.logger, app.authService, app.fileService, app.db, rest.Options{
		CookieSecure:    app.config.CookieSecure,
		CookieSameSite:  app.config.CookieSameSite,
		CORSOrigins:     app.config.CORSOrigins,
		ShutdownTimeout: app.config.ShutdownTimeout,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.seedUser(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
