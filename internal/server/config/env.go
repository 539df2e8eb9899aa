package config

import (
	"github.com/dmitrijs2005/cloudvault/internal/flagx"
)

// EnvPrefix is prepended to every environment variable the server reads.
const EnvPrefix = "CLOUDVAULT_"

// parseEnv overlays CLOUDVAULT_* environment variables. A dotenv file named
// by -env (or ./.env when present) is loaded first; variables already set in
// the process environment are not overridden by it. An unreadable explicit
// file panics, like a broken JSON config does.
func parseEnv(cfg *Config) {
	if err := flagx.LoadEnvFile(flagx.EnvFileFlag()); err != nil {
		panic(err)
	}

	e := flagx.Env{Prefix: EnvPrefix}

	cfg.HTTPAddr = e.String("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DatabaseDSN = e.String("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.SecretKey = e.String("SECRET_KEY", cfg.SecretKey)
	cfg.TokenValidity = e.Duration("TOKEN_VALIDITY", cfg.TokenValidity)
	cfg.CookieSecure = e.Bool("COOKIE_SECURE", cfg.CookieSecure)
	cfg.CookieSameSite = e.String("COOKIE_SAMESITE", cfg.CookieSameSite)
	cfg.CORSOrigins = e.String("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.UploadDir = e.String("UPLOAD_DIR", cfg.UploadDir)
	cfg.MaxUploadSize = e.Int64("MAX_UPLOAD_SIZE", cfg.MaxUploadSize)
	cfg.BlobBackend = e.String("BLOB_BACKEND", cfg.BlobBackend)
	cfg.S3RootUser = e.String("S3_ROOT_USER", cfg.S3RootUser)
	cfg.S3RootPassword = e.String("S3_ROOT_PASSWORD", cfg.S3RootPassword)
	cfg.S3Bucket = e.String("S3_BUCKET", cfg.S3Bucket)
	cfg.S3Region = e.String("S3_REGION", cfg.S3Region)
	cfg.S3BaseEndpoint = e.String("S3_BASE_ENDPOINT", cfg.S3BaseEndpoint)
	cfg.LogLevel = e.String("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = e.String("LOG_FORMAT", cfg.LogFormat)
	cfg.LoginMaxAttempts = e.Int("LOGIN_MAX_ATTEMPTS", cfg.LoginMaxAttempts)
	cfg.LoginWindow = e.Duration("LOGIN_WINDOW", cfg.LoginWindow)
	cfg.SeedEmail = e.String("SEED_EMAIL", cfg.SeedEmail)
	cfg.SeedPassword = e.String("SEED_PASSWORD", cfg.SeedPassword)
	cfg.ShutdownTimeout = e.Duration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
}
