package config

import "github.com/dmitrijs2005/cloudvault/internal/flagx"

// EnvPrefix is shared with the server so one .env can serve both.
const EnvPrefix = "CLOUDVAULT_"

func parseEnv(cfg *Config) {
	if err := flagx.LoadEnvFile(flagx.EnvFileFlag()); err != nil {
		panic(err)
	}

	e := flagx.Env{Prefix: EnvPrefix}

	cfg.ServerURL = e.String("SERVER_URL", cfg.ServerURL)
	cfg.RequestTimeout = e.Duration("REQUEST_TIMEOUT", cfg.RequestTimeout)
}
