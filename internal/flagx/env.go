package flagx

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads variables from a dotenv file into the process
// environment without overriding variables that are already set. When path
// is empty ".env" is tried; a missing default file is not an error.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Env reads prefixed environment variables, e.g. Env{Prefix: "CLOUDVAULT_"}
// maps "DATABASE_DSN" to CLOUDVAULT_DATABASE_DSN. Each getter returns def when
// the variable is unset or cannot be parsed.
type Env struct {
	Prefix string
}

func (e Env) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(e.Prefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (e Env) String(key, def string) string {
	if v, ok := e.lookup(key); ok {
		return v
	}
	return def
}

func (e Env) Int(key string, def int) int {
	if v, ok := e.lookup(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (e Env) Int64(key string, def int64) int64 {
	if v, ok := e.lookup(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func (e Env) Bool(key string, def bool) bool {
	if v, ok := e.lookup(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func (e Env) Duration(key string, def time.Duration) time.Duration {
	if v, ok := e.lookup(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
