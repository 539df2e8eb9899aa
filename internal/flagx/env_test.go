package flagx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnv_Getters(t *testing.T) {
	t.Setenv("CV_TEST_STR", " value ")
	t.Setenv("CV_TEST_INT", "42")
	t.Setenv("CV_TEST_BAD_INT", "forty-two")
	t.Setenv("CV_TEST_BOOL", "true")
	t.Setenv("CV_TEST_DUR", "90s")
	t.Setenv("CV_TEST_EMPTY", "")

	e := Env{Prefix: "CV_TEST_"}

	assert.Equal(t, "value", e.String("STR", "def"))
	assert.Equal(t, "def", e.String("EMPTY", "def"))
	assert.Equal(t, "def", e.String("MISSING", "def"))
	assert.Equal(t, 42, e.Int("INT", 1))
	assert.Equal(t, 1, e.Int("BAD_INT", 1))
	assert.Equal(t, int64(42), e.Int64("INT", 0))
	assert.True(t, e.Bool("BOOL", false))
	assert.Equal(t, 90*time.Second, e.Duration("DUR", time.Second))
	assert.Equal(t, time.Second, e.Duration("STR", time.Second))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CV_DOTENV_A=from-file\nCV_DOTENV_B=from-file\n"), 0o600))

	t.Setenv("CV_DOTENV_B", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("CV_DOTENV_A") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("CV_DOTENV_A"))
	assert.Equal(t, "from-env", os.Getenv("CV_DOTENV_B"), "existing variables win")
}

func TestLoadEnvFile_MissingFiles(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, LoadEnvFile(""), "missing default .env is fine")
	require.Error(t, LoadEnvFile("nope.env"), "missing explicit file is an error")
}
