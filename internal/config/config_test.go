package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key Load reads so the host environment can't leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "ENVIRONMENT", "PORT", "SUPABASE_URL", "SUPABASE_KEY", "SUPABASE_DB_URL",
		"CORS_ORIGINS", "TABLE_PREFIX", "LOG_DIR", "LOG_MAX_FILES", "SENTRY_DSN",
		"ITEMS_STRICT_PARENTS", "ITEMS_ATOMIC_DELETE", "ITEMS_DELETE_BATCH_SIZE",
		"S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_ENDPOINT",
		"S3_PRESIGN_EXPIRY", "MAX_UPLOAD_BYTES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.True(t, cfg.Items.StrictParents)
	assert.False(t, cfg.Items.AtomicDelete)
	assert.Equal(t, DefaultDeleteBatchSize, cfg.Items.DeleteBatchSize)
	assert.False(t, cfg.Storage.Enabled())
	assert.Equal(t, 7*24*time.Hour, cfg.Storage.PresignExpiry)
	assert.Equal(t, int64(MaxUploadBytes), cfg.Storage.MaxUploadBytes)
	assert.Error(t, cfg.Validate())
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co/")
	t.Setenv("SUPABASE_DB_URL", "postgres://localhost/app")
	t.Setenv("ITEMS_STRICT_PARENTS", "false")
	t.Setenv("ITEMS_ATOMIC_DELETE", "true")
	t.Setenv("ITEMS_DELETE_BATCH_SIZE", "-3")
	t.Setenv("S3_BUCKET", "uploads")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.TablePrefix)
	assert.Equal(t, "https://abc.supabase.co/auth/v1/.well-known/jwks.json", cfg.SupabaseJWKSURL)
	assert.False(t, cfg.Items.StrictParents)
	assert.True(t, cfg.Items.AtomicDelete)
	assert.Equal(t, DefaultDeleteBatchSize, cfg.Items.DeleteBatchSize)
	assert.True(t, cfg.Storage.Enabled())
	assert.False(t, cfg.IsDev())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileFillsUnsetKeys(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ENVIRONMENT: test
PORT: "9090"
SUPABASE_URL: https://file.supabase.co
SUPABASE_DB_URL: postgres://${DB_HOST}/app
ITEMS_DELETE_BATCH_SIZE: "25"
`), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port, "environment wins over the file")
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "test_", cfg.TablePrefix)
	assert.Equal(t, "postgres://db.internal/app", cfg.SupabaseDBURL)
	assert.Equal(t, 25, cfg.Items.DeleteBatchSize)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.ErrorContains(t, err, "config file not found")
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"workflow-2026-01-01T00-00-00.log",
		"workflow-2026-01-02T00-00-00.log",
		"workflow-2026-01-03T00-00-00.log",
		"other.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	require.NoError(t, cleanupOldLogs(dir, 2))

	remaining, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	var names []string
	for _, f := range remaining {
		names = append(names, filepath.Base(f))
	}
	assert.ElementsMatch(t, []string{
		"other.txt",
		"workflow-2026-01-02T00-00-00.log",
		"workflow-2026-01-03T00-00-00.log",
	}, names)
}

func TestNewLogger_WritesFile(t *testing.T) {
	dir := t.TempDir()
	logger, closeLogs, err := NewLogger(&Config{Environment: "prod", LogDir: dir, LogMaxFiles: 3})
	require.NoError(t, err)

	logger.Info("hello", "k", "v")
	closeLogs()

	files, err := filepath.Glob(filepath.Join(dir, "workflow-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
