package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseKey     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins     string
	TablePrefix     string

	// Logging
	LogDir      string // Empty = stdout only
	LogMaxFiles int
	SentryDSN   string

	Items   ItemsConfig
	Storage StorageConfig
}

// ItemsConfig controls the item tree semantics that are a deliberate choice
// rather than a fixed rule.
type ItemsConfig struct {
	// StrictParents makes create and move verify that the parent exists, is
	// owned by the caller and is a folder, and makes move reject cycles.
	StrictParents bool
	// AtomicDelete runs a cascading delete inside a single transaction.
	AtomicDelete bool
	// DeleteBatchSize bounds the number of ids per DELETE statement.
	DeleteBatchSize int
}

// StorageConfig configures the S3-compatible bucket used for uploads
type StorageConfig struct {
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3Endpoint     string // Optional: MinIO, R2, Supabase Storage S3 endpoint
	PresignExpiry  time.Duration
	MaxUploadBytes int64
}

// Enabled reports whether uploads are configured
func (s StorageConfig) Enabled() bool {
	return s.S3Bucket != ""
}

// source resolves a key from the environment first, then the optional file
type source struct {
	file map[string]string
}

func (s source) get(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value, ok := s.file[key]; ok && value != "" {
		return value
	}
	return defaultValue
}

func (s source) getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(s.get(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

func (s source) getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(s.get(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

func (s source) getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(s.get(key, defaultValue.String()))
	if err != nil {
		return defaultValue
	}
	return v
}

// Load builds the configuration from the environment. When CONFIG_FILE
// points to a YAML file of KEY: value pairs, those values are used for keys
// the environment leaves unset.
func Load() (*Config, error) {
	file, err := loadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	src := source{file: file}

	env := src.get("ENVIRONMENT", "dev")
	supabaseURL := strings.TrimSuffix(src.get("SUPABASE_URL", ""), "/")

	cfg := &Config{
		Port:            src.get("PORT", "8080"),
		Environment:     env,
		SupabaseURL:     supabaseURL,
		SupabaseKey:     src.get("SUPABASE_KEY", ""),
		SupabaseDBURL:   src.get("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL: supabaseURL + "/auth/v1/.well-known/jwks.json",
		CORSOrigins:     src.get("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		TablePrefix:     src.get("TABLE_PREFIX", defaultTablePrefix(env)),
		LogDir:          src.get("LOG_DIR", ""),
		LogMaxFiles:     src.getInt("LOG_MAX_FILES", 10),
		SentryDSN:       src.get("SENTRY_DSN", ""),
		Items: ItemsConfig{
			StrictParents:   src.getBool("ITEMS_STRICT_PARENTS", true),
			AtomicDelete:    src.getBool("ITEMS_ATOMIC_DELETE", false),
			DeleteBatchSize: src.getInt("ITEMS_DELETE_BATCH_SIZE", DefaultDeleteBatchSize),
		},
		Storage: StorageConfig{
			S3Region:       src.get("S3_REGION", "us-east-1"),
			S3Bucket:       src.get("S3_BUCKET", ""),
			S3AccessKey:    src.get("S3_ACCESS_KEY", ""),
			S3SecretKey:    src.get("S3_SECRET_KEY", ""),
			S3Endpoint:     src.get("S3_ENDPOINT", ""),
			PresignExpiry:  src.getDuration("S3_PRESIGN_EXPIRY", 7*24*time.Hour),
			MaxUploadBytes: int64(src.getInt("MAX_UPLOAD_BYTES", MaxUploadBytes)),
		},
	}

	if cfg.Items.DeleteBatchSize <= 0 {
		cfg.Items.DeleteBatchSize = DefaultDeleteBatchSize
	}

	return cfg, nil
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	var missing []string
	if c.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.SupabaseDBURL == "" {
		missing = append(missing, "SUPABASE_DB_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsDev reports whether the server runs in the dev environment
func (c *Config) IsDev() bool {
	return c.Environment == "dev"
}

// loadFile reads a flat YAML map with ${VAR} expansion. An empty path is not an error.
func loadFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	values := map[string]string{}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &values); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return values, nil
}

// defaultTablePrefix returns the table prefix based on environment
func defaultTablePrefix(env string) string {
	switch env {
	case "prod":
		return ""
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}
