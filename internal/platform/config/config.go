package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Auth     AuthConfig     `json:"auth"`
	Cache    CacheConfig    `json:"cache"`
	Storage  StorageConfig  `json:"storage"`
	Query    QueryConfig    `json:"query"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	BaseRoute string `json:"baseRoute"`
	WebDomain string `json:"webDomain"`
	Debug     bool   `json:"debug"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Type      string           `json:"type"`
	Postgres  PostgreSQLConfig `json:"postgres"`
	Firestore FirestoreConfig  `json:"firestore"`
}

// PostgreSQLConfig holds PostgreSQL-specific configuration
type PostgreSQLConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Username        string        `json:"username"`
	Password        string        `json:"password"`
	Database        string        `json:"database"`
	DSN             string        `json:"dsn"`
	SSLMode         string        `json:"sslMode"`
	MaxOpenConns    int           `json:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime"`
}

// FirestoreConfig holds Cloud Firestore configuration
type FirestoreConfig struct {
	ProjectID       string `json:"projectId"`
	DatabaseID      string `json:"databaseId"`
	CredentialsFile string `json:"credentialsFile"`
}

// AuthConfig selects and configures the identity provider
type AuthConfig struct {
	Provider                string `json:"provider"`
	JWTPublicKey            string `json:"jwtPublicKey"`
	ClaimKey                string `json:"claimKey"`
	FirebaseProjectID       string `json:"firebaseProjectId"`
	FirebaseCredentialsFile string `json:"firebaseCredentialsFile"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Enabled bool          `json:"enabled"`
	Backend string        `json:"backend"`
	TTL     time.Duration `json:"ttl"`
	Prefix  string        `json:"prefix"`
	Redis   RedisConfig   `json:"redis"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address      string        `json:"address"`
	Password     string        `json:"password"`
	DB           int           `json:"db"`
	PoolSize     int           `json:"poolSize"`
	MinIdleConns int           `json:"minIdleConns"`
	MaxConnAge   time.Duration `json:"maxConnAge"`
}

// StorageConfig holds blob storage configuration
type StorageConfig struct {
	Provider        string `json:"provider"`
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
	Endpoint        string `json:"endpoint"`
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	PublicURL       string `json:"publicUrl"`
	CredentialsFile string `json:"credentialsFile"`
}

// QueryConfig controls query behaviour
type QueryConfig struct {
	IndexFallback bool `json:"indexFallback"`
}

var (
	validDBTypes          = []string{"postgresql", "firestore", "memory"}
	validAuthProviders    = []string{"jwt", "firebase"}
	validCacheBackends    = []string{"memory", "redis"}
	validStorageProviders = []string{"none", "s3", "gcs"}
)

// LoadFromEnv loads configuration from the environment.
// Explicit environment variables win over values from a .env file,
// which win over defaults.
func LoadFromEnv() (*Config, error) {
	envPaths := []string{".env", "../.env", "../../.env"}

	var loadErr error
	for _, envPath := range envPaths {
		if loadErr = godotenv.Load(envPath); loadErr == nil {
			break
		}
	}
	if loadErr != nil {
		fmt.Println("INFO: .env file not found, using environment variables and defaults.")
	}

	return build(func(key string) (string, bool) {
		v := os.Getenv(key)
		return v, v != ""
	})
}

// LoadFromMap loads configuration from an in-memory map.
// Tests use it to avoid touching process environment.
func LoadFromMap(envMap map[string]string) (*Config, error) {
	return build(func(key string) (string, bool) {
		v, ok := envMap[key]
		return v, ok
	})
}

type lookupFunc func(key string) (string, bool)

func build(lookup lookupFunc) (*Config, error) {
	r := reader{lookup: lookup}

	config := &Config{
		Server: ServerConfig{
			Host:      r.getString("HOST", "0.0.0.0"),
			Port:      r.getInt("SERVER_PORT", 8080),
			BaseRoute: r.getString("BASE_ROUTE", ""),
			WebDomain: r.getString("WEB_DOMAIN", "*"),
			Debug:     r.getBool("DEBUG", false),
		},
		Database: DatabaseConfig{
			Type: r.getString("DB_TYPE", "postgresql"),
			Postgres: PostgreSQLConfig{
				Host:            r.getString("POSTGRES_HOST", "localhost"),
				Port:            r.getInt("POSTGRES_PORT", 5432),
				Username:        r.getString("POSTGRES_USERNAME", ""),
				Password:        r.getString("POSTGRES_PASSWORD", ""),
				Database:        r.getString("POSTGRES_DATABASE", "socialfeed"),
				DSN:             r.getString("POSTGRES_DSN", ""),
				SSLMode:         r.getString("POSTGRES_SSL_MODE", "disable"),
				MaxOpenConns:    r.getInt("POSTGRES_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    r.getInt("POSTGRES_MAX_IDLE_CONNS", 25),
				ConnMaxLifetime: time.Duration(r.getInt("POSTGRES_CONN_MAX_LIFETIME", 300)) * time.Second,
			},
			Firestore: FirestoreConfig{
				ProjectID:       r.getString("FIRESTORE_PROJECT_ID", ""),
				DatabaseID:      r.getString("FIRESTORE_DATABASE_ID", "(default)"),
				CredentialsFile: r.getString("GOOGLE_APPLICATION_CREDENTIALS", ""),
			},
		},
		Auth: AuthConfig{
			Provider:                r.getString("AUTH_PROVIDER", "jwt"),
			JWTPublicKey:            r.getString("JWT_PUBLIC_KEY", ""),
			ClaimKey:                r.getString("JWT_CLAIM_KEY", "claim"),
			FirebaseProjectID:       r.getString("FIREBASE_PROJECT_ID", ""),
			FirebaseCredentialsFile: r.getString("FIREBASE_CREDENTIALS_FILE", ""),
		},
		Cache: CacheConfig{
			Enabled: r.getBool("CACHE_ENABLED", false),
			Backend: r.getString("CACHE_BACKEND", "memory"),
			TTL:     r.getDuration("CACHE_TTL", 5*time.Minute),
			Prefix:  r.getString("CACHE_PREFIX", "socialfeed:"),
			Redis: RedisConfig{
				Address:      r.getString("REDIS_ADDRESS", "localhost:6379"),
				Password:     r.getString("REDIS_PASSWORD", ""),
				DB:           r.getInt("REDIS_DB", 0),
				PoolSize:     r.getInt("REDIS_POOL_SIZE", 10),
				MinIdleConns: r.getInt("REDIS_MIN_IDLE_CONNS", 2),
				MaxConnAge:   time.Duration(r.getInt("REDIS_MAX_CONN_AGE", 300)) * time.Second,
			},
		},
		Storage: StorageConfig{
			Provider:        r.getString("STORAGE_PROVIDER", "none"),
			Bucket:          r.getString("STORAGE_BUCKET", ""),
			Region:          r.getString("STORAGE_REGION", "auto"),
			Endpoint:        r.getString("STORAGE_ENDPOINT", ""),
			AccessKeyID:     r.getString("STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: r.getString("STORAGE_SECRET_ACCESS_KEY", ""),
			PublicURL:       r.getString("STORAGE_PUBLIC_URL", ""),
			CredentialsFile: r.getString("STORAGE_CREDENTIALS_FILE", ""),
		},
		Query: QueryConfig{
			IndexFallback: r.getBool("QUERY_INDEX_FALLBACK", true),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields
func (c *Config) Validate() error {
	var errors []string

	if !contains(validDBTypes, c.Database.Type) {
		errors = append(errors, fmt.Sprintf("DB_TYPE must be one of: %s", strings.Join(validDBTypes, ", ")))
	}
	if c.Database.Type == "firestore" && strings.TrimSpace(c.Database.Firestore.ProjectID) == "" {
		errors = append(errors, "FIRESTORE_PROJECT_ID is required when DB_TYPE=firestore")
	}

	switch c.Auth.Provider {
	case "jwt":
		if strings.TrimSpace(c.Auth.JWTPublicKey) == "" {
			errors = append(errors, "JWT_PUBLIC_KEY is required when AUTH_PROVIDER=jwt")
		}
	case "firebase":
	default:
		errors = append(errors, fmt.Sprintf("AUTH_PROVIDER must be one of: %s", strings.Join(validAuthProviders, ", ")))
	}

	if c.Cache.Enabled && !contains(validCacheBackends, c.Cache.Backend) {
		errors = append(errors, fmt.Sprintf("CACHE_BACKEND must be one of: %s", strings.Join(validCacheBackends, ", ")))
	}

	if !contains(validStorageProviders, c.Storage.Provider) {
		errors = append(errors, fmt.Sprintf("STORAGE_PROVIDER must be one of: %s", strings.Join(validStorageProviders, ", ")))
	} else if c.Storage.Provider != "none" && strings.TrimSpace(c.Storage.Bucket) == "" {
		errors = append(errors, "STORAGE_BUCKET is required when a storage provider is set")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// reader converts looked-up strings, falling back to defaults on absence or parse failure.
type reader struct {
	lookup lookupFunc
}

func (r reader) getString(key, defaultValue string) string {
	if value, ok := r.lookup(key); ok {
		return value
	}
	return defaultValue
}

func (r reader) getInt(key string, defaultValue int) int {
	if value, ok := r.lookup(key); ok {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (r reader) getBool(key string, defaultValue bool) bool {
	if value, ok := r.lookup(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func (r reader) getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, ok := r.lookup(key); ok {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
