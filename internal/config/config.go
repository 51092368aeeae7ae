package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the cancerscan server.
type Config struct {
	Server    ServerConfig
	Model     ModelConfig
	S3        S3Config
	Store     StoreConfig
	Firestore FirestoreConfig
	Database  DatabaseConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
}

type ServerConfig struct {
	Port           int
	Env            string
	MaxUploadBytes int64
}

type ModelConfig struct {
	Source      string
	URL         string
	Bucket      string
	Object      string
	LoadTimeout time.Duration
	LibraryPath string
	InputName   string
	OutputName  string
	OutputSize  int
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type StoreConfig struct {
	Driver     string
	Collection string
	Timeout    time.Duration
}

type FirestoreConfig struct {
	ProjectID string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SQLiteConfig struct {
	Path string
}

// RedisConfig configures the prediction event publisher. An empty URL
// disables publishing.
type RedisConfig struct {
	URL     string
	Channel string
}

const (
	ModelSourceHTTP = "http"
	ModelSourceS3   = "s3"

	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
	StoreSQLite    = "sqlite"
)

const defaultModelURL = "https://storage.googleapis.com/bucket-submissionmlgc-amyusran/model.onnx"

var validStores = map[string]bool{
	StoreFirestore: true,
	StorePostgres:  true,
	StoreSQLite:    true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           envInt("PORT", 8080),
			Env:            envString("APP_ENV", "development"),
			MaxUploadBytes: int64(envInt("MAX_UPLOAD_BYTES", 1000000)),
		},
		Model: ModelConfig{
			Source:      envString("MODEL_SOURCE", ModelSourceHTTP),
			URL:         envString("MODEL_URL", defaultModelURL),
			Bucket:      os.Getenv("MODEL_BUCKET"),
			Object:      envString("MODEL_OBJECT", "model.onnx"),
			LoadTimeout: envDuration("MODEL_LOAD_TIMEOUT", 2*time.Minute),
			LibraryPath: os.Getenv("ONNXRUNTIME_LIB_PATH"),
			InputName:   envString("MODEL_INPUT_NAME", "input"),
			OutputName:  envString("MODEL_OUTPUT_NAME", "output"),
			OutputSize:  envInt("MODEL_OUTPUT_SIZE", 1),
		},
		S3: S3Config{
			Endpoint:  envString("S3_ENDPOINT", "storage.googleapis.com"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			UseSSL:    envBool("S3_USE_SSL", true),
		},
		Store: StoreConfig{
			Driver:     envString("STORE_DRIVER", StoreFirestore),
			Collection: envString("STORE_COLLECTION", "predictions"),
			Timeout:    envDuration("STORE_TIMEOUT", 10*time.Second),
		},
		Firestore: FirestoreConfig{
			ProjectID: envString("FIRESTORE_PROJECT_ID", os.Getenv("GOOGLE_CLOUD_PROJECT")),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		SQLite: SQLiteConfig{
			Path: envString("SQLITE_PATH", "cancerscan.db"),
		},
		Redis: RedisConfig{
			URL:     os.Getenv("REDIS_URL"),
			Channel: envString("REDIS_CHANNEL", "predictions.created"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.Server.MaxUploadBytes)
	}

	switch c.Model.Source {
	case ModelSourceHTTP:
		if !strings.HasPrefix(c.Model.URL, "http://") && !strings.HasPrefix(c.Model.URL, "https://") {
			return fmt.Errorf("MODEL_URL must start with http:// or https://, got %q", c.Model.URL)
		}
	case ModelSourceS3:
		if c.Model.Bucket == "" {
			return fmt.Errorf("MODEL_BUCKET is required when MODEL_SOURCE is s3")
		}
		if c.Model.Object == "" {
			return fmt.Errorf("MODEL_OBJECT is required when MODEL_SOURCE is s3")
		}
		if c.S3.Endpoint == "" {
			return fmt.Errorf("S3_ENDPOINT is required when MODEL_SOURCE is s3")
		}
	default:
		return fmt.Errorf("MODEL_SOURCE must be one of http, s3; got %q", c.Model.Source)
	}
	if c.Model.OutputSize <= 0 {
		return fmt.Errorf("MODEL_OUTPUT_SIZE must be positive, got %d", c.Model.OutputSize)
	}

	if !validStores[c.Store.Driver] {
		return fmt.Errorf("STORE_DRIVER must be one of firestore, postgres, sqlite; got %q", c.Store.Driver)
	}
	if c.Store.Driver == StoreFirestore && c.Firestore.ProjectID == "" {
		return fmt.Errorf("FIRESTORE_PROJECT_ID is required when STORE_DRIVER is firestore")
	}
	if c.Store.Driver == StorePostgres && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is postgres")
	}
	if c.Store.Driver == StoreSQLite && c.SQLite.Path == "" {
		return fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER is sqlite")
	}

	if c.Redis.URL != "" && !strings.HasPrefix(c.Redis.URL, "redis://") && !strings.HasPrefix(c.Redis.URL, "rediss://") {
		return fmt.Errorf("REDIS_URL must start with redis:// or rediss://, got %q", c.Redis.URL)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
