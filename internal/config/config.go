package config

import (
	"os"
	"strconv"
	"time"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"

	StorageLocal = "local"
	StorageMinIO = "minio"
)

// DatastoreConfig selects the document datastore and holds its connection settings.
// URL and Name mirror DATABASE_URL and DATABASE_NAME; the diagnostic endpoint only checks that they are set.
type DatastoreConfig struct {
	Driver            string
	URL               string
	Name              string
	Collection        string
	ConnectTimeoutSec int
}

// DatabaseConfig holds PostgreSQL database connection settings.
// Used only when DatastoreConfig.Driver is "postgres" and DATABASE_URL is empty.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// StorageConfig holds blob storage settings for uploaded files.
type StorageConfig struct {
	Driver        string
	LocalDir      string // objects land at LocalDir/<key>, e.g. /tmp/uploads/<ts>_<uuid>.pdf
	Retention     time.Duration
	SweepInterval time.Duration
	MaxUploadSize int
	PresignExpiry time.Duration
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port      string
	LogLevel  string
	Datastore DatastoreConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	MinIO     MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:     getEnv("PORT", "8000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Datastore: DatastoreConfig{
			Driver:            getEnv("DATASTORE_DRIVER", DriverMongo),
			URL:               getEnv("DATABASE_URL", ""),
			Name:              getEnv("DATABASE_NAME", ""),
			Collection:        getEnv("DATABASE_COLLECTION", "document"),
			ConnectTimeoutSec: getEnvInt("DATABASE_CONNECT_TIMEOUT_SEC", 5),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Driver:        getEnv("STORAGE_DRIVER", StorageLocal),
			LocalDir:      getEnv("UPLOAD_DIR", "/tmp"),
			Retention:     getEnvDuration("UPLOAD_RETENTION", 24*time.Hour),
			SweepInterval: getEnvDuration("UPLOAD_SWEEP_INTERVAL", 15*time.Minute),
			MaxUploadSize: getEnvInt("UPLOAD_MAX_BYTES", 64<<20),
			PresignExpiry: getEnvDuration("PRESIGN_EXPIRY", 15*time.Minute),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvDuration accepts Go duration strings ("90s", "24h").
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
	}
	return def
}
