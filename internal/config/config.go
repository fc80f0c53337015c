package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Mongo holds document-store connection settings.
type Mongo struct {
	URI      string
	Database string
}

// MinIO holds object-storage connection settings. Vehicle and spare
// images land in separate buckets.
type MinIO struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	UseSSL         bool
	Region         string
	VehiclesBucket string
	SparesBucket   string
	PublicBaseURL  string
}

// MQTT holds the optional listing-events broker settings. Events are
// disabled when BrokerURL is empty.
type MQTT struct {
	BrokerURL   string
	ClientID    string
	TopicPrefix string
}

// Config is the full process configuration, loaded from the environment
// (optionally seeded from a .env file).
type Config struct {
	ServerPort    int
	Mongo         Mongo
	MinIO         MinIO
	MQTT          MQTT
	JWTSecret     string
	JWTExpiry     time.Duration
	MaxUploadSize int64
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment variables")
	}

	return &Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),
		Mongo: Mongo{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "marketplace"),
		},
		MinIO: MinIO{
			Endpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:      getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:      getEnv("MINIO_SECRET_KEY", "minioadmin"),
			UseSSL:         getEnvBool("MINIO_USE_SSL", false),
			Region:         getEnv("MINIO_REGION", "us-east-1"),
			VehiclesBucket: getEnv("MINIO_BUCKET_VEHICLES", "vehicles"),
			SparesBucket:   getEnv("MINIO_BUCKET_SPARES", "spares"),
			PublicBaseURL:  getEnv("MINIO_PUBLIC_URL", "http://localhost:9000"),
		},
		MQTT: MQTT{
			BrokerURL:   getEnv("MQTT_BROKER_URL", ""),
			ClientID:    getEnv("MQTT_CLIENT_ID", "marketplace-api"),
			TopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "marketplace/listings"),
		},
		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiry:     getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 10*1024*1024),
	}
}
