package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       int    `env:"PORT" envDefault:"5001"`
	Dsn        string `env:"DSN" envDefault:"postgres://localhost:5432/love_map?sslmode=disable"`
	JwtSecret  string `env:"JWT_SECRET"`
	JwtExpires string `env:"JWT_EXPIRES" envDefault:"720h"`

	DefaultUsername    string `env:"DEFAULT_USERNAME" envDefault:"339233"`
	DefaultPassword    string `env:"DEFAULT_PASSWORD"`
	DefaultDisplayName string `env:"DEFAULT_DISPLAY_NAME" envDefault:"Us"`

	CorsOrigins        []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	LoginRatePerMinute int      `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
	// TrustProxy honours X-Forwarded-For / X-Real-IP. Enable only behind a
	// reverse proxy that overwrites those headers.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	BackupBucket   string `env:"BACKUP_BUCKET" envDefault:"love-map-backups"`

	KafkaBroker string `env:"KAFKA_BROKER"`
	KafkaTopic  string `env:"KAFKA_TOPIC" envDefault:"love-map.places"`

	GeocoderURL       string `env:"GEOCODER_URL"`
	GeocoderUserAgent string `env:"GEOCODER_USER_AGENT" envDefault:"love-map/1.0"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		log.Printf("[Env]: failed to parse environment variables: %v", parseErr)
	}

	if cfg.JwtSecret == "" {
		log.Printf("[Env]: JWT_SECRET not set, sessions will not survive a restart")
		cfg.JwtSecret = randomSecret()
	}

	return &cfg
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Panicln("[Env]: unable to generate JWT secret", err)
	}
	return hex.EncodeToString(b)
}
