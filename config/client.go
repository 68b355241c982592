package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ClientConfig configures the lovemap command line client.
type ClientConfig struct {
	APIURL        string `env:"LOVEMAP_API_URL" envDefault:"http://localhost:5001"`
	Token         string `env:"LOVEMAP_TOKEN"`
	CacheDir      string `env:"LOVEMAP_CACHE_DIR"`
	OfflineCreate bool   `env:"LOVEMAP_OFFLINE_CREATE" envDefault:"false"`
	RequestSource string `env:"LOVEMAP_REQUEST_SOURCE" envDefault:"cli"`
}

func NewClient() (*ClientConfig, error) {
	if loadErr := godotenv.Load(".env"); loadErr != nil && !os.IsNotExist(loadErr) {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.CacheDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			cfg.CacheDir = filepath.Join(dir, "lovemap")
		}
	}
	return &cfg, nil
}
