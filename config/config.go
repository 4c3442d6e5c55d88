package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port         string `envconfig:"PORT"           default:"8080"`
	DatabaseURL  string `envconfig:"DATABASE_URL"   default:""` // empty = JSON file store
	DataFile     string `envconfig:"DATA_FILE"      default:"data/store.json"`
	UploadDir    string `envconfig:"UPLOAD_DIR"     default:"static/uploads"`
	SessionKey   string `envconfig:"SESSION_KEY"    default:"dev-session-key-change-me"`
	CSRFKey      string `envconfig:"CSRF_KEY"       default:"dev-csrf-key-32-bytes-change-me"`
	CookieSecure bool   `envconfig:"COOKIE_SECURE"  default:"false"`
	SeedDemoData bool   `envconfig:"SEED_DEMO_DATA" default:"true"`
	LogLevel     string `envconfig:"LOG_LEVEL"      default:"info"`
}

var (
	config Config
	once   sync.Once
)

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		if err := envconfig.Process("", &config); err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}

		logger.Infof("Configuration loaded: Port=%s, LogLevel=%s", config.Port, config.LogLevel)
		if config.DatabaseURL != "" {
			logger.Info("Configuration loaded: DatabaseURL is set, using PostgreSQL storage")
		} else {
			logger.Infof("Configuration loaded: no DATABASE_URL, using JSON file storage at %s", config.DataFile)
		}
	})
	return &config
}
