// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Store driver: postgres (hosted), sqlite (local file) or memory (demo)
	Driver      string `yaml:"driver" env:"JOBTRACK_DRIVER"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
	SQLitePath  string `yaml:"sqlite_path" env:"JOBTRACK_SQLITE_PATH"`
	//Paths
	StateDir string `yaml:"state_dir" env:"JOBTRACK_STATE_DIR"`
	//HTTP
	Port string `yaml:"port" env:"PORT"`
	//Reminder digest (optional)
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	path := os.Getenv("JOBTRACK_CONFIG")
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: Could not read %s: %v", path, err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", path, err)
		}
	}

	//Override with env vars
	if driver := os.Getenv("JOBTRACK_DRIVER"); driver != "" {
		cfg.Driver = driver
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
	if sqlitePath := os.Getenv("JOBTRACK_SQLITE_PATH"); sqlitePath != "" {
		cfg.SQLitePath = sqlitePath
	}
	if stateDir := os.Getenv("JOBTRACK_STATE_DIR"); stateDir != "" {
		cfg.StateDir = stateDir
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	//Set default values if not set
	if cfg.Driver == "" {
		cfg.Driver = "sqlite"
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "jobtrack.sqlite"
	}
	if cfg.StateDir == "" {
		cfg.StateDir = ".state"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	//Validate required fields
	switch cfg.Driver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			log.Fatal("DATABASE_URL is required when driver is postgres")
		}
	case "sqlite", "memory":
	default:
		log.Fatalf("Unknown driver %q (expected postgres, sqlite or memory)", cfg.Driver)
	}

	return cfg
}

// TelegramEnabled reports whether the reminder digest reporter can run.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
