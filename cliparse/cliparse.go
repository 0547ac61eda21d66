package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/vote-ledger/models"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string
	ElectionName string
	Candidates   []string
	JWTSecret    string
	StoreTimeout time.Duration
	FeedMode     string
	PollInterval time.Duration
	AMQPURL      string
	AMQPExchange string

	// PrintAdminKey asks main to print the admin key and exit
	PrintAdminKey bool
}

// LoadDotEnv loads variables from path (default .env) without overriding
// variables already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var candidates string

	fs := flag.NewFlagSet("vote-ledger", flag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.DurationVar(&cfg.StoreTimeout, "timeout", 0, "Store operation timeout")

	// Election setup
	fs.StringVar(&cfg.ElectionName, "e", "", "Election name")
	fs.StringVar(&candidates, "c", "", "Comma-separated candidate names")

	// Notification feed
	fs.StringVar(&cfg.FeedMode, "feed", "", "Feed mode (push or poll)")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", 0, "Feed poll interval (1s-5s)")
	fs.StringVar(&cfg.AMQPURL, "amqp", "", "RabbitMQ URL for mirroring snapshots (optional)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Identity provider JWT secret (prefer env)")

	fs.BoolVar(&cfg.PrintAdminKey, "admin-key", false, "Print the admin key and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("invalid database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.StoreTimeout == 0 {
		d, err := durationEnv("STORE_TIMEOUT", 3*time.Second)
		if err != nil {
			return Config{}, err
		}
		cfg.StoreTimeout = d
	}
	if cfg.StoreTimeout < 0 {
		return Config{}, errors.New("store timeout must be positive")
	}

	if cfg.ElectionName == "" {
		cfg.ElectionName = os.Getenv("ELECTION_NAME")
		if cfg.ElectionName == "" {
			cfg.ElectionName = "default"
		}
	}

	if candidates == "" {
		candidates = os.Getenv("CANDIDATES")
	}
	cfg.Candidates = splitList(candidates)

	if cfg.FeedMode == "" {
		cfg.FeedMode = os.Getenv("FEED_MODE")
		if cfg.FeedMode == "" {
			cfg.FeedMode = models.FeedModePush
		}
	}
	if cfg.FeedMode != models.FeedModePush && cfg.FeedMode != models.FeedModePoll {
		return Config{}, fmt.Errorf("invalid feed mode %q (use push or poll)", cfg.FeedMode)
	}

	if cfg.PollInterval == 0 {
		d, err := durationEnv("POLL_INTERVAL", models.DefaultPollInterval)
		if err != nil {
			return Config{}, err
		}
		cfg.PollInterval = d
	}
	if cfg.PollInterval < models.MinPollInterval || cfg.PollInterval > models.MaxPollInterval {
		return Config{}, fmt.Errorf("poll interval %s out of range [%s, %s]",
			cfg.PollInterval, models.MinPollInterval, models.MaxPollInterval)
	}

	if cfg.AMQPURL == "" {
		cfg.AMQPURL = os.Getenv("AMQP_URL")
	}
	cfg.AMQPExchange = os.Getenv("AMQP_EXCHANGE")
	if cfg.AMQPExchange == "" {
		cfg.AMQPExchange = "vote-ledger.snapshots"
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	return cfg, nil
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", name, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
