package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime settings shared by the terminal client and the gateway
type Config struct {
	// Backend
	BackendURL  string
	HTTPTimeout time.Duration // zero means no client-side timeout

	// Local state
	StateDir string
	LogDir   string
	LogLevel string

	// Persistence backend: "file" or "redis"
	Store StoreConfig

	// Exports
	DownloadDir string
	S3          S3Config

	// Media player: "mpv" or "link"
	Player  string
	MPVPath string

	// Gateway
	Port      string
	RateLimit RateLimitConfig
	Kafka     KafkaConfig
	YouTube   YouTubeConfig

	// Theme override from the command line ("dark", "light" or "")
	Theme string
}

// StoreConfig selects where the recent list and theme preference live
type StoreConfig struct {
	Kind          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// S3Config configures the optional bucket sink for exported files
type S3Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Profile      string
	UsePathStyle bool
}

// RateLimitConfig bounds gateway /process traffic
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// KafkaConfig configures processed-video event publishing; empty brokers disables it
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string // consumer group of the terminal client's live recent feed
}

// YouTubeConfig enables gateway metadata lookups; a credentials file wins over the key
type YouTubeConfig struct {
	APIKey          string
	CredentialsFile string
}

// Enabled reports whether any credential is set
func (y YouTubeConfig) Enabled() bool {
	return y.APIKey != "" || y.CredentialsFile != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	stateDir := getEnv("VIDBRIEF_STATE_DIR", defaultStateDir())

	cfg := &Config{
		BackendURL:  strings.TrimRight(getEnv("VIDBRIEF_BACKEND_URL", DefaultBackendURL), "/"),
		HTTPTimeout: getEnvAsDuration("VIDBRIEF_HTTP_TIMEOUT", 0),

		StateDir: stateDir,
		LogDir:   getEnv("VIDBRIEF_LOG_DIR", filepath.Join(stateDir, "logs")),
		LogLevel: getEnv("VIDBRIEF_LOG_LEVEL", "info"),

		Store: StoreConfig{
			Kind:          getEnv("VIDBRIEF_STORE", "file"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASS"),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			RedisPrefix:   getEnv("VIDBRIEF_REDIS_PREFIX", "vidbrief:"),
		},

		DownloadDir: getEnv("VIDBRIEF_DOWNLOAD_DIR", defaultDownloadDir()),
		S3: S3Config{
			Bucket:       os.Getenv("VIDBRIEF_S3_BUCKET"),
			Prefix:       getEnv("VIDBRIEF_S3_PREFIX", "exports/"),
			Region:       os.Getenv("AWS_REGION"),
			Profile:      os.Getenv("AWS_PROFILE"),
			UsePathStyle: getEnvAsBool("VIDBRIEF_S3_PATH_STYLE", false),
		},

		Player:  getEnv("VIDBRIEF_PLAYER", "link"),
		MPVPath: getEnv("VIDBRIEF_MPV_PATH", "mpv"),

		Port: getEnv("PORT", "8080"),
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("VIDBRIEF_RATE_LIMIT_RPM", 30),
			Burst:             getEnvAsInt("VIDBRIEF_RATE_LIMIT_BURST", 5),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvAsStringSlice("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "vidbrief.video.processed"),
			GroupID: getEnv("KAFKA_GROUP_ID", "vidbrief-tui"),
		},
		YouTube: YouTubeConfig{
			APIKey:          os.Getenv("YOUTUBE_API_KEY"),
			CredentialsFile: os.Getenv("YOUTUBE_CREDENTIALS_FILE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and enumerations
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend URL is required")
	}
	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return fmt.Errorf("backend URL must start with http:// or https://")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must not be negative")
	}
	if c.StateDir == "" {
		return fmt.Errorf("state directory is required")
	}
	switch c.Store.Kind {
	case "file", "redis":
	default:
		return fmt.Errorf("unknown store %q (want file or redis)", c.Store.Kind)
	}
	switch c.Player {
	case "mpv", "link":
	default:
		return fmt.Errorf("unknown player %q (want mpv or link)", c.Player)
	}
	switch c.Theme {
	case "", "dark", "light":
	default:
		return fmt.Errorf("unknown theme %q (want dark or light)", c.Theme)
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}
	return nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "vidbrief")
	}
	return filepath.Join(os.TempDir(), "vidbrief")
}

func defaultDownloadDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Downloads")
	}
	return "."
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			parts := strings.Split(value, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out
		}
	}
	return defaultValue
}
