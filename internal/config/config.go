package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the filmscope server and CLI.
type Config struct {
	// HTTP listener
	BindAddr         string
	PortCandidates   []string
	PortAutoFallback bool

	// Datasets (file path or http(s) URL)
	HorrorCSV     string
	NonHorrorCSV  string
	LoadTimeoutMS int

	// Page layout
	LayoutFile string

	// Comparison defaults
	ComparisonLimit string
	ComparisonSort  string

	// Line draw-in animation
	AnimationMS     int
	AnimationTickMS int

	// Exports and screenshots
	SnapshotDir         string
	CDPAddress          string
	CDPPort             int
	ScreenshotTimeoutMS int

	// Intent journal; empty disables it
	JournalDir string

	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		BindAddr:            getEnvOrDefault("FILMSCOPE_BIND_ADDR", "127.0.0.1:8190"),
		PortCandidates:      getEnvListOrDefault("FILMSCOPE_PORT_CANDIDATES", []string{"127.0.0.1:8191", "127.0.0.1:8192"}),
		PortAutoFallback:    getEnvBoolOrDefault("FILMSCOPE_PORT_AUTO_FALLBACK", true),
		HorrorCSV:           getEnvOrDefault("FILMSCOPE_HORROR_CSV", "data/Project Data - Horror Movies.csv"),
		NonHorrorCSV:        getEnvOrDefault("FILMSCOPE_NONHORROR_CSV", "data/Project Data - Non-Horror Movies.csv"),
		LoadTimeoutMS:       getEnvIntOrDefault("FILMSCOPE_LOAD_TIMEOUT_MS", 10000),
		LayoutFile:          getEnvOrDefault("FILMSCOPE_LAYOUT_FILE", "./config/layout.yaml"),
		ComparisonLimit:     strings.ToLower(getEnvOrDefault("FILMSCOPE_COMPARISON_LIMIT", "20")),
		ComparisonSort:      strings.ToLower(getEnvOrDefault("FILMSCOPE_COMPARISON_SORT", "abs-diff")),
		AnimationMS:         getEnvIntOrDefault("FILMSCOPE_ANIMATION_MS", 1000),
		AnimationTickMS:     getEnvIntOrDefault("FILMSCOPE_ANIMATION_TICK_MS", 50),
		SnapshotDir:         getEnvOrDefault("FILMSCOPE_SNAPSHOT_DIR", "./snapshots"),
		CDPAddress:          os.Getenv("CHROMIUM_CDP_ADDRESS"),
		CDPPort:             getEnvIntOrDefault("CHROMIUM_CDP_PORT", 9220),
		ScreenshotTimeoutMS: getEnvIntOrDefault("FILMSCOPE_SCREENSHOT_TIMEOUT_MS", 15000),
		JournalDir:          os.Getenv("FILMSCOPE_JOURNAL_DIR"),
		LogLevel:            strings.ToLower(getEnvOrDefault("FILMSCOPE_LOG_LEVEL", "info")),
		LogFile:             getEnvOrDefault("FILMSCOPE_LOG_FILE", "logs/filmscope.log"),
	}
	if cfg.LoadTimeoutMS < 1000 {
		cfg.LoadTimeoutMS = 1000
	}
	if cfg.AnimationMS < 0 {
		cfg.AnimationMS = 0
	}
	if cfg.AnimationTickMS < 10 {
		cfg.AnimationTickMS = 10
	}
	if cfg.ScreenshotTimeoutMS < 1000 {
		cfg.ScreenshotTimeoutMS = 1000
	}
	return cfg, nil
}

// LoadTimeout is the deadline for fetching both datasets.
func (c *Config) LoadTimeout() time.Duration {
	return time.Duration(c.LoadTimeoutMS) * time.Millisecond
}

// AnimationDuration is the line draw-in duration; zero disables it.
func (c *Config) AnimationDuration() time.Duration {
	return time.Duration(c.AnimationMS) * time.Millisecond
}

// AnimationTick is the interval between progress ticks.
func (c *Config) AnimationTick() time.Duration {
	return time.Duration(c.AnimationTickMS) * time.Millisecond
}

// ScreenshotTimeout bounds one headless-browser capture.
func (c *Config) ScreenshotTimeout() time.Duration {
	return time.Duration(c.ScreenshotTimeoutMS) * time.Millisecond
}

// GetCDPURL returns the CDP HTTP endpoint of an already running browser, or
// "" when a headless browser should be launched instead.
func (c *Config) GetCDPURL() string {
	if c.CDPAddress == "" {
		return ""
	}
	return fmt.Sprintf("http://%s:%d", c.CDPAddress, c.CDPPort)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
