package resources

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	FallbackSourceEmbedded = "embedded"
	FallbackSourcePostgres = "postgres"
)

type ServerConfig struct {
	Host      string
	Port      string
	DebugPort string
}

type LogConfig struct {
	Level  string
	Format string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type EventsConfig struct {
	City           string
	FallbackDelay  time.Duration
	FallbackSource string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type TelemetryConfig struct {
	Enabled  bool
	Endpoint string
}

type MapConfig struct {
	SDKURL       string
	PollInterval time.Duration
	WaitTimeout  time.Duration
}

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Gemini    GeminiConfig
	Events    EventsConfig
	Database  DatabaseConfig
	Telemetry TelemetryConfig
	Map       MapConfig
}

// LoadConfig reads the environment, after loading the optional env files into it.
// Variables already set in the environment win over the files.
func LoadConfig(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		err := godotenv.Load(file)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	return NewConfig(v)
}

func NewConfig(v *viper.Viper) (*Config, error) {
	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DEBUG_PORT", "6060")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_TIMEOUT", "30s")
	v.SetDefault("EVENTS_CITY", "Busan, South Korea")
	v.SetDefault("FALLBACK_DELAY", "800ms")
	v.SetDefault("FALLBACK_SOURCE", FallbackSourceEmbedded)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "culture_events")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_ENDPOINT", "localhost:4317")
	v.SetDefault("MAP_POLL_INTERVAL", "100ms")
	v.SetDefault("MAP_WAIT_TIMEOUT", "3s")

	// API_KEY is the name the key had in the browser build.
	_ = v.BindEnv("GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY")

	cfg := &Config{
		Server: ServerConfig{
			Host:      v.GetString("SERVER_HOST"),
			Port:      v.GetString("SERVER_PORT"),
			DebugPort: v.GetString("DEBUG_PORT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Gemini: GeminiConfig{
			APIKey:  v.GetString("GEMINI_API_KEY"),
			Model:   v.GetString("GEMINI_MODEL"),
			BaseURL: v.GetString("GEMINI_BASE_URL"),
			Timeout: v.GetDuration("GEMINI_TIMEOUT"),
		},
		Events: EventsConfig{
			City:           v.GetString("EVENTS_CITY"),
			FallbackDelay:  v.GetDuration("FALLBACK_DELAY"),
			FallbackSource: v.GetString("FALLBACK_SOURCE"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		Telemetry: TelemetryConfig{
			Enabled:  v.GetBool("OTEL_ENABLED"),
			Endpoint: v.GetString("OTEL_ENDPOINT"),
		},
		Map: MapConfig{
			SDKURL:       v.GetString("MAP_SDK_URL"),
			PollInterval: v.GetDuration("MAP_POLL_INTERVAL"),
			WaitTimeout:  v.GetDuration("MAP_WAIT_TIMEOUT"),
		},
	}

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every invalid setting at once. A missing API key is not an error.
func (c *Config) Validate() error {
	var errs []error

	for name, port := range map[string]string{"SERVER_PORT": c.Server.Port, "DEBUG_PORT": c.Server.DebugPort} {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			errs = append(errs, fmt.Errorf("%s must be a port number, got %q", name, port))
		}
	}

	_, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format))
	}

	if c.Gemini.Timeout <= 0 {
		errs = append(errs, errors.New("GEMINI_TIMEOUT must be positive"))
	}

	if c.Events.FallbackDelay < 0 {
		errs = append(errs, errors.New("FALLBACK_DELAY must not be negative"))
	}

	if c.Events.FallbackSource != FallbackSourceEmbedded && c.Events.FallbackSource != FallbackSourcePostgres {
		errs = append(errs, fmt.Errorf("FALLBACK_SOURCE must be %s or %s, got %q",
			FallbackSourceEmbedded, FallbackSourcePostgres, c.Events.FallbackSource))
	}

	if c.Map.PollInterval <= 0 || c.Map.WaitTimeout <= 0 {
		errs = append(errs, errors.New("MAP_POLL_INTERVAL and MAP_WAIT_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}
