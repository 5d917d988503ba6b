package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Model API
	Gemini GeminiConfig

	// CSV chat specifics
	Upload  UploadConfig
	Chat    ChatConfig
	Sandbox SandboxConfig
	Charts  ChartsConfig
	Session SessionConfig

	// Edge protection
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type UploadConfig struct {
	MaxBytes    int64
	PreviewRows int
}

type ChatConfig struct {
	MaxMessageChars int
}

type SandboxConfig struct {
	Timeout      time.Duration
	MaxCodeChars int
}

type ChartsConfig struct {
	Dir        string
	TTL        time.Duration
	MaxEntries int
}

type SessionConfig struct {
	TTL        time.Duration
	MaxEntries int
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/datachat/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/datachat/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Model API
	cfg.Gemini.APIKey = expandEnvVar(viper.GetString("gemini.api_key"))
	cfg.Gemini.Model = viper.GetString("gemini.model")
	if geminiKey := viper.GetString("gemini_api_key"); geminiKey != "" {
		cfg.Gemini.APIKey = geminiKey
	}

	// Upload
	cfg.Upload.MaxBytes = viper.GetInt64("upload.max_bytes")
	cfg.Upload.PreviewRows = viper.GetInt("upload.preview_rows")

	// Chat
	cfg.Chat.MaxMessageChars = viper.GetInt("chat.max_message_chars")

	// Sandbox
	cfg.Sandbox.Timeout = viper.GetDuration("sandbox.timeout")
	cfg.Sandbox.MaxCodeChars = viper.GetInt("sandbox.max_code_chars")

	// Charts
	cfg.Charts.Dir = viper.GetString("charts.dir")
	cfg.Charts.TTL = viper.GetDuration("charts.ttl")
	cfg.Charts.MaxEntries = viper.GetInt("charts.max_entries")

	// Sessions
	cfg.Session.TTL = viper.GetDuration("session.ttl")
	cfg.Session.MaxEntries = viper.GetInt("session.max_entries")

	// Rate limiting
	cfg.RateLimit.PerMinute = viper.GetInt("rate_limit.per_minute")
	cfg.RateLimit.Burst = viper.GetInt("rate_limit.burst")

	// Split allowed origins since viper might not parse array seamlessly from env
	var origins []string
	if rawOrigins := viper.GetString("cors.allowed_origins"); rawOrigins != "" {
		for _, origin := range strings.Split(rawOrigins, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	cfg.CORS.AllowedOrigins = origins

	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("gemini.api_key is not configured - set GEMINI_API_KEY or add it to config.yaml")
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "development")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("gemini.model", "gemini-2.5-flash")

	viper.SetDefault("upload.max_bytes", int64(100*1024*1024))
	viper.SetDefault("upload.preview_rows", 100)

	viper.SetDefault("chat.max_message_chars", 4000)

	viper.SetDefault("sandbox.timeout", "2s")
	viper.SetDefault("sandbox.max_code_chars", 2000)

	viper.SetDefault("charts.dir", "./visualizations")
	viper.SetDefault("charts.ttl", "24h")
	viper.SetDefault("charts.max_entries", 512)

	viper.SetDefault("session.ttl", "2h")
	viper.SetDefault("session.max_entries", 1024)

	viper.SetDefault("rate_limit.per_minute", 60)
	viper.SetDefault("rate_limit.burst", 10)

	viper.SetDefault("cors.allowed_origins", "*")
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	// Check if value is in format ${VAR_NAME}
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		// Try viper first (handles both env and config)
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		// Try lowercase version
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		// Try direct os.Getenv as last resort
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}
