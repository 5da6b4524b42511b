package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates all service configuration.
type Config struct {
	Server     ServerConfig
	Transcribe TranscribeConfig
	Minutes    MinutesConfig
}

// Load reads configuration from environment variables. Both upstream
// credentials are required; a missing one fails here with the variable
// name rather than as a cryptic downstream failure.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	transcribe, err := loadTranscribeConfig()
	if err != nil {
		return nil, err
	}

	minutes, err := loadMinutesConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Transcribe: transcribe, Minutes: minutes}, nil
}

// ServerConfig describes the HTTP listener and the hosted client page.
type ServerConfig struct {
	Addr        string
	StaticDir   string
	IdleTimeout time.Duration
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	addr := port
	if !strings.Contains(port, ":") {
		if strings.Contains(port, " ") {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		addr = ":" + port
	}

	idleSeconds, err := parseOptionalIntEnv("SESSION_IDLE_TIMEOUT")
	if err != nil {
		return ServerConfig{}, err
	}
	idle := 60 * time.Second
	if idleSeconds != nil {
		if *idleSeconds < 1 {
			return ServerConfig{}, fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive, got %d", *idleSeconds)
		}
		idle = time.Duration(*idleSeconds) * time.Second
	}

	return ServerConfig{
		Addr:        addr,
		StaticDir:   getEnvOrDefault("STATIC_DIR", "web/static"),
		IdleTimeout: idle,
	}, nil
}

// TranscribeConfig describes the Deepgram live transcription connection.
type TranscribeConfig struct {
	APIKey   string
	Model    string
	Language string
}

func loadTranscribeConfig() (TranscribeConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("DG_API_KEY"))
	if apiKey == "" {
		return TranscribeConfig{}, fmt.Errorf("DG_API_KEY is not set: a Deepgram API key is required")
	}

	return TranscribeConfig{
		APIKey:   apiKey,
		Model:    getEnvOrDefault("DEEPGRAM_MODEL", "nova-2"),
		Language: getEnvOrDefault("DEEPGRAM_LANGUAGE", "en-US"),
	}, nil
}

// MinutesConfig describes the minutes-generation model call. MaxTokens and
// Temperature stay nil when the variable is unset so an explicit zero
// survives to the service.
type MinutesConfig struct {
	APIKey      string
	Model       string
	MaxTokens   *int
	Temperature *float32
}

func loadMinutesConfig() (MinutesConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPEN_AI_TOKEN"))
	if apiKey == "" {
		return MinutesConfig{}, fmt.Errorf("OPEN_AI_TOKEN is not set: an OpenAI API key is required")
	}

	maxTokens, err := parseOptionalIntEnv("OPENAI_MAX_TOKENS")
	if err != nil {
		return MinutesConfig{}, err
	}

	temperature, err := parseOptionalFloat32Env("OPENAI_TEMPERATURE")
	if err != nil {
		return MinutesConfig{}, err
	}

	return MinutesConfig{
		APIKey:      apiKey,
		Model:       getEnvOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalFloat32Env(key string) (*float32, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	result := float32(val)
	return &result, nil
}
