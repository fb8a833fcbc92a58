package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration
type Config struct {
	Port              int
	ServerType        string // "websocket" or "console"
	RedisURL          string
	RedisPassword     string
	MaxSessions       int
	SessionTimeout    time.Duration
	AllowedOrigins    []string
	KeepAlivePeriod   time.Duration
	MaxTranscriptSize int    // Maximum transcript buffer size in bytes per session
	DocsPath          string // Folder with the insurance document corpus
}

// LoadConfig loads configuration from environment variables with defaults
func LoadConfig() (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	config := &Config{
		Port:              8080,
		ServerType:        "websocket",
		RedisURL:          "localhost:6379",
		RedisPassword:     "",
		MaxSessions:       100,
		SessionTimeout:    30 * time.Minute,
		AllowedOrigins:    []string{"*"},
		KeepAlivePeriod:   30 * time.Second,
		MaxTranscriptSize: 64 * 1024,
		DocsPath:          "docs",
	}

	// Optional: PORT
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		config.Port = p
	}

	// Optional: REDIS_URL
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		config.RedisURL = redisURL
	}

	// Optional: REDIS_PASSWORD
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.RedisPassword = redisPassword
	}

	// Optional: MAX_SESSIONS
	if maxSessions := os.Getenv("MAX_SESSIONS"); maxSessions != "" {
		m, err := strconv.Atoi(maxSessions)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_SESSIONS: %w", err)
		}
		config.MaxSessions = m
	}

	// Optional: SESSION_TIMEOUT (in minutes)
	if timeout := os.Getenv("SESSION_TIMEOUT"); timeout != "" {
		t, err := strconv.Atoi(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TIMEOUT: %w", err)
		}
		config.SessionTimeout = time.Duration(t) * time.Minute
	}

	// Optional: ALLOWED_ORIGINS (comma-separated)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	// Optional: KEEPALIVE_PERIOD (in seconds)
	if keepalive := os.Getenv("KEEPALIVE_PERIOD"); keepalive != "" {
		k, err := strconv.Atoi(keepalive)
		if err != nil {
			return nil, fmt.Errorf("invalid KEEPALIVE_PERIOD: %w", err)
		}
		config.KeepAlivePeriod = time.Duration(k) * time.Second
	}

	// Optional: MAX_TRANSCRIPT_SIZE (in bytes)
	if transcriptSize := os.Getenv("MAX_TRANSCRIPT_SIZE"); transcriptSize != "" {
		b, err := strconv.Atoi(transcriptSize)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_TRANSCRIPT_SIZE: %w", err)
		}
		config.MaxTranscriptSize = b
	}

	// Optional: DOCS_PATH
	if docsPath := os.Getenv("DOCS_PATH"); docsPath != "" {
		config.DocsPath = docsPath
	}

	// Optional: SERVER_TYPE ("websocket" or "console")
	if serverType := os.Getenv("SERVER_TYPE"); serverType != "" {
		switch serverType {
		case "websocket", "console":
			config.ServerType = serverType
		default:
			return nil, fmt.Errorf("invalid SERVER_TYPE: must be 'websocket' or 'console'")
		}
	}

	return config, nil
}
