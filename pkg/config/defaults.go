// Package config provides centralized default values for the page-tree
// editor service
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

// loadEnvFile reads .env without overriding variables already set in the
// process environment
func loadEnvFile() {
	envLoaded.Do(func() {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		log.Println("Loading configuration overrides from .env file...")
		if err := godotenv.Load(); err != nil {
			log.Printf("Failed to load .env file: %v", err)
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

// getEnvSecret behaves like getEnvString but never logs the value
func getEnvSecret(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=<redacted>", key)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	log.Printf("Config override: %s=%v", key, out)
	return out
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	CORSOrigins        []string

	// Database
	DBDriver           string // "sqlite3" or "libsql"
	DBPath             string
	TursoDatabaseURL   string
	TursoAuthToken     string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetime  time.Duration
	SlowQueryThreshold time.Duration
	SeedStarter        string

	// Editor
	HistoryLimit       int
	SessionIdleTimeout time.Duration
	MaxSessions        int
	TabletVariant      string
	MobileVariant      string

	// Caching
	DocumentCacheTTL time.Duration
	CleanupInterval  time.Duration
	CleanupVerbose   bool

	// Auth
	JWTSecret          string
	EditorUser         string
	EditorPasswordHash string
	TokenTTL           time.Duration

	// Media
	MaxUploadBytes int
	ImageMaxWidth  int
	WebPQuality    int

	// WebSocket
	SocketPingInterval time.Duration
	SocketWriteTimeout time.Duration

	// Logging
	LogLevel     string
	LogJSON      bool
	LogToFile    bool
	LogDirectory string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	CORSOrigins = getEnvList("CORS_ORIGINS", []string{"http://localhost:4321", "http://localhost:3000"})

	// Database
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBPath = getEnvString("DB_PATH", "./db/pagetree.db")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvSecret("TURSO_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond)
	SeedStarter = getEnvString("SEED_STARTER", "hotel-landing")

	// Editor
	HistoryLimit = getEnvInt("HISTORY_LIMIT", 100)
	SessionIdleTimeout = getEnvDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour)
	MaxSessions = getEnvInt("MAX_SESSIONS", 500)
	TabletVariant = getEnvString("TABLET_VARIANT", "max-lg:")
	MobileVariant = getEnvString("MOBILE_VARIANT", "max-md:")

	// Caching
	DocumentCacheTTL = getEnvDuration("DOCUMENT_CACHE_TTL", time.Hour)
	CleanupInterval = getEnvDuration("CLEANUP_INTERVAL", 5*time.Minute)
	CleanupVerbose = getEnvBool("CLEANUP_VERBOSE", false)

	// Auth
	JWTSecret = getEnvSecret("JWT_SECRET", "")
	EditorUser = getEnvString("EDITOR_USER", "editor")
	EditorPasswordHash = getEnvSecret("EDITOR_PASSWORD_HASH", "")
	TokenTTL = getEnvDuration("TOKEN_TTL", 12*time.Hour)

	// Media
	MaxUploadBytes = getEnvInt("MAX_UPLOAD_BYTES", 8<<20)
	ImageMaxWidth = getEnvInt("IMAGE_MAX_WIDTH", 1920)
	WebPQuality = getEnvInt("WEBP_QUALITY", 85)

	// WebSocket
	SocketPingInterval = getEnvDuration("SOCKET_PING_INTERVAL", 30*time.Second)
	SocketWriteTimeout = getEnvDuration("SOCKET_WRITE_TIMEOUT", 10*time.Second)

	// Logging
	LogLevel = getEnvString("LOG_LEVEL", "INFO")
	LogJSON = getEnvBool("LOG_JSON", true)
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
}
