package app

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"poptique_list/internal/notifications"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	level, known := ParseLevel(levelStr)
	zerolog.SetGlobalLevel(level)
	if !known {
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// ParseLevel maps a LOGLEVEL value to a zerolog level. The second result is
// false for unrecognised values, which fall back to info.
func ParseLevel(levelStr string) (zerolog.Level, bool) {
	switch levelStr {
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "fatal":
		return zerolog.FatalLevel, true
	case "panic":
		return zerolog.PanicLevel, true
	case "disabled":
		return zerolog.Disabled, true
	case "":
		// Default based on environment
		if os.Getenv("ENV") == "production" {
			return zerolog.WarnLevel, true
		}
		return zerolog.InfoLevel, true
	default:
		return zerolog.InfoLevel, false
	}
}

// RedirectLogsForTUI sends log output to LOGFILE, or drops it when LOGFILE is
// unset, so the terminal UI is not overwritten. The returned closer must be
// called on exit.
func RedirectLogsForTUI() io.Closer {
	path := os.Getenv("LOGFILE")
	if path == "" {
		log.Logger = zerolog.Nop()
		return io.NopCloser(nil)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to open LOGFILE; disabling logs")
		log.Logger = zerolog.Nop()
		return io.NopCloser(nil)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return f
}

// GetRequiredEnv fetches a required environment variable or exits if not set.
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Msgf("%s environment variable is required", key)
	}
	return value
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Settings is the environment-derived configuration shared by the commands.
type Settings struct {
	ScriptURL  string
	ProxyAddr  string
	APIBase    string
	APIOrigin  string
	ConfigPath string

	BackendAddr       string
	BackendStore      string
	SpreadsheetID     string
	SpreadsheetRange  string
	GoogleCredentials string
	SQLitePath        string

	NtfyEnabled bool
	NtfyURL     string
	NtfyTopic   string
}

// LoadSettings reads Settings from the environment. Nothing is required here;
// each command checks the values it needs.
func LoadSettings() Settings {
	ntfyEnabled, _ := strconv.ParseBool(GetEnvWithDefault("NTFY_ENABLED", "false"))
	return Settings{
		// An empty SCRIPT_URL is reported per request by the proxy.
		ScriptURL:  os.Getenv("SCRIPT_URL"),
		ProxyAddr:  GetEnvWithDefault("PROXY_ADDR", ":8080"),
		APIBase:    GetEnvWithDefault("API_BASE", "/api/proxy"),
		APIOrigin:  GetEnvWithDefault("API_ORIGIN", "http://localhost:8080"),
		ConfigPath: GetEnvWithDefault("SHOPLIST_CONFIG", "shoplist.yaml"),

		BackendAddr:       GetEnvWithDefault("BACKEND_ADDR", ":8081"),
		BackendStore:      GetEnvWithDefault("BACKEND_STORE", "sheets"),
		SpreadsheetID:     os.Getenv("SPREADSHEET_ID"),
		SpreadsheetRange:  GetEnvWithDefault("SPREADSHEET_RANGE", "List!A1"),
		GoogleCredentials: GetEnvWithDefault("GOOGLE_CREDENTIALS", "credentials.json"),
		SQLitePath:        GetEnvWithDefault("SQLITE_PATH", "shoplist.db"),

		NtfyEnabled: ntfyEnabled,
		NtfyURL:     GetEnvWithDefault("NTFY_URL", "https://ntfy.sh"),
		NtfyTopic:   GetEnvWithDefault("NTFY_TOPIC", "poptique-list"),
	}
}

// InitializeNotificationClient creates the backend notification client.
func InitializeNotificationClient(s Settings) *notifications.Client {
	log.Debug().
		Bool("enabled", s.NtfyEnabled).
		Str("base_url", s.NtfyURL).
		Str("topic", s.NtfyTopic).
		Msg("Initializing notification client")

	client := notifications.NewClient(s.NtfyURL, s.NtfyTopic, s.NtfyEnabled)

	if s.NtfyEnabled {
		log.Info().Str("topic", s.NtfyTopic).Msg("Notifications enabled")
	} else {
		log.Debug().Msg("Notifications disabled")
	}
	return client
}
