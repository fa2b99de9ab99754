package config

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/joho/godotenv"
)

const (
	EnvLogLevel     = "LIBRARY_LOG_LEVEL"
	EnvLogFormat    = "LIBRARY_LOG_FORMAT"
	EnvJournal      = "LIBRARY_JOURNAL"
	EnvJournalDSN   = "LIBRARY_JOURNAL_DSN"
	EnvJournalTable = "LIBRARY_JOURNAL_TABLE"
	EnvServiceName  = "LIBRARY_SERVICE_NAME"

	JournalMemory = "memory"
	JournalPGX    = "pgx"
	JournalSQL    = "sql"
	JournalSQLX   = "sqlx"

	LogFormatText = "text"
	LogFormatJSON = "json"

	defaultEnvFile      = ".env"
	defaultLogLevel     = "info"
	defaultJournalTable = "library_journal"
	defaultServiceName  = "library-circulation"
)

var (
	// ErrReadingEnvFileFailed is returned when an existing env file cannot be parsed.
	ErrReadingEnvFileFailed = errors.New("reading env file failed")

	// ErrInvalidConfig is returned when a setting is missing or out of range.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config holds the desk's settings.
type Config struct {
	LogLevel     string `validate:"oneof=debug info warn error"`
	LogFormat    string `validate:"oneof=text json"`
	Journal      string `validate:"oneof=memory pgx sql sqlx"`
	JournalDSN   string `validate:"required_unless=Journal memory"`
	JournalTable string `validate:"required,notblank"`
	ServiceName  string `validate:"required,notblank"`
}

// LookupFunc resolves a setting by name, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads envFiles (".env" if none are given) and the environment; the environment wins.
// Missing env files are skipped.
func Load(envFiles ...string) (Config, error) {
	fileValues, err := readEnvFiles(envFiles)
	if err != nil {
		return Config{}, err
	}

	return FromLookup(func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}

		value, ok := fileValues[key]

		return value, ok
	})
}

// FromLookup builds and validates a Config, applying defaults for unset values.
func FromLookup(lookup LookupFunc) (Config, error) {
	cfg := Config{
		LogLevel:     valueOr(lookup, EnvLogLevel, defaultLogLevel),
		LogFormat:    valueOr(lookup, EnvLogFormat, LogFormatText),
		Journal:      valueOr(lookup, EnvJournal, JournalMemory),
		JournalDSN:   valueOr(lookup, EnvJournalDSN, ""),
		JournalTable: valueOr(lookup, EnvJournalTable, defaultJournalTable),
		ServiceName:  valueOr(lookup, EnvServiceName, defaultServiceName),
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}

	return cfg, nil
}

// SlogLevel returns the configured log level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogHandler creates the configured text or JSON handler writing to w.
func (c Config) NewLogHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}

	if c.LogFormat == LogFormatJSON {
		return slog.NewJSONHandler(w, opts)
	}

	return slog.NewTextHandler(w, opts)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	return v
}

func readEnvFiles(envFiles []string) (map[string]string, error) {
	if len(envFiles) == 0 {
		envFiles = []string{defaultEnvFile}
	}

	values := make(map[string]string)

	for _, envFile := range envFiles {
		fileValues, err := godotenv.Read(envFile)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, errors.Join(ErrReadingEnvFileFailed, err)
		}

		for key, value := range fileValues {
			if _, ok := values[key]; !ok {
				values[key] = value
			}
		}
	}

	return values, nil
}

func valueOr(lookup LookupFunc, key string, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}

	return fallback
}
