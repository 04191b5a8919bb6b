// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Keys are flat snake case and match the koanf tags below.
//   - New returns the defaults; Load layers a YAML file and env vars on top.
//   - Errors returned by Load and Validate wrap this package's sentinels.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/sharpscore/internal/adapters/explain"
	"github.com/okian/sharpscore/internal/adapters/repository"
)

// Explainer providers.
const (
	ProviderChat   = "chat"
	ProviderStatic = "static"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`

	// ModelPath is where the scoring artifact is written and loaded from.
	ModelPath string `koanf:"model_path"`

	// DatasetPath is the training CSV the generator writes and the trainer reads.
	DatasetPath string `koanf:"dataset_path"`

	// StoreDriver selects the record store: memory, mongo, sqlite or postgres.
	StoreDriver     string `koanf:"store_driver"`
	MongoURI        string `koanf:"mongo_uri"`
	MongoDatabase   string `koanf:"mongo_database"`
	MongoCollection string `koanf:"mongo_collection"`
	SQLDSN          string `koanf:"sql_dsn"`

	// ExplainerProvider selects the reason writer: chat or static.
	ExplainerProvider    string  `koanf:"explainer_provider"`
	ExplainerBaseURL     string  `koanf:"explainer_base_url"`
	ExplainerAPIKey      string  `koanf:"explainer_api_key"`
	ExplainerModel       string  `koanf:"explainer_model"`
	ExplainerMaxTokens   int     `koanf:"explainer_max_tokens"`
	ExplainerTemperature float64 `koanf:"explainer_temperature"`
	ExplainerTimeoutMS   int     `koanf:"explainer_timeout_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":8080",
		ShutdownTimeoutMS:    10_000,
		ModelPath:            "rf_regressor_model.gob",
		DatasetPath:          "synthetic_fingerprints.csv",
		StoreDriver:          repository.DriverMemory,
		MongoDatabase:        repository.DefaultMongoDatabase,
		MongoCollection:      repository.DefaultMongoCollection,
		ExplainerProvider:    ProviderStatic,
		ExplainerBaseURL:     explain.DefaultBaseURL,
		ExplainerModel:       explain.DefaultModel,
		ExplainerMaxTokens:   explain.DefaultMaxTokens,
		ExplainerTemperature: explain.DefaultTemperature,
		ExplainerTimeoutMS:   int(explain.DefaultTimeout / time.Millisecond),
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ModelPath) == "":
		return fmt.Errorf("%w: model_path must not be empty", ErrInvalidConfig)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}

	switch strings.ToLower(c.StoreDriver) {
	case repository.DriverMemory, repository.DriverSQLite, repository.DriverPostgres:
	case repository.DriverMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("%w: mongo_uri is required for the mongo store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}

	switch strings.ToLower(c.ExplainerProvider) {
	case ProviderStatic:
	case ProviderChat:
		if strings.TrimSpace(c.ExplainerAPIKey) == "" {
			return fmt.Errorf("%w: explainer_api_key is required for the chat provider", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown explainer_provider %q", ErrInvalidConfig, c.ExplainerProvider)
	}
	return nil
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// Store returns the record store settings.
func (c *Config) Store() repository.Config {
	return repository.Config{
		Driver:          strings.ToLower(c.StoreDriver),
		MongoURI:        c.MongoURI,
		MongoDatabase:   c.MongoDatabase,
		MongoCollection: c.MongoCollection,
		SQLDSN:          c.SQLDSN,
	}
}

// Explainer builds the configured explanation collaborator.
func (c *Config) Explainer() (explain.Explainer, error) {
	if strings.ToLower(c.ExplainerProvider) != ProviderChat {
		return explain.NewStaticExplainer(), nil
	}
	e, err := explain.NewChatExplainer(explain.ChatConfig{
		BaseURL:     c.ExplainerBaseURL,
		APIKey:      c.ExplainerAPIKey,
		Model:       c.ExplainerModel,
		MaxTokens:   c.ExplainerMaxTokens,
		Temperature: c.ExplainerTemperature,
		Timeout:     time.Duration(c.ExplainerTimeoutMS) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return e, nil
}
