package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the app reads,
// e.g. SATCOACH_DB or SATCOACH_MONGO_URI.
const EnvPrefix = "SATCOACH"

// Config keys. Nested keys map to env vars with dots replaced by
// underscores, so "mongo.uri" is SATCOACH_MONGO_URI.
const (
	KeyBackend         = "store"
	KeyDBPath          = "db"
	KeyMongoURI        = "mongo.uri"
	KeyMongoDatabase   = "mongo.database"
	KeyMongoPoolSize   = "mongo.pool-size"
	KeyServerAddr      = "server.addr"
	KeyShutdownTimeout = "server.shutdown-timeout"
	KeyLogLevel        = "log-level"
	KeyLogFormat       = "log-format"
	KeyCatalog         = "catalog"
	KeyLearner         = "learner"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Config holds all runtime configuration.
type Config struct {
	// Backend selects the persistence layer: "sqlite" or "mongo".
	Backend string

	// DBPath is the SQLite file. Empty means the default XDG location.
	DBPath string

	Mongo  MongoConfig
	Server ServerConfig
	Log    LogConfig

	// CatalogPath overrides the built-in course catalog.
	CatalogPath string

	// Learner is the default learner id for CLI commands.
	Learner string
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI      string
	Database string // Default: "satcoach"
	PoolSize uint64
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        // Default: ":8080"
	ShutdownTimeout time.Duration // Default: 10s
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendSQLite,
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "satcoach",
			PoolSize: 20,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// NewViper returns a viper instance seeded with defaults and wired to
// SATCOACH_* environment variables.
func NewViper() *viper.Viper {
	d := DefaultConfig()
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyBackend, d.Backend)
	v.SetDefault(KeyDBPath, d.DBPath)
	v.SetDefault(KeyMongoURI, d.Mongo.URI)
	v.SetDefault(KeyMongoDatabase, d.Mongo.Database)
	v.SetDefault(KeyMongoPoolSize, d.Mongo.PoolSize)
	v.SetDefault(KeyServerAddr, d.Server.Addr)
	v.SetDefault(KeyShutdownTimeout, d.Server.ShutdownTimeout)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)
	v.SetDefault(KeyCatalog, "")
	v.SetDefault(KeyLearner, "")
	return v
}

// Load reads the optional config file and resolves every key through
// viper's precedence: flag, env, file, default.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := Config{
		Backend: strings.ToLower(v.GetString(KeyBackend)),
		DBPath:  v.GetString(KeyDBPath),
		Mongo: MongoConfig{
			URI:      v.GetString(KeyMongoURI),
			Database: v.GetString(KeyMongoDatabase),
			PoolSize: v.GetUint64(KeyMongoPoolSize),
		},
		Server: ServerConfig{
			Addr:            v.GetString(KeyServerAddr),
			ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString(KeyLogLevel)),
			Format: strings.ToLower(v.GetString(KeyLogFormat)),
		},
		CatalogPath: v.GetString(KeyCatalog),
		Learner:     v.GetString(KeyLearner),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks option values that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
	case BackendMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("%s_MONGO_URI is required for the mongo store", EnvPrefix)
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("%s_MONGO_DATABASE is required for the mongo store", EnvPrefix)
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Backend)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.Log.Format)
	}
	return nil
}
