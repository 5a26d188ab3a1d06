// Package config resolves runtime settings from ~/.usahome/config.toml and
// USAHOME_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".usahome"
)

const (
	KeyAPIBaseURL    = "api.base_url"
	KeyAPITimeout    = "api.timeout"
	KeyAPICacheTTL   = "api.cache_ttl"
	KeyCacheBackend  = "cache.backend"
	KeyCachePath     = "cache.path"
	KeyRedisAddr     = "cache.redis_addr"
	KeyRedisPassword = "cache.redis_password"
	KeyRedisDB       = "cache.redis_db"
	KeySessionPath   = "session.path"
	KeyFeeBase       = "fees.base"
	KeyFeePerAdd     = "fees.per_additional"
	KeyFeeOverrides  = "fees.overrides"
	KeyStrictCatalog = "services.strict_catalog"
	KeyLogLevel      = "log.level"
)

const (
	defaultTimeout     = 5 * time.Second
	defaultRedisAddr   = "127.0.0.1:6379"
	defaultLogLevel    = "warn"
	defaultCacheDir    = "cache"
	defaultSessionFile = "session.toml"
)

type CacheBackend string

const (
	CacheBackendFile   CacheBackend = "file"
	CacheBackendSQLite CacheBackend = "sqlite"
	CacheBackendRedis  CacheBackend = "redis"
	CacheBackendChain  CacheBackend = "chain"
)

type Config struct {
	API           APIConfig
	Cache         CacheConfig
	SessionPath   string
	FeeSchedule   domain.FeeSchedule
	FeeOverrides  domain.OverrideTable
	StrictCatalog bool
	LogLevel      string
}

type APIConfig struct {
	// BaseURL empty means offline: the ledger works from the local cache only.
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

func (c APIConfig) Offline() bool {
	return strings.TrimSpace(c.BaseURL) == ""
}

type CacheConfig struct {
	Backend       CacheBackend
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// FileRoot is where the file backend keeps one file per key.
func (c CacheConfig) FileRoot() string {
	return filepath.Join(c.Path, "entries")
}

func (c CacheConfig) SQLitePath() string {
	return filepath.Join(c.Path, "ledger.db")
}

type overrideEntry struct {
	Identity string `mapstructure:"identity"`
	Fee      string `mapstructure:"fee"`
}

type envOverlay struct {
	BaseURL      string        `env:"USAHOME_API_BASE_URL"`
	Timeout      time.Duration `env:"USAHOME_API_TIMEOUT"`
	CacheBackend string        `env:"USAHOME_CACHE_BACKEND"`
	CachePath    string        `env:"USAHOME_CACHE_PATH"`
	RedisAddr    string        `env:"USAHOME_REDIS_ADDR"`
	LogLevel     string        `env:"USAHOME_LOG_LEVEL"`
}

// Load reads the config file registered on cfg (or ~/.usahome/config.toml)
// and validates the result. A missing file is not an error.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	baseDir := filepath.Join(homeDir, configDir)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(baseDir)
	cfg.SetDefault(KeyAPITimeout, defaultTimeout)
	cfg.SetDefault(KeyAPICacheTTL, time.Duration(0))
	cfg.SetDefault(KeyCacheBackend, string(CacheBackendFile))
	cfg.SetDefault(KeyCachePath, filepath.Join(baseDir, defaultCacheDir))
	cfg.SetDefault(KeyRedisAddr, defaultRedisAddr)
	cfg.SetDefault(KeySessionPath, filepath.Join(baseDir, defaultSessionFile))
	cfg.SetDefault(KeyFeeBase, domain.DefaultBaseFee.String())
	cfg.SetDefault(KeyFeePerAdd, domain.DefaultPerAdditionalFee.StringFixed(2))
	cfg.SetDefault(KeyLogLevel, defaultLogLevel)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var overlay envOverlay
	if err := env.Parse(&overlay); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	out := Config{
		API: APIConfig{
			BaseURL:  strings.TrimSpace(cfg.GetString(KeyAPIBaseURL)),
			Timeout:  cfg.GetDuration(KeyAPITimeout),
			CacheTTL: cfg.GetDuration(KeyAPICacheTTL),
		},
		Cache: CacheConfig{
			Backend:       CacheBackend(strings.ToLower(strings.TrimSpace(cfg.GetString(KeyCacheBackend)))),
			Path:          cfg.GetString(KeyCachePath),
			RedisAddr:     cfg.GetString(KeyRedisAddr),
			RedisPassword: cfg.GetString(KeyRedisPassword),
			RedisDB:       cfg.GetInt(KeyRedisDB),
		},
		SessionPath:   cfg.GetString(KeySessionPath),
		StrictCatalog: cfg.GetBool(KeyStrictCatalog),
		LogLevel:      cfg.GetString(KeyLogLevel),
	}
	applyOverlay(&out, overlay)

	schedule, err := parseSchedule(cfg.GetString(KeyFeeBase), cfg.GetString(KeyFeePerAdd))
	if err != nil {
		return Config{}, err
	}
	out.FeeSchedule = schedule

	var entries []overrideEntry
	if err := cfg.UnmarshalKey(KeyFeeOverrides, &entries); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", KeyFeeOverrides, err)
	}
	overrides, err := buildOverrides(entries)
	if err != nil {
		return Config{}, err
	}
	out.FeeOverrides = overrides

	if err := out.Validate(); err != nil {
		return Config{}, err
	}
	return out, nil
}

func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendSQLite, CacheBackendRedis, CacheBackendChain:
	default:
		return fmt.Errorf("unsupported cache backend %q (want file, sqlite, redis or chain)", c.Cache.Backend)
	}
	if strings.TrimSpace(c.Cache.Path) == "" && c.Cache.Backend != CacheBackendRedis {
		return errors.New("cache path is empty")
	}
	if c.Cache.Backend == CacheBackendRedis && strings.TrimSpace(c.Cache.RedisAddr) == "" {
		return errors.New("redis address is empty")
	}
	if strings.TrimSpace(c.SessionPath) == "" {
		return errors.New("session path is empty")
	}
	if c.API.Timeout < 0 {
		return errors.New("api timeout must not be negative")
	}
	if c.API.CacheTTL < 0 {
		return errors.New("api cache ttl must not be negative")
	}
	return c.FeeSchedule.Validate()
}

func applyOverlay(out *Config, overlay envOverlay) {
	if overlay.BaseURL != "" {
		out.API.BaseURL = strings.TrimSpace(overlay.BaseURL)
	}
	if overlay.Timeout > 0 {
		out.API.Timeout = overlay.Timeout
	}
	if overlay.CacheBackend != "" {
		out.Cache.Backend = CacheBackend(strings.ToLower(strings.TrimSpace(overlay.CacheBackend)))
	}
	if overlay.CachePath != "" {
		out.Cache.Path = overlay.CachePath
	}
	if overlay.RedisAddr != "" {
		out.Cache.RedisAddr = overlay.RedisAddr
	}
	if overlay.LogLevel != "" {
		out.LogLevel = overlay.LogLevel
	}
}

func parseSchedule(rawBase, rawPerAdditional string) (domain.FeeSchedule, error) {
	base, err := decimal.NewFromString(strings.TrimSpace(rawBase))
	if err != nil {
		return domain.FeeSchedule{}, fmt.Errorf("parse %s: %w", KeyFeeBase, err)
	}
	perAdditional, err := decimal.NewFromString(strings.TrimSpace(rawPerAdditional))
	if err != nil {
		return domain.FeeSchedule{}, fmt.Errorf("parse %s: %w", KeyFeePerAdd, err)
	}
	return domain.FeeSchedule{Base: base, PerAdditional: perAdditional}, nil
}

// buildOverrides starts from the built-in table; config entries add to it or
// replace an existing identity's fee.
func buildOverrides(entries []overrideEntry) (domain.OverrideTable, error) {
	fees := domain.DefaultFeeOverrides()
	for i, entry := range entries {
		identity, err := domain.ParseIdentity(entry.Identity)
		if err != nil {
			return domain.OverrideTable{}, fmt.Errorf("%s[%d]: %w", KeyFeeOverrides, i, err)
		}
		fee, err := decimal.NewFromString(strings.TrimSpace(entry.Fee))
		if err != nil {
			return domain.OverrideTable{}, fmt.Errorf("%s[%d]: parse fee %q: %w", KeyFeeOverrides, i, entry.Fee, err)
		}
		fees[identity] = fee
	}

	return domain.NewOverrideTable(fees)
}
