// Package config loads platemap settings.
//
// Settings come from three layers, later layers winning:
//
//  1. [Default] values
//  2. a TOML file (platemap.toml), see [Load]
//  3. environment variables, see [Config.ApplyEnv]
//
// CLI flags are applied on top by the commands themselves.
//
// Example file:
//
//	[server]
//	addr = ":8787"
//
//	[auth]
//	admin_token = "change-me"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/hotspot"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "platemap.toml"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Auth      AuthConfig      `toml:"auth"`
	Content   ContentConfig   `toml:"content"`
	Store     StoreConfig     `toml:"store"`
	Cache     CacheConfig     `toml:"cache"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
	Layout    LayoutConfig    `toml:"layout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`

	// MediaDir is served under /media/.
	MediaDir string `toml:"media_dir"`

	// StaticDir holds a built web client. Empty disables the SPA fallback.
	StaticDir string `toml:"static_dir"`

	// MaxBodyBytes bounds JSON request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// AuthConfig holds the bearer tokens. An empty token disables that role.
type AuthConfig struct {
	AdminToken  string `toml:"admin_token"`
	EditorToken string `toml:"editor_token"`
}

// ContentConfig locates menu, brand and ingredient JSON files.
type ContentConfig struct {
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"`
}

// StoreConfig selects where saved hotspot sets live.
type StoreConfig struct {
	Backend string `toml:"backend"`

	// DataDir and SeedFile are used by the file backend.
	DataDir  string `toml:"data_dir"`
	SeedFile string `toml:"seed_file"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`

	// DefaultStage applies when a request names no stage.
	DefaultStage string `toml:"default_stage"`
}

// CacheConfig selects the layout cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	Prefix    string   `toml:"prefix"`
	TTL       Duration `toml:"ttl"`
}

// RateLimitConfig holds per-client request budgets. A zero budget disables
// that limiter.
type RateLimitConfig struct {
	General       int      `toml:"general"`
	GeneralWindow Duration `toml:"general_window"`
	Write         int      `toml:"write"`
	WriteWindow   Duration `toml:"write_window"`
	Static        int      `toml:"static"`
	StaticWindow  Duration `toml:"static_window"`
}

// LayoutConfig holds engine defaults for callers that omit them.
type LayoutConfig struct {
	Strategy string `toml:"strategy"`
	Seed     int64  `toml:"seed"`
}

// Duration is a time.Duration that decodes from TOML strings like "15m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration. The rate-limit budgets match
// the public deployment: 100 requests and 50 writes per 15 minutes, 30 static
// requests per minute.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8787",
			MediaDir:     "public/media",
			MaxBodyBytes: 2 << 20,
		},
		Content: ContentConfig{Dir: "content"},
		Store: StoreConfig{
			Backend:       StoreFile,
			DataDir:       "data",
			SeedFile:      "content/media/dishMedia.json",
			MongoDatabase: "platemap",
			DefaultStage:  "published",
		},
		Cache: CacheConfig{
			Backend: CacheNone,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		RateLimit: RateLimitConfig{
			General:       100,
			GeneralWindow: Duration{15 * time.Minute},
			Write:         50,
			WriteWindow:   Duration{15 * time.Minute},
			Static:        30,
			StaticWindow:  Duration{time.Minute},
		},
		Layout: LayoutConfig{
			Strategy: string(hotspot.Auto),
			Seed:     hotspot.DefaultSeed,
		},
	}
}

// Load reads path on top of [Default] and then applies the environment.
// A missing file is not an error when path is [DefaultFile], so the binary
// runs without any config; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) || path != DefaultFile {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
	} else {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys %v", path, undecoded)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables. lookup is
// normally [os.LookupEnv].
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return errors.New(errors.ErrCodeInvalidInput, "PORT must be a port number, got %q", v)
		}
		c.Server.Addr = fmt.Sprintf(":%d", port)
	}
	str("ADMIN_TOKEN", &c.Auth.AdminToken)
	str("EDITOR_TOKEN", &c.Auth.EditorToken)
	str("CONTENT_DIR", &c.Content.Dir)
	str("DATA_DIR", &c.Store.DataDir)
	str("MONGO_URI", &c.Store.MongoURI)
	str("MONGO_DATABASE", &c.Store.MongoDatabase)
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	if v, ok := lookup("DEFAULT_STAGE"); ok && v != "" {
		c.Store.DefaultStage = strings.ToLower(v)
	}
	return nil
}

// Validate checks backend names and dependent settings.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreFile:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "store backend mongo requires mongo_uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis requires redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}

	if err := errors.ValidateStage(c.Store.DefaultStage); err != nil {
		return err
	}
	if c.Layout.Strategy != "" && !hotspot.Strategy(c.Layout.Strategy).Known() {
		return errors.New(errors.ErrCodeInvalidStrategy, "unknown default strategy %q", c.Layout.Strategy)
	}

	for _, b := range []struct {
		name   string
		n      int
		window Duration
	}{
		{"general", c.RateLimit.General, c.RateLimit.GeneralWindow},
		{"write", c.RateLimit.Write, c.RateLimit.WriteWindow},
		{"static", c.RateLimit.Static, c.RateLimit.StaticWindow},
	} {
		if b.n < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "ratelimit.%s must not be negative", b.name)
		}
		if b.n > 0 && b.window.Duration <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "ratelimit.%s_window must be positive", b.name)
		}
	}
	return nil
}
