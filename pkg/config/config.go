package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/actionreg/pkg/errors"
	"github.com/arthur-debert/actionreg/pkg/logging"
)

// EnvPrefix prefixes the environment variables read as configuration
const EnvPrefix = "ACTIONREG_"

// Render styles
const (
	StyleTree  = "tree"
	StylePlain = "plain"
	StyleJSON  = "json"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the complete application configuration
type Config struct {
	Manifests Manifests `koanf:"manifests"`
	Render    Render    `koanf:"render"`
	Watch     Watch     `koanf:"watch"`
}

// Manifests controls plugin discovery
type Manifests struct {
	Paths      []string `koanf:"paths"`
	Extensions []string `koanf:"extensions"`
	Ignore     []string `koanf:"ignore"`
}

// Render controls how action trees are printed
type Render struct {
	Style     string `koanf:"style"`
	Shortcuts bool   `koanf:"shortcuts"`
	Color     string `koanf:"color"`
}

// Watch controls the manifest watcher
type Watch struct {
	Debounce time.Duration `koanf:"debounce"`
}

// LoadOptions selects the optional configuration sources
type LoadOptions struct {
	// ConfigFile is an explicit file to load; it must exist
	ConfigFile string

	// Overrides are dotted keys set from the command line
	Overrides map[string]interface{}

	// SkipUserConfig ignores the file under the user config home
	SkipUserConfig bool
}

// Load reads every configuration source and validates the result
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	// 2. User config
	if !opts.SkipUserConfig {
		userPath := UserConfigPath()
		if _, err := os.Stat(userPath); err == nil {
			if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
				return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load user config").
					WithDetail("path", userPath)
			}
			logger.Debug().Str("path", userPath).Msg("User config loaded")
		}
	}

	// 3. Explicit config file
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "config file not found").
				WithDetail("path", opts.ConfigFile)
		}
		if err := k.Load(file.Provider(opts.ConfigFile), toml.Parser()); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load config file").
				WithDetail("path", opts.ConfigFile)
		}
		logger.Debug().Str("path", opts.ConfigFile).Msg("Config file loaded")
	}

	// 4. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 5. Flag overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}

	if len(cfg.Manifests.Paths) == 0 {
		cfg.Manifests.Paths = []string{DefaultManifestDir()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Strs("manifests", cfg.Manifests.Paths).
		Str("style", cfg.Render.Style).
		Msg("Configuration loaded")
	return &cfg, nil
}

// Validate checks enumerations and ranges
func (c *Config) Validate() error {
	switch c.Render.Style {
	case StyleTree, StylePlain, StyleJSON:
	default:
		return invalid("render.style", c.Render.Style, "must be tree, plain or json")
	}
	switch c.Render.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return invalid("render.color", c.Render.Color, "must be auto, always or never")
	}
	if len(c.Manifests.Extensions) == 0 {
		return invalid("manifests.extensions", "", "at least one extension is required")
	}
	if c.Watch.Debounce < 0 {
		return invalid("watch.debounce", c.Watch.Debounce.String(), "cannot be negative")
	}
	return nil
}

func invalid(key, value, reason string) error {
	return errors.Newf(errors.ErrConfigValid, "invalid %s %q: %s", key, value, reason).
		WithDetail("key", key).
		WithDetail("value", value)
}

// UserConfigPath is the location of the per-user config file
func UserConfigPath() string {
	return filepath.Join(configHome(), logging.AppName, "config.toml")
}

// DefaultManifestDir is searched when no manifest path is configured
func DefaultManifestDir() string {
	return filepath.Join(configHome(), logging.AppName, "plugins")
}

// configHome respects XDG_CONFIG_HOME set after start-up
func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return xdg.ConfigHome
}
