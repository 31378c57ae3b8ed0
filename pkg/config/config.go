// Package config loads gimbal settings from defaults, an optional
// gimbal.yaml and GIMBAL_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved configuration.
type Config struct {
	Engine EngineConfig `mapstructure:"engine"`
	Log    LogConfig    `mapstructure:"log"`
	Kernel KernelConfig `mapstructure:"kernel"`
}

// EngineConfig controls the Lisp console.
type EngineConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// KernelConfig controls the sdfx kernel.
type KernelConfig struct {
	MeshCells int `mapstructure:"mesh_cells"`
}

// EnvPrefix is prepended to every environment override, so engine.timeout
// is read from GIMBAL_ENGINE_TIMEOUT.
const EnvPrefix = "GIMBAL"

var errInvalid = errors.New("config: invalid value")

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Engine: EngineConfig{Timeout: 5 * time.Second},
		Log:    LogConfig{Level: "info", Encoding: "console"},
		Kernel: KernelConfig{MeshCells: 200},
	}
}

// New returns a viper instance with defaults, search paths and environment
// binding set up but nothing read yet.
func New() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("engine.timeout", d.Engine.Timeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.encoding", d.Log.Encoding)
	v.SetDefault("kernel.mesh_cells", d.Kernel.MeshCells)

	v.SetConfigName("gimbal")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".gimbal"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration through v. When file is non-empty it is read
// instead of searching; a missing searched-for file is not an error.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no component can use.
func (c Config) Validate() error {
	if c.Engine.Timeout <= 0 {
		return fmt.Errorf("%w: engine.timeout %s must be positive", errInvalid, c.Engine.Timeout)
	}
	if c.Kernel.MeshCells <= 0 {
		return fmt.Errorf("%w: kernel.mesh_cells %d must be positive", errInvalid, c.Kernel.MeshCells)
	}
	switch c.Log.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.encoding %q must be console or json", errInvalid, c.Log.Encoding)
	}
	return nil
}

// ConfigFile returns the file v read, or "" when only defaults and the
// environment applied.
func ConfigFile(v *viper.Viper) string { return v.ConfigFileUsed() }
