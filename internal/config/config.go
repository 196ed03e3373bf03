// Package config loads choromap settings from file, environment and flags.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"choromap/internal/geom"
	"choromap/internal/projection"
	"choromap/internal/rates"
)

type Config struct {
	Topology       string            `mapstructure:"topology"`
	Rates          string            `mapstructure:"rates"`
	RatesNormalize float64           `mapstructure:"rates_normalize"`
	Objects        geom.Objects      `mapstructure:"objects"`
	Projection     projection.Config `mapstructure:"projection"`
	Render         Render            `mapstructure:"render"`
	Workers        int               `mapstructure:"workers"`
	SkipErrors     bool              `mapstructure:"skip_errors"`
	Log            Log               `mapstructure:"log"`
}

type Render struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Output string `mapstructure:"output"`
}

type Log struct {
	Level string `mapstructure:"level"`
	// empty means stderr, or nothing while the terminal viewer runs
	File string `mapstructure:"file"`
}

func Default() Config {
	return Config{
		RatesNormalize: rates.DefaultNormalize,
		Objects:        geom.DefaultObjects(),
		Projection:     projection.DefaultConfig(),
		Render:         Render{Width: 960, Height: 600, Output: "map.png"},
		Log:            Log{Level: "info"},
	}
}

// New returns a viper instance reading cfgFile, or choromap.yaml from the
// working directory or $HOME/.config/choromap, plus CHOROMAP_* variables.
// A missing default config file is not an error.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix("choromap")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("choromap")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "choromap"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &nf) {
			return nil, errors.Wrap(err, "read config")
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("topology", c.Topology)
	v.SetDefault("rates", c.Rates)
	v.SetDefault("rates_normalize", c.RatesNormalize)
	v.SetDefault("objects.land", c.Objects.Land)
	v.SetDefault("objects.states", c.Objects.States)
	v.SetDefault("objects.counties", c.Objects.Counties)
	v.SetDefault("projection.fallback", c.Projection.Fallback)
	v.SetDefault("projection.canvas.left", c.Projection.Canvas.Left)
	v.SetDefault("projection.canvas.right", c.Projection.Canvas.Right)
	v.SetDefault("projection.canvas.bottom", c.Projection.Canvas.Bottom)
	v.SetDefault("projection.canvas.top", c.Projection.Canvas.Top)
	v.SetDefault("render.width", c.Render.Width)
	v.SetDefault("render.height", c.Render.Height)
	v.SetDefault("render.output", c.Render.Output)
	v.SetDefault("workers", c.Workers)
	v.SetDefault("skip_errors", c.SkipErrors)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.file", c.Log.File)
}

// Load overlays the settings of v on Default. Stage and region lists
// replace the defaults as a whole.
func Load(v *viper.Viper) (Config, error) {
	c := Default()
	if v.IsSet("projection.stages") {
		c.Projection.Stages = nil
	}
	if v.IsSet("projection.regions") {
		c.Projection.Regions = nil
	}
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return errors.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if _, err := projection.ParseFallback(c.Projection.Fallback); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	return nil
}

// BuildOptions returns the layer build options for c.
func (c Config) BuildOptions(log *zap.Logger) geom.Options {
	return geom.Options{Objects: c.Objects, Workers: c.Workers, SkipErrors: c.SkipErrors, Logger: log}
}

// NewLogger builds a JSON logger writing to l.File, or to stderr when
// stderr is true. With neither it returns a no-op logger.
func NewLogger(l Log, stderr bool) (*zap.Logger, error) {
	if l.File == "" && !stderr {
		return zap.NewNop(), nil
	}
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	if l.File != "" {
		zc.OutputPaths = []string{l.File}
		zc.ErrorOutputPaths = []string{l.File}
	}
	return zc.Build()
}
