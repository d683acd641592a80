// Package config loads bandstrip settings from a YAML file.
//
// The file is located by the --config flag or the BANDSTRIP_CONFIG
// environment variable. There is no automatic discovery: without either,
// Default is used unchanged.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/setanarut/bandstrip"
	"github.com/setanarut/bandstrip/utils"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config path.
const EnvVar = "BANDSTRIP_CONFIG"

type Config struct {
	// Band JPEG quality. Fractions in [0,1]; values above 1 are read as percent.
	Quality   float64 `yaml:"quality"`
	BandWidth int     `yaml:"band_width"`
	MaxHeight int     `yaml:"max_height"`
	Workers   int     `yaml:"workers"`

	Output OutputConfig `yaml:"output"`
	Report ReportConfig `yaml:"report"`
	Log    LogConfig    `yaml:"log"`
}

type OutputConfig struct {
	// Zip archive of the five bands.
	Archive string `yaml:"archive"`
	// PNG of the full strip.
	Composite string `yaml:"composite"`
	// YAML band report. Empty skips the report.
	Report string `yaml:"report"`
}

type ReportConfig struct {
	PaletteMethod string `yaml:"palette_method"`
	PaletteSize   int    `yaml:"palette_size"`
}

type LogConfig struct {
	// debug, info, warn or error.
	Level string `yaml:"level"`
	// text or json.
	Format string `yaml:"format"`
}

func Default() Config {
	opt := bandstrip.DefaultOptions()
	return Config{
		Quality:   opt.Quality,
		BandWidth: opt.BandWidth,
		MaxHeight: opt.MaxHeight,
		Workers:   opt.Workers,
		Output: OutputConfig{
			Archive:   "cropped_parts.zip",
			Composite: "combined.png",
		},
		Report: ReportConfig{
			PaletteMethod: utils.PaletteMethodDominantColor.String(),
			PaletteSize:   5,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Path returns flagPath when set, otherwise the value of EnvVar.
func Path(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(EnvVar)
}

// Load reads path over Default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Quality = NormalizeQuality(cfg.Quality)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// NormalizeQuality reads values above 1 as a percentage.
func NormalizeQuality(q float64) float64 {
	if q > 1 {
		return q / 100
	}
	return q
}

func (c Config) Validate() error {
	var errs []error
	if err := c.Options(nil).Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Output.Archive == "" {
		errs = append(errs, errors.New("output.archive is empty"))
	}
	if _, err := utils.ParsePaletteMethod(c.Report.PaletteMethod); err != nil {
		errs = append(errs, err)
	}
	if c.Report.PaletteSize < 0 {
		errs = append(errs, fmt.Errorf("report.palette_size %d is negative", c.Report.PaletteSize))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.Log.Format); f != "" && f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Options converts the pipeline settings.
func (c Config) Options(logger *slog.Logger) bandstrip.Options {
	return bandstrip.Options{
		Quality:   c.Quality,
		BandWidth: c.BandWidth,
		MaxHeight: c.MaxHeight,
		Workers:   c.Workers,
		Logger:    logger,
	}
}

func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Logger builds a logger writing to w from the log section.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
