package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// defaultConfigPath is read when --config is not given. A missing file is
// not an error.
const defaultConfigPath = "~/.config/gd/gd.toml"

// config holds the settings a config file may provide. Command-line flags
// override them.
type config struct {
	Renderer string  `toml:"renderer"`
	Zoom     float64 `toml:"zoom"`
	Width    float64 `toml:"width"`
	Height   float64 `toml:"height"`
	LogLevel string  `toml:"log_level"`
	ExtraCSS string  `toml:"extra_css"`
}

func defaultConfig() config {
	return config{
		Zoom:     1,
		Width:    -1,
		Height:   -1,
		LogLevel: "warn",
	}
}

// loadConfig reads path into cfg. When required is false a missing file
// leaves cfg unchanged.
func loadConfig(path string, required bool, cfg *config) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var sm *toml.StrictMissingError
		if errors.As(err, &sm) {
			return fmt.Errorf("config %s: %s", path, sm.String())
		}
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}
