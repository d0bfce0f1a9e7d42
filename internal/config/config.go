// Package config loads user defaults for fileagg commands.
//
// Values are layered, later sources winning:
//  1. built-in defaults
//  2. $XDG_CONFIG_HOME/fileagg/config.toml (or $FILEAGG_CONFIG_DIR/config.toml)
//  3. FILEAGG_* environment variables
//
// Command-line flags are applied on top by the cli package.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/sokinpui/fileagg/internal/errors"
)

const (
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "FILEAGG_"
	// EnvConfigDir overrides the directory holding config.toml.
	EnvConfigDir = "FILEAGG_CONFIG_DIR"

	appDirName     = "fileagg"
	configFileName = "config.toml"
)

// Settings are the user-configurable defaults.
type Settings struct {
	// Extensions is the default allow-list for aggregate.
	Extensions []string `koanf:"extensions"`
	// NoAnimation disables the spinner.
	NoAnimation bool `koanf:"no_animation"`
	// Markdown unwraps fenced code blocks before distribute parses.
	Markdown bool `koanf:"markdown"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"extensions":   []string{},
		"no_animation": false,
		"markdown":     false,
	}
}

// DefaultPath returns where Load looks for the config file when no path is
// given.
func DefaultPath() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(dir, configFileName)
	}
	return filepath.Join(xdg.ConfigHome, appDirName, configFileName)
}

// Load builds Settings from defaults, the TOML file at path (DefaultPath when
// empty) and the environment. A missing file is not an error; a file that
// cannot be parsed is an ErrConfig error.
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfig, "failed to load defaults")
	}

	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfig, "failed to load config file").WithPath(path)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, errors.ErrConfig, "failed to stat config file").WithPath(path)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfig, "failed to load environment")
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfig, "failed to decode configuration")
	}

	s.Extensions = cleanList(s.Extensions)
	return &s, nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
