package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

const (
	EnvConfigPath = "QUADTERM_CONFIG"
	configDirName = "quadterm"
	configName    = "quadterm.toml"
)

// ParseFormat accepts toml, yaml or yml.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported config format %q", value)
	}
}

// FormatForPath picks the codec from the file extension.
func FormatForPath(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", fmt.Errorf("config file %s has no extension; use .toml, .yaml or .yml", path)
	}
	format, err := ParseFormat(ext)
	if err != nil {
		return "", fmt.Errorf("config file %s: %w", path, err)
	}
	return format, nil
}

// Decode parses data strictly: unknown keys are errors.
func Decode(data []byte, format Format) (Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, err
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, key := range undecoded {
				keys = append(keys, key.String())
			}
			sort.Strings(keys)
			return Config{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", format)
	}
	return cfg, nil
}

// Encode writes cfg in the requested format.
func Encode(w io.Writer, cfg Config, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(cfg)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(cfg); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported config format %q", format)
	}
}

// Load reads a config file and fills unset fields from the defaults. A file
// that lists no windows keeps the default windows.
func Load(path string) (Config, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Decode(data, format)
	if err != nil {
		return Config{}, formatParseError(path, err)
	}
	defaults := Default()
	applyDefaults(&cfg, defaults)
	if len(cfg.Windows) == 0 {
		cfg.Windows = defaults.Windows
	}
	return cfg, nil
}

func formatParseError(path string, err error) error {
	var parseErr toml.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("parse config %s: %s", path, parseErr.ErrorWithPosition())
	}
	return fmt.Errorf("parse config %s: %w", path, err)
}

// Source records where the configuration came from.
type Source struct {
	Path     string
	Explicit bool
}

func (s Source) String() string {
	if s.Path == "" {
		return "built-in defaults"
	}
	return s.Path
}

// Locate picks the config path: the explicit flag, then $QUADTERM_CONFIG,
// then $XDG_CONFIG_HOME/quadterm/quadterm.toml, then ~/.config/quadterm/quadterm.toml.
func Locate(explicit string, getenv func(string) string) Source {
	if getenv == nil {
		getenv = os.Getenv
	}
	if path := strings.TrimSpace(explicit); path != "" {
		return Source{Path: path, Explicit: true}
	}
	if path := strings.TrimSpace(getenv(EnvConfigPath)); path != "" {
		return Source{Path: path, Explicit: true}
	}
	if dir := strings.TrimSpace(getenv("XDG_CONFIG_HOME")); dir != "" {
		return Source{Path: filepath.Join(dir, configDirName, configName)}
	}
	if home := strings.TrimSpace(getenv("HOME")); home != "" {
		return Source{Path: filepath.Join(home, ".config", configDirName, configName)}
	}
	return Source{}
}

// LoadSource loads the located file. A missing implicit file yields the
// defaults; a missing explicit file is an error.
func LoadSource(source Source) (Config, Source, error) {
	if source.Path == "" {
		return Default(), Source{}, nil
	}
	if !source.Explicit {
		if _, err := os.Stat(source.Path); errors.Is(err, os.ErrNotExist) {
			return Default(), Source{}, nil
		}
	}
	cfg, err := Load(source.Path)
	if err != nil {
		return Config{}, source, err
	}
	return cfg, source, nil
}
