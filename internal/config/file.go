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
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Format is a config file encoding, chosen by file extension.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownKeys is returned when a config file contains keys we do not read.
var ErrUnknownKeys = errors.New("unknown config keys")

// defaultConfigNames are searched, in order, below the XDG config dirs.
var defaultConfigNames = []string{
	"shellwrapper/config.yaml",
	"shellwrapper/config.yml",
	"shellwrapper/config.toml",
}

// File mirrors the keys accepted in a config file. Pointer fields tell an
// absent key apart from an explicit zero value.
type File struct {
	IsolatedCommand *string `yaml:"isolated_command" toml:"isolated_command"`
	SharedShell     *string `yaml:"shared_shell" toml:"shared_shell"`
	SourceCommand   *string `yaml:"source_command" toml:"source_command"`
	IsolatedExt     *string `yaml:"isolated_ext" toml:"isolated_ext"`
	SharedExt       *string `yaml:"shared_ext" toml:"shared_ext"`
	Color           *string `yaml:"color" toml:"color"`
	LogFile         *string `yaml:"log_file" toml:"log_file"`
	Verbose         *bool   `yaml:"verbose" toml:"verbose"`
}

// DetectFormat determines the config format from the file extension.
// Anything that is not .toml is read as YAML.
func DetectFormat(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		return FormatTOML
	}
	return FormatYAML
}

// DefaultConfigFile returns the first config file found in the XDG config
// directories, or "" when there is none.
func DefaultConfigFile() string {
	for _, name := range defaultConfigNames {
		if p, err := xdg.SearchConfigFile(name); err == nil {
			return p
		}
	}
	return ""
}

// LoadFile reads and decodes a config file. Unknown keys are rejected so
// typos do not silently fall back to defaults.
func LoadFile(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	f, err := ParseFile(content, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return f, nil
}

// ParseFile decodes config content in the given format.
func ParseFile(content []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(content), &f)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			if strings.Contains(err.Error(), "not found in type") {
				return nil, fmt.Errorf("%w: %v", ErrUnknownKeys, err)
			}
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return &f, nil
}

// ApplyFile overlays file values onto cfg. changed reports whether a flag
// was set on the command line; such values win over the file.
func ApplyFile(cfg *Config, f *File, changed func(flag string) bool) {
	setString := func(dst *string, src *string, flag string) {
		if src != nil && !changed(flag) {
			*dst = *src
		}
	}
	setString(&cfg.IsolatedCommand, f.IsolatedCommand, FlagIsolatedCmd)
	setString(&cfg.SharedShell, f.SharedShell, FlagSharedShell)
	setString(&cfg.SourceCommand, f.SourceCommand, FlagSourceCmd)
	setString(&cfg.IsolatedExt, f.IsolatedExt, FlagIsolatedExt)
	setString(&cfg.SharedExt, f.SharedExt, FlagSharedExt)
	setString(&cfg.LogFile, f.LogFile, FlagLog)

	if f.Color != nil && !changed(FlagColor) && !changed(FlagNoColor) {
		cfg.ColorMode = ColorMode(strings.ToLower(strings.TrimSpace(*f.Color)))
	}
	if f.Verbose != nil && !changed(FlagVerbose) {
		cfg.Verbose = *f.Verbose
	}
}
