package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name searched for in the
// current and home directories.
const DefaultConfigFile = ".bundle-advisor.yaml"

// xdgConfigFiles are the names searched for in the XDG config directory.
var xdgConfigFiles = []string{"config.yaml", "config.yml", "config.toml"}

// LoadConfigFile loads a configuration file. Paths ending in .toml are
// decoded as TOML, everything else as YAML. Unknown keys are rejected so
// that typos in threshold names do not silently fall back to defaults.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cf *File
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		cf, err = decodeTOML(data)
	} else {
		cf, err = decodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid configuration file %s: %w", path, err)
	}
	return cf, nil
}

func decodeYAML(data []byte) (*File, error) {
	var cf File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &cf, nil
}

func decodeTOML(data []byte) (*File, error) {
	var cf File
	meta, err := toml.Decode(string(data), &cf)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .bundle-advisor.yaml in the current directory
// 3. Look for config.yaml, config.yml or config.toml in XDGConfigDir()
// 4. Look for .bundle-advisor.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	cwd, _ := os.Getwd()         //nolint:errcheck // an unknown cwd is skipped
	home, _ := os.UserHomeDir() //nolint:errcheck // an unknown home is skipped
	return findConfigFile(configPath, cwd, XDGConfigDir(), home)
}

func findConfigFile(configPath, cwd, configDir, home string) string {
	if configPath != "" {
		if fileExists(configPath) {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, len(xdgConfigFiles)+2)
	if cwd != "" {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if configDir != "" {
		for _, name := range xdgConfigFiles {
			candidates = append(candidates, filepath.Join(configDir, name))
		}
	}
	if home != "" {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, c := range candidates {
		if fileExists(c) {
			return c
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load finds and loads the configuration file.
// An explicit configPath that does not exist is an error wrapping
// ErrConfigNotFound; when no file is found implicitly, Load returns a nil
// File and an empty path.
func Load(configPath string) (*File, string, error) {
	path := FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, "", nil
	}

	cf, err := LoadConfigFile(path)
	if err != nil {
		return nil, path, err
	}
	return cf, path, nil
}
