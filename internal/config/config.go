package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/3-lines-studio/mfeshell/internal/adapters/env"
	"github.com/3-lines-studio/mfeshell/internal/core"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const DefaultFile = "mfeshell.yaml"

// Config describes the host page and its route table.
type Config struct {
	Title   string `yaml:"title" toml:"title" json:"title"`
	Mount   string `yaml:"mount" toml:"mount" json:"mount"`
	Addr    string `yaml:"addr" toml:"addr" json:"addr"`
	Dev     bool   `yaml:"dev" toml:"dev" json:"dev"`
	DistDir string `yaml:"dist_dir" toml:"dist_dir" json:"dist_dir"`

	// Prefetch loads every remote entry before the first navigation.
	Prefetch bool              `yaml:"prefetch" toml:"prefetch" json:"prefetch"`
	Remotes  map[string]string `yaml:"remotes" toml:"remotes" json:"remotes"`
	Routes   []RouteConfig     `yaml:"routes" toml:"routes" json:"routes"`
}

// RouteConfig declares exactly one of Inline, Script or Federation.
type RouteConfig struct {
	Path  string `yaml:"path" toml:"path" json:"path"`
	Label string `yaml:"label,omitempty" toml:"label,omitempty" json:"label,omitempty"`

	Inline     string            `yaml:"inline,omitempty" toml:"inline,omitempty" json:"inline,omitempty"`
	Script     *ScriptConfig     `yaml:"script,omitempty" toml:"script,omitempty" json:"script,omitempty"`
	Federation *FederationConfig `yaml:"federation,omitempty" toml:"federation,omitempty" json:"federation,omitempty"`
}

type ScriptConfig struct {
	URL     string `yaml:"url" toml:"url" json:"url"`
	Element string `yaml:"element" toml:"element" json:"element"`
}

type FederationConfig struct {
	Remote  string `yaml:"remote" toml:"remote" json:"remote"`
	Module  string `yaml:"module" toml:"module" json:"module"`
	Element string `yaml:"element" toml:"element" json:"element"`
}

func base() Config {
	return Config{
		Title:   "Microfrontend Shell",
		Mount:   core.DefaultMountID,
		Addr:    ":4200",
		DistDir: "dist",
	}
}

// Default returns the stock shell: a home page, one script-backed and one
// federated microfrontend.
func Default() Config {
	cfg := base()
	cfg.Remotes = map[string]string{
		"mfe2": "http://localhost:4202/remoteEntry.json",
	}
	cfg.Routes = []RouteConfig{
		{Path: "/", Label: "Home", Inline: "home"},
		{Path: "/mfe1", Label: "MFE1 (Script)", Script: &ScriptConfig{
			URL:     "http://127.0.0.1:8080/my-angular-element.js",
			Element: "my-angular-element",
		}},
		{Path: "/mfe2", Label: "MFE2 (Federated)", Federation: &FederationConfig{
			Remote:  "mfe2",
			Module:  "./web-component",
			Element: "mfe2-root",
		}},
	}
	return cfg
}

// Load reads a YAML or TOML file chosen by extension, then applies the
// environment overrides.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Decode parses data in the format named by ext (".yaml", ".yml", ".toml"
// or ".json"). Unset scalars keep their defaults.
func Decode(data []byte, ext string) (Config, error) {
	cfg := base()

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}

	return cfg, nil
}

// Save writes the config as YAML or TOML depending on the extension.
func (c Config) Save(path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".toml":
		data, err = toml.Marshal(c)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if env.DevMode() {
		c.Dev = true
	}
	if addr := env.Addr(); addr != "" {
		c.Addr = addr
	}
}

// LoadOrDefault loads path when it exists and falls back to Default.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	return Load(path)
}

func (c Config) NavLinks() []core.NavLink {
	links := make([]core.NavLink, 0, len(c.Routes))
	for _, r := range c.Routes {
		label := r.Label
		if label == "" {
			label = r.Path
		}
		links = append(links, core.NavLink{Path: r.Path, Label: label})
	}
	return links
}
