// Package config loads the launcher settings: provider endpoints, the OAuth
// client id, and local paths. Settings come from a YAML or JSONC file with
// LAUNCHER_* environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	defaultDBPath = "launcher.db"
	defaultListen = "127.0.0.1:8765"
)

// Settings is the resolved launcher configuration.
type Settings struct {
	ClientID       string // Microsoft OAuth client id for Xbox accounts
	Online         string // AZauth server base URL
	AuthServer     string // Yggdrasil auth server for online simple-login accounts
	DBPath         string
	Listen         string
	APIKey         string        // guards mutating API routes when set
	AdapterTimeout time.Duration // 0 = no per-account bound
	Interval       time.Duration // periodic reconciliation in serve mode, 0 = off
	Source         string        // file the settings were read from, "" for defaults
}

type fileSettings struct {
	ClientID       string `yaml:"client_id" json:"client_id"`
	Online         string `yaml:"online" json:"online"`
	AuthServer     string `yaml:"auth_server" json:"auth_server"`
	DBPath         string `yaml:"db_path" json:"db_path"`
	Listen         string `yaml:"listen" json:"listen"`
	APIKey         string `yaml:"api_key" json:"api_key"`
	AdapterTimeout string `yaml:"adapter_timeout" json:"adapter_timeout"`
	Interval       string `yaml:"reconcile_interval" json:"reconcile_interval"`
}

// Load reads settings from path, or from the first candidate location when
// path is empty. A missing explicit path is an error; no file at all yields
// defaults.
func Load(path string) (*Settings, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	var raw fileSettings
	if resolved != "" {
		if err := readFile(resolved, &raw); err != nil {
			return nil, err
		}
	}
	applyEnv(&raw)

	return normalize(raw, resolved)
}

func readFile(path string, out *fileSettings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read launcher settings %q: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), out); err != nil {
			return fmt.Errorf("failed to parse launcher settings %q: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse launcher settings %q: %w", path, err)
		}
	}
	return nil
}

func resolvePath(explicit string) (string, error) {
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv("LAUNCHER_CONFIG_FILE"))
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}

	candidates := []string{
		"launcher.yaml",
		"launcher.jsonc",
		"config/launcher.yaml",
		"config/launcher.jsonc",
	}
	if configDir, err := os.UserConfigDir(); err == nil && configDir != "" {
		candidates = append(candidates,
			filepath.Join(configDir, "launcher", "launcher.yaml"),
			filepath.Join(configDir, "launcher", "launcher.jsonc"),
		)
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func applyEnv(raw *fileSettings) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"LAUNCHER_CLIENT_ID", &raw.ClientID},
		{"LAUNCHER_ONLINE_URL", &raw.Online},
		{"LAUNCHER_AUTH_SERVER", &raw.AuthServer},
		{"LAUNCHER_DB", &raw.DBPath},
		{"LAUNCHER_LISTEN", &raw.Listen},
		{"LAUNCHER_API_KEY", &raw.APIKey},
		{"LAUNCHER_ADAPTER_TIMEOUT", &raw.AdapterTimeout},
		{"LAUNCHER_RECONCILE_INTERVAL", &raw.Interval},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			*o.target = v
		}
	}
}

func normalize(raw fileSettings, source string) (*Settings, error) {
	s := &Settings{
		ClientID:   strings.TrimSpace(raw.ClientID),
		Online:     strings.TrimRight(strings.TrimSpace(raw.Online), "/"),
		AuthServer: strings.TrimRight(strings.TrimSpace(raw.AuthServer), "/"),
		DBPath:     strings.TrimSpace(raw.DBPath),
		Listen:     strings.TrimSpace(raw.Listen),
		APIKey:     strings.TrimSpace(raw.APIKey),
		Source:     source,
	}
	if s.DBPath == "" {
		s.DBPath = defaultDBPath
	}
	if s.Listen == "" {
		s.Listen = defaultListen
	}

	for name, value := range map[string]string{"online": s.Online, "auth_server": s.AuthServer} {
		if value == "" {
			continue
		}
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("invalid %s url %q", name, value)
		}
	}

	var err error
	if s.AdapterTimeout, err = parseDuration("adapter_timeout", raw.AdapterTimeout); err != nil {
		return nil, err
	}
	if s.Interval, err = parseDuration("reconcile_interval", raw.Interval); err != nil {
		return nil, err
	}

	return s, nil
}

func parseDuration(name, value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return d, nil
}
