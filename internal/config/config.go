/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in
// the user scope. Environment variables are treated as read-only overrides at
// runtime.
//
// config_version: bump when the structure changes in a backward-incompatible
// way. Unknown fields are ignored on unmarshal.

type AgentConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	TLSInsecure bool   `yaml:"tls_insecure"`
	// Token is not stored on disk; it lives in the OS keychain.
}

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark" (informational for now)
}

// RenderConfig holds defaults for render invocations.
type RenderConfig struct {
	Quality string `yaml:"quality"` // low | medium | high
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Render        RenderConfig  `yaml:"render"`
	Agent         AgentConfig   `yaml:"agent"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Render:        RenderConfig{Quality: "high"},
		Agent:         AgentConfig{BaseURL: "http://localhost:8080", TimeoutMs: 15000, TLSInsecure: false},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvAgentURL       = "MF_AGENT_URL"
	EnvAgentTimeoutMs = "MF_AGENT_TIMEOUT_MS"
	EnvAgentTLSInsec  = "MF_TLS_INSECURE"
	EnvTelemetryOptIn = "MF_TELEMETRY_OPT_IN"
	EnvRenderQuality  = "MF_RENDER_QUALITY"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "MF_LOG_LEVEL"
	EnvLogFormat = "MF_LOG_FORMAT"
	EnvLogSource = "MF_LOG_SOURCE"
	EnvLogFile   = "MF_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService = "MotionForge"
	keyringToken   = "agent_token"
)

// tokenStore abstracts keyring, so tests can stub it.
var tokenStore TokenStore = &osKeyring{}

type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// osKeyring implements TokenStore using the OS keyring via
// github.com/zalando/go-keyring.
type osKeyring struct{}

func (k *osKeyring) Get(service, key string) (string, error) {
	return keyring.Get(service, key)
}
func (k *osKeyring) Set(service, key, value string) error {
	return keyring.Set(service, key, value)
}
func (k *osKeyring) Delete(service, key string) error {
	return keyring.Delete(service, key)
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "MotionForge")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "MotionForge")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "motionforge")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides. The agent token is loaded from the keyring and
// returned separately; it never lives in the struct.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// Save writes the user config YAML and persists the token into the OS
// keyring (if non-empty).
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		if err := tokenStore.Set(keyringService, keyringToken, token); err != nil {
			return err
		}
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if strings.TrimSpace(src.Render.Quality) != "" {
		dst.Render.Quality = strings.ToLower(strings.TrimSpace(src.Render.Quality))
	}
	if src.Agent.BaseURL != "" {
		dst.Agent.BaseURL = src.Agent.BaseURL
	}
	if src.Agent.TimeoutMs != 0 {
		dst.Agent.TimeoutMs = src.Agent.TimeoutMs
	}
	dst.Agent.TLSInsecure = src.Agent.TLSInsecure
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvAgentURL)); v != "" {
		cfg.Agent.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAgentTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Agent.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvAgentTLSInsec)); v != "" {
		cfg.Agent.TLSInsecure = boolish(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = boolish(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvRenderQuality)); v != "" {
		cfg.Render.Quality = strings.ToLower(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = boolish(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func boolish(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// EnvOverrideFor returns the env var name if the field is overridden by
// environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "agent.base_url":
		if os.Getenv(EnvAgentURL) != "" {
			return EnvAgentURL, true
		}
	case "agent.timeout_ms":
		if os.Getenv(EnvAgentTimeoutMs) != "" {
			return EnvAgentTimeoutMs, true
		}
	case "agent.tls_insecure":
		if os.Getenv(EnvAgentTLSInsec) != "" {
			return EnvAgentTLSInsec, true
		}
	case "general.telemetry_opt_in":
		if os.Getenv(EnvTelemetryOptIn) != "" {
			return EnvTelemetryOptIn, true
		}
	case "render.quality":
		if os.Getenv(EnvRenderQuality) != "" {
			return EnvRenderQuality, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}

// EffectiveTimeout returns the agent timeout as a milliseconds string for
// http.Client construction.
func (a AgentConfig) EffectiveTimeout() string {
	if a.TimeoutMs <= 0 {
		return fmt.Sprintf("%dms", Defaults().Agent.TimeoutMs)
	}
	return fmt.Sprintf("%dms", a.TimeoutMs)
}
