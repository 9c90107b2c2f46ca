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
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	"producerstoolkit/internal/domain"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal, so older binaries tolerate newer files.

type BackendConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	TLSInsecure bool   `yaml:"tls_insecure"`
	// Token is not stored on disk; it lives in the OS keychain.
}

type GeneralConfig struct {
	TelemetryOptIn bool `yaml:"telemetry_opt_in"`
	EnableServer   bool `yaml:"enable_server"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ScheduleDefaults seeds the schedule configuration of newly created projects.
// Per-project values in ptk.json always win once a project exists.
type ScheduleDefaults struct {
	WordsPerPage   int    `yaml:"words_per_page"`
	SecondsPerPage int    `yaml:"seconds_per_page"`
	SetupMinutes   int    `yaml:"setup_minutes"`
	SetupsInt      int    `yaml:"setups_int"`
	SetupsExt      int    `yaml:"setups_ext"`
	StartTime      string `yaml:"start_time"`
	LunchMinutes   int    `yaml:"lunch_minutes"`
	MoveMinutes    int    `yaml:"move_minutes"`
}

type AppConfig struct {
	ConfigVersion int              `yaml:"config_version"`
	General       GeneralConfig    `yaml:"general"`
	Schedule      ScheduleDefaults `yaml:"schedule"`
	Backend       BackendConfig    `yaml:"backend"`
	Logging       LoggingConfig    `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	d := domain.DefaultScheduleConfig()
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, EnableServer: false},
		Schedule: ScheduleDefaults{
			WordsPerPage:   d.WordsPerPage,
			SecondsPerPage: d.SecondsPerPage,
			SetupMinutes:   d.SetupMinutes,
			SetupsInt:      d.SetupsInt,
			SetupsExt:      d.SetupsExt,
			StartTime:      d.StartTime,
			LunchMinutes:   d.LunchMinutes,
			MoveMinutes:    d.MoveMinutes,
		},
		Backend: BackendConfig{BaseURL: "http://localhost:8080", TimeoutMs: 15000, TLSInsecure: false},
		Logging: LoggingConfig{Level: "info", Format: "console", File: ""},
	}
}

// Domain converts the user-scope defaults into a per-project schedule config.
func (s ScheduleDefaults) Domain() domain.ScheduleConfig {
	cfg := domain.DefaultScheduleConfig()
	if s.WordsPerPage > 0 {
		cfg.WordsPerPage = s.WordsPerPage
	}
	if s.SecondsPerPage > 0 {
		cfg.SecondsPerPage = s.SecondsPerPage
	}
	if s.SetupMinutes > 0 {
		cfg.SetupMinutes = s.SetupMinutes
	}
	if s.SetupsInt > 0 {
		cfg.SetupsInt = s.SetupsInt
	}
	if s.SetupsExt > 0 {
		cfg.SetupsExt = s.SetupsExt
	}
	if strings.TrimSpace(s.StartTime) != "" {
		cfg.StartTime = strings.TrimSpace(s.StartTime)
	}
	if s.LunchMinutes > 0 {
		cfg.LunchMinutes = s.LunchMinutes
	}
	if s.MoveMinutes > 0 {
		cfg.MoveMinutes = s.MoveMinutes
	}
	return cfg
}

// Env var names used as overrides.
const (
	EnvBackendURL       = "PTK_BACKEND_URL"
	EnvBackendTimeoutMs = "PTK_BACKEND_TIMEOUT_MS"
	EnvBackendTLSInsec  = "PTK_TLS_INSECURE"
	EnvTelemetryOptIn   = "PTK_TELEMETRY_OPT_IN"
	EnvEnableServer     = "PTK_ENABLE_SERVER"
	EnvWordsPerPage     = "PTK_WORDS_PER_PAGE"
	EnvLogLevel         = "PTK_LOG_LEVEL"
	EnvLogFormat        = "PTK_LOG_FORMAT"
	EnvLogFile          = "PTK_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService = "ProducersToolkit"
	keyringToken   = "backend_token"
)

// tokenStore abstracts keyring, so we can stub in tests.
var tokenStore TokenStore = &osKeyring{}

type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// osKeyring implements TokenStore using the OS keyring via github.com/zalando/go-keyring.
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
		base = filepath.Join(base, "ProducersToolkit")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "ProducersToolkit")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "producerstoolkit")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// The backend token is loaded from the keyring and returned separately; it never sits in the struct.
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

// Save writes the user config YAML and persists the token into the OS keyring (if non-empty).
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

// ClearToken removes the backend token from the keyring.
func ClearToken() error {
	return tokenStore.Delete(keyringService, keyringToken)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	dst.General.EnableServer = src.General.EnableServer
	if src.Schedule.WordsPerPage > 0 {
		dst.Schedule.WordsPerPage = src.Schedule.WordsPerPage
	}
	if src.Schedule.SecondsPerPage > 0 {
		dst.Schedule.SecondsPerPage = src.Schedule.SecondsPerPage
	}
	if src.Schedule.SetupMinutes > 0 {
		dst.Schedule.SetupMinutes = src.Schedule.SetupMinutes
	}
	if src.Schedule.SetupsInt > 0 {
		dst.Schedule.SetupsInt = src.Schedule.SetupsInt
	}
	if src.Schedule.SetupsExt > 0 {
		dst.Schedule.SetupsExt = src.Schedule.SetupsExt
	}
	if strings.TrimSpace(src.Schedule.StartTime) != "" {
		dst.Schedule.StartTime = strings.TrimSpace(src.Schedule.StartTime)
	}
	if src.Schedule.LunchMinutes > 0 {
		dst.Schedule.LunchMinutes = src.Schedule.LunchMinutes
	}
	if src.Schedule.MoveMinutes > 0 {
		dst.Schedule.MoveMinutes = src.Schedule.MoveMinutes
	}
	if src.Backend.BaseURL != "" {
		dst.Backend.BaseURL = src.Backend.BaseURL
	}
	if src.Backend.TimeoutMs != 0 {
		dst.Backend.TimeoutMs = src.Backend.TimeoutMs
	}
	dst.Backend.TLSInsecure = src.Backend.TLSInsecure
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backend.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendTLSInsec)); v != "" {
		cfg.Backend.TLSInsecure = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvEnableServer)); v != "" {
		cfg.General.EnableServer = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvWordsPerPage)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Schedule.WordsPerPage = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func isTruthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "backend.base_url":
		if os.Getenv(EnvBackendURL) != "" {
			return EnvBackendURL, true
		}
	case "backend.timeout_ms":
		if os.Getenv(EnvBackendTimeoutMs) != "" {
			return EnvBackendTimeoutMs, true
		}
	case "backend.tls_insecure":
		if os.Getenv(EnvBackendTLSInsec) != "" {
			return EnvBackendTLSInsec, true
		}
	case "general.telemetry_opt_in":
		if os.Getenv(EnvTelemetryOptIn) != "" {
			return EnvTelemetryOptIn, true
		}
	case "general.enable_server":
		if os.Getenv(EnvEnableServer) != "" {
			return EnvEnableServer, true
		}
	case "schedule.words_per_page":
		if os.Getenv(EnvWordsPerPage) != "" {
			return EnvWordsPerPage, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}

// EffectiveTimeout returns the backend timeout for http.Client setup.
func (b BackendConfig) EffectiveTimeout() time.Duration {
	ms := b.TimeoutMs
	if ms <= 0 {
		ms = Defaults().Backend.TimeoutMs
	}
	return time.Duration(ms) * time.Millisecond
}
