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

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type ConvertConfig struct {
	ExcludeIDs  []string `yaml:"exclude_ids"`
	ArcSegments int      `yaml:"arc_segments"` // 0 picks a count from the arc sweep
}

type RenderConfig struct {
	Format     string  `yaml:"format"` // "pdf" | "png"
	Preset     string  `yaml:"preset"` // "web" | "print" | ""
	DPI        int     `yaml:"dpi"`
	PageWidth  float64 `yaml:"page_width"` // points
	PageHeight float64 `yaml:"page_height"`
	Margin     float64 `yaml:"margin"`
	Background string  `yaml:"background"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // empty means <config dir>/cache.sqlite
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Convert       ConvertConfig `yaml:"convert"`
	Render        RenderConfig  `yaml:"render"`
	Cache         CacheConfig   `yaml:"cache"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults. The page is A4 portrait in points.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Convert:       ConvertConfig{ExcludeIDs: nil, ArcSegments: 0},
		Render:        RenderConfig{Format: "pdf", DPI: 150, PageWidth: 595.28, PageHeight: 841.89, Margin: 36, Background: "#ffffff"},
		Cache:         CacheConfig{Enabled: false},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvExcludeIDs   = "SVGP_EXCLUDE_IDS"
	EnvArcSegments  = "SVGP_ARC_SEGMENTS"
	EnvRenderFormat = "SVGP_RENDER_FORMAT"
	EnvRenderDPI    = "SVGP_RENDER_DPI"
	EnvCacheEnabled = "SVGP_CACHE_ENABLED"
	EnvCachePath    = "SVGP_CACHE_PATH"
	EnvConfigFile   = "SVGP_CONFIG"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "SVGP_LOG_LEVEL"
	EnvLogFormat = "SVGP_LOG_FORMAT"
	EnvLogSource = "SVGP_LOG_SOURCE"
	EnvLogFile   = "SVGP_LOG_FILE"
)

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "svgpatch")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "svgpatch")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "svgpatch")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "svgpatch")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the config file path. SVGP_CONFIG takes precedence.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// CachePath returns the effective conversion cache database path.
func (c AppConfig) CachePath() (string, error) {
	if p := strings.TrimSpace(c.Cache.Path); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.sqlite"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file is not an error;
// a file that is present but not valid YAML is.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			applyEnvOverrides(&cfg)
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		applyEnvOverrides(&cfg)
		return cfg, fmt.Errorf("read config: %w", err)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg as YAML to path, creating parent directories.
func SaveFile(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if len(src.Convert.ExcludeIDs) > 0 {
		dst.Convert.ExcludeIDs = cleanIDs(src.Convert.ExcludeIDs)
	}
	if src.Convert.ArcSegments > 0 {
		dst.Convert.ArcSegments = src.Convert.ArcSegments
	}
	if v := strings.TrimSpace(src.Render.Format); v != "" {
		dst.Render.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Render.Preset); v != "" {
		dst.Render.Preset = strings.ToLower(v)
	}
	if src.Render.DPI > 0 {
		dst.Render.DPI = src.Render.DPI
	}
	if src.Render.PageWidth > 0 {
		dst.Render.PageWidth = src.Render.PageWidth
	}
	if src.Render.PageHeight > 0 {
		dst.Render.PageHeight = src.Render.PageHeight
	}
	if src.Render.Margin > 0 {
		dst.Render.Margin = src.Render.Margin
	}
	if v := strings.TrimSpace(src.Render.Background); v != "" {
		dst.Render.Background = v
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Cache.Enabled = src.Cache.Enabled
	if v := strings.TrimSpace(src.Cache.Path); v != "" {
		dst.Cache.Path = v
	}
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
	if v := strings.TrimSpace(os.Getenv(EnvExcludeIDs)); v != "" {
		cfg.Convert.ExcludeIDs = cleanIDs(strings.Split(v, ","))
	}
	if v := strings.TrimSpace(os.Getenv(EnvArcSegments)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Convert.ArcSegments = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvRenderFormat)); v != "" {
		cfg.Render.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvRenderDPI)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Render.DPI = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheEnabled)); v != "" {
		cfg.Cache.Enabled = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvCachePath)); v != "" {
		cfg.Cache.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

var envKeys = map[string]string{
	"convert.exclude_ids":  EnvExcludeIDs,
	"convert.arc_segments": EnvArcSegments,
	"render.format":        EnvRenderFormat,
	"render.dpi":           EnvRenderDPI,
	"cache.enabled":        EnvCacheEnabled,
	"cache.path":           EnvCachePath,
	"logging.level":        EnvLogLevel,
	"logging.format":       EnvLogFormat,
	"logging.source":       EnvLogSource,
	"logging.file":         EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
