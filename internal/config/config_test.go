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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the config file at a fresh temp dir so the developer's own config is never read.
func isolate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigFile, p)
	return p
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Render.Format != "pdf" || cfg.Render.DPI != 150 || cfg.Convert.ArcSegments != 0 {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
}

func TestEnvOverridesConvert(t *testing.T) {
	isolate(t)
	t.Setenv(EnvExcludeIDs, " background, ,labels ")
	t.Setenv(EnvArcSegments, "8")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := strings.Join(cfg.Convert.ExcludeIDs, "|"); got != "background|labels" {
		t.Fatalf("ExcludeIDs = %q", got)
	}
	if cfg.Convert.ArcSegments != 8 {
		t.Fatalf("ArcSegments = %d, want 8", cfg.Convert.ArcSegments)
	}
	if env, ok := EnvOverrideFor("convert.arc_segments"); !ok || env != EnvArcSegments {
		t.Fatalf("EnvOverrideFor(convert.arc_segments) = %q, %v", env, ok)
	}
	if _, ok := EnvOverrideFor("render.dpi"); ok {
		t.Fatalf("render.dpi should not report an override")
	}
}

func TestEnvOverridesIgnoreInvalidNumbers(t *testing.T) {
	isolate(t)
	t.Setenv(EnvArcSegments, "many")
	t.Setenv(EnvRenderDPI, "-3")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Convert.ArcSegments != 0 || cfg.Render.DPI != 150 {
		t.Fatalf("invalid env values should be ignored: %#v", cfg)
	}
}

func TestSaveAndLoadRoundTripFile(t *testing.T) {
	p := isolate(t)
	cfg := Defaults()
	cfg.Convert.ExcludeIDs = []string{"grid"}
	cfg.Render.Format = "png"
	cfg.Cache.Enabled = true
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	got, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(got.Convert.ExcludeIDs) != 1 || got.Convert.ExcludeIDs[0] != "grid" || got.Render.Format != "png" || !got.Cache.Enabled {
		t.Fatalf("round trip mismatch: %#v", got)
	}
}

func TestLoadFileRejectsBrokenYAML(t *testing.T) {
	p := isolate(t)
	if err := os.WriteFile(p, []byte("render: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(p)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Render.Format != "pdf" {
		t.Fatalf("defaults should still be returned on error: %#v", cfg.Render)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "DEBUG"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/svgpatch.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/svgpatch.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "X:/svgpatch.log")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/svgpatch.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestCachePathDefaultsUnderConfigDir(t *testing.T) {
	cfg := Defaults()
	p, err := cfg.CachePath()
	if err != nil {
		t.Fatalf("CachePath() error: %v", err)
	}
	if filepath.Base(p) != "cache.sqlite" {
		t.Fatalf("unexpected cache path %q", p)
	}
	cfg.Cache.Path = "/tmp/x.sqlite"
	if p, _ := cfg.CachePath(); p != "/tmp/x.sqlite" {
		t.Fatalf("explicit cache path ignored: %q", p)
	}
}
