/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"svgpatch/internal/vector"
)

// PresetName represents a named output preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls rendering one collection into several formats.
//
// Files are written to <OutDir>/<preset>/<format>/<Name>.<format>. An empty
// Name becomes "shapes"; an empty OutDir is the working directory.
type BatchOptions struct {
	Preset      PresetName
	Formats     []string // pdf, png; empty means preset defaults
	DPIOverride int      // when > 0 overrides the preset DPI
	OutDir      string
	Name        string
	Page        Options // page geometry; DPI is taken from the preset
}

// Batch renders c for every requested format and returns the written paths
// in format order.
func Batch(c *vector.Collection, opt BatchOptions) ([]string, error) {
	if c == nil {
		return nil, errors.New("collection is nil")
	}
	preset := opt.Preset
	if preset == "" {
		preset = PresetWeb
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(preset)
	}

	o := opt.Page
	o.DPI = presetDPI(preset)
	if opt.DPIOverride > 0 {
		o.DPI = opt.DPIOverride
	}
	name := opt.Name
	if name == "" {
		name = "shapes"
	}
	base := filepath.Join(opt.OutDir, string(preset))

	l := renderLogger("batch")
	var written []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		out := filepath.Join(base, f, name+"."+f)
		switch f {
		case "pdf":
			if err := PDFFile(c, out, o); err != nil {
				return written, fmt.Errorf("pdf: %w", err)
			}
		case "png":
			if err := PNGFile(c, out, o); err != nil {
				return written, fmt.Errorf("png: %w", err)
			}
		default:
			return written, fmt.Errorf("unknown format: %s", f)
		}
		written = append(written, out)
		l.Debug("written", "preset", string(preset), "format", f, "path", out)
	}
	return written, nil
}

// ParsePreset accepts "web" or "print" in any case.
func ParsePreset(s string) (PresetName, error) {
	switch p := PresetName(strings.ToLower(strings.TrimSpace(s))); p {
	case PresetWeb, PresetPrint:
		return p, nil
	}
	return "", fmt.Errorf("unknown preset: %q", s)
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"png"}
	}
}

func presetDPI(p PresetName) int {
	switch p {
	case PresetPrint:
		return 300
	default:
		return 96
	}
}
