/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"svgpatch/internal/config"
	"svgpatch/internal/crash"
	applog "svgpatch/internal/log"
	"svgpatch/internal/version"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "svgpatch: SVG artwork as drawable shape patches")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  svgpatch version|-v|--version                 Show version")
	fmt.Fprintln(w, "  svgpatch shapes <file.svg> [flags]            Convert and print shapes as JSON")
	fmt.Fprintln(w, "  svgpatch ids <file.svg>                       List element kinds and ids")
	fmt.Fprintln(w, "  svgpatch render <file.svg> <out> [flags]      Render to out.pdf, out.png, or a preset dir")
	fmt.Fprintln(w, "  svgpatch compare <file.svg> [flags]           Compare converted output with a direct rasterization")
	fmt.Fprintln(w, "  svgpatch cache stats|purge                    Inspect or clear the conversion cache")
	fmt.Fprintln(w, "  svgpatch config path|show                     Show the config file path or effective config")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run a command with -h for its flags.")
}

func main() {
	cfg, cfgErr := config.Load()
	applog.Init(logOptions(cfg))
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cfgErr))
	}

	info := crash.Info{}
	if len(os.Args) > 1 {
		info.Command = os.Args[1]
	}
	if len(os.Args) > 2 {
		info.Document = os.Args[2]
	}
	defer crash.Recover(info)

	a := &app{cfg: cfg, stdout: os.Stdout, stderr: os.Stderr}
	code := a.run(os.Args[1:])
	if code != exitOK {
		os.Exit(code)
	}
}

// logOptions maps the logging section of the config, which already carries
// the SVGP_LOG_* overrides.
func logOptions(cfg config.AppConfig) applog.Options {
	return applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	}
}
