/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"svgpatch/internal/config"
	"svgpatch/internal/convert"
	applog "svgpatch/internal/log"
	"svgpatch/internal/render"
	"svgpatch/internal/storage"
	"svgpatch/internal/svgdoc"
	"svgpatch/internal/vector"
	"svgpatch/internal/version"
)

// app runs one CLI command against a loaded configuration.
type app struct {
	cfg    config.AppConfig
	stdout io.Writer
	stderr io.Writer
}

// usageError is reported with exit code 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error { return usageError{msg: fmt.Sprintf(format, args...)} }

func (a *app) run(args []string) int {
	l := applog.WithComponent("cli")
	if len(args) == 0 {
		usage(a.stdout)
		return exitOK
	}
	l.Debug("start", slog.String("cmd", args[0]), slog.Int("args", len(args)-1))

	var err error
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(a.stdout, version.String())
		return exitOK
	case "help", "-h", "--help":
		usage(a.stdout)
		return exitOK
	case "shapes":
		err = a.shapes(args[1:])
	case "ids":
		err = a.ids(args[1:])
	case "render":
		err = a.render(args[1:])
	case "compare":
		err = a.compare(args[1:])
	case "cache":
		err = a.cache(args[1:])
	case "config":
		err = a.config(args[1:])
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n", args[0])
		usage(a.stderr)
		return exitUsage
	}

	var ue usageError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.As(err, &ue):
		fmt.Fprintf(a.stderr, "%s: %s\n", args[0], ue.msg)
		return exitUsage
	default:
		l.Error("command failed", slog.String("cmd", args[0]), slog.Any("err", err))
		fmt.Fprintln(a.stderr, "Error:", err)
		return exitFailure
	}
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parseArgs parses fs allowing flags before, between and after the
// positional arguments, which it returns in order.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, err
			}
			return nil, usageError{msg: err.Error()}
		}
		args = fs.Args()
		if len(args) == 0 {
			return pos, nil
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
}

type convertFlags struct {
	exclude     string
	arcSegments int
}

func (a *app) convertFlags(fs *flag.FlagSet) *convertFlags {
	cf := &convertFlags{}
	fs.StringVar(&cf.exclude, "exclude", strings.Join(a.cfg.Convert.ExcludeIDs, ","), "comma separated element ids to leave out")
	fs.IntVar(&cf.arcSegments, "arc-segments", a.cfg.Convert.ArcSegments, "cubic pieces per arc; 0 derives the count from the sweep")
	return cf
}

func (cf *convertFlags) ids() []string {
	var out []string
	for _, id := range strings.Split(cf.exclude, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// load converts the document at path, going through the conversion cache
// when it is enabled. The parsed document is returned when needDoc is set
// or when the shapes were not cached.
func (a *app) load(ctx context.Context, path string, cf *convertFlags, needDoc bool) (*svgdoc.Document, []vector.Shape, error) {
	l := applog.WithOperation(applog.WithComponent("cli"), "load").With(slog.String("file", path))
	if cf.arcSegments < 0 {
		return nil, nil, usagef("-arc-segments must be >= 0")
	}
	ids := cf.ids()
	conv := &convert.Converter{ArcSegments: cf.arcSegments}
	exclude := convert.NewExcludeSet(ids...)

	if !a.cfg.Cache.Enabled {
		doc, err := svgdoc.ParseFile(path)
		if err != nil {
			return nil, nil, err
		}
		shapes, err := conv.Convert(doc, exclude)
		return doc, shapes, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	cache, err := a.openCache()
	if err != nil {
		l.Warn("cache unavailable", slog.Any("err", err))
	} else {
		defer cache.Close()
	}

	key := storage.Key(src, ids, cf.arcSegments)
	if cache != nil {
		shapes, ok, err := cache.Get(ctx, key)
		switch {
		case err != nil:
			l.Warn("cache read failed", slog.Any("err", err))
		case ok:
			l.Debug("cache hit", slog.Int("shapes", len(shapes)))
			if !needDoc {
				return nil, shapes, nil
			}
			doc, err := svgdoc.ParseFile(path)
			return doc, shapes, err
		}
	}

	doc, err := svgdoc.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	shapes, err := conv.Convert(doc, exclude)
	if err != nil {
		return nil, nil, err
	}
	if cache != nil {
		if err := cache.Put(ctx, key, path, shapes); err != nil {
			l.Warn("cache write failed", slog.Any("err", err))
		}
	}
	return doc, shapes, nil
}

func (a *app) openCache() (*storage.Cache, error) {
	path, err := a.cfg.CachePath()
	if err != nil {
		return nil, err
	}
	return storage.OpenCache(path)
}

func (a *app) shapes(args []string) error {
	fs := a.flagSet("shapes")
	cf := a.convertFlags(fs)
	out := fs.String("o", "", "write JSON to this file instead of stdout")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usagef("expects exactly one <file.svg>")
	}
	_, shapes, err := a.load(context.Background(), pos[0], cf, false)
	if err != nil {
		return err
	}
	data, err := vector.MarshalShapes(shapes)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("format json: %w", err)
	}
	buf.WriteByte('\n')
	if *out == "" {
		_, err = a.stdout.Write(buf.Bytes())
		return err
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	applog.WithComponent("cli").Info("shapes written", slog.String("path", *out), slog.Int("shapes", len(shapes)))
	return nil
}

func (a *app) ids(args []string) error {
	fs := a.flagSet("ids")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usagef("expects exactly one <file.svg>")
	}
	doc, err := svgdoc.ParseFile(pos[0])
	if err != nil {
		return err
	}
	doc.Walk(func(n *svgdoc.Node, depth int) bool {
		if n.ID != "" {
			fmt.Fprintf(a.stdout, "%s%s\t%s\n", strings.Repeat("  ", depth), n.Kind, n.ID)
		}
		return true
	})
	return nil
}

func (a *app) pageOptions() render.Options {
	r := a.cfg.Render
	return render.Options{
		PageWidth:  r.PageWidth,
		PageHeight: r.PageHeight,
		Margin:     r.Margin,
		DPI:        r.DPI,
		Background: r.Background,
		Fit:        true,
	}
}

func (a *app) render(args []string) error {
	fs := a.flagSet("render")
	cf := a.convertFlags(fs)
	translate := fs.String("translate", "", "translate the collection by x,y (applied after -scale)")
	scale := fs.String("scale", "", "scale the collection by sx,sy")
	dpi := fs.Int("dpi", a.cfg.Render.DPI, "raster resolution")
	preset := fs.String("preset", a.cfg.Render.Preset, "web or print; <out> is then a directory")
	format := fs.String("format", a.cfg.Render.Format, "pdf or png when <out> has no known extension")
	fit := fs.Bool("fit", true, "scale the shapes to fill the page")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 2 {
		return usagef("expects <file.svg> <out>")
	}
	in, out := pos[0], pos[1]

	_, shapes, err := a.load(context.Background(), in, cf, false)
	if err != nil {
		return err
	}
	c := vector.NewCollection(shapes...)
	if *scale != "" {
		sx, sy, err := parsePair(*scale)
		if err != nil {
			return usagef("-scale: %v", err)
		}
		c.Scale(sx, sy)
	}
	if *translate != "" {
		tx, ty, err := parsePair(*translate)
		if err != nil {
			return usagef("-translate: %v", err)
		}
		c.Translate(tx, ty)
	}

	o := a.pageOptions()
	o.DPI = *dpi
	o.Fit = *fit
	l := applog.WithComponent("cli")

	if strings.TrimSpace(*preset) != "" {
		p, err := render.ParsePreset(*preset)
		if err != nil {
			return usageError{msg: err.Error()}
		}
		bo := render.BatchOptions{
			Preset: p,
			OutDir: out,
			Name:   strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)),
			Page:   o,
		}
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "dpi" {
				bo.DPIOverride = *dpi
			}
		})
		paths, err := render.Batch(c, bo)
		if err != nil {
			return err
		}
		for _, path := range paths {
			fmt.Fprintln(a.stdout, path)
		}
		l.Info("batch rendered", slog.String("preset", string(p)), slog.Int("files", len(paths)))
		return nil
	}

	f := strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	if f != "pdf" && f != "png" {
		f = strings.ToLower(*format)
	}
	switch f {
	case "pdf":
		err = render.PDFFile(c, out, o)
	case "png":
		err = render.PNGFile(c, out, o)
	default:
		return usagef("unknown format %q", f)
	}
	if err != nil {
		return err
	}
	l.Info("rendered", slog.String("path", out), slog.String("format", f), slog.Int("shapes", c.Len()))
	return nil
}

func (a *app) compare(args []string) error {
	fs := a.flagSet("compare")
	cf := a.convertFlags(fs)
	dpi := fs.Int("dpi", 96, "raster resolution")
	threshold := fs.Float64("threshold", 0.05, "largest tolerated share of differing pixels")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usagef("expects exactly one <file.svg>")
	}
	doc, shapes, err := a.load(context.Background(), pos[0], cf, true)
	if err != nil {
		return err
	}

	o := a.pageOptions()
	o.DPI = *dpi
	o.Fit = false
	c := vector.NewCollection(shapes...)
	c.SetTransform(render.FitViewBox(doc.ViewBox, o))
	got, err := render.Raster(c, o)
	if err != nil {
		return err
	}

	f, err := os.Open(pos[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", pos[0], err)
	}
	defer f.Close()
	want, err := render.Reference(f, doc.ViewBox, o)
	if err != nil {
		return err
	}
	d, err := render.Diff(got, want)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "pixels=%d different=%d ratio=%.4f max_delta=%d\n", d.Pixels, d.Different, d.Ratio(), d.MaxDelta)
	if d.Ratio() > *threshold {
		return fmt.Errorf("rasters differ: %.4f > %.4f", d.Ratio(), *threshold)
	}
	return nil
}

func (a *app) cache(args []string) error {
	if len(args) != 1 {
		return usagef("expects stats or purge")
	}
	sub := args[0]
	if sub != "stats" && sub != "purge" {
		return usagef("unknown subcommand %q", sub)
	}
	c, err := a.openCache()
	if err != nil {
		return err
	}
	defer c.Close()
	ctx := context.Background()

	if sub == "purge" {
		n, err := c.Purge(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "purged %d entries\n", n)
		return nil
	}
	st, err := c.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "path:    %s\n", st.Path)
	fmt.Fprintf(a.stdout, "schema:  %d\n", st.Schema)
	fmt.Fprintf(a.stdout, "entries: %d\n", st.Entries)
	fmt.Fprintf(a.stdout, "shapes:  %d\n", st.Shapes)
	fmt.Fprintf(a.stdout, "bytes:   %d\n", st.Bytes)
	fmt.Fprintf(a.stdout, "hits:    %d\n", st.Hits)
	fmt.Fprintf(a.stdout, "enabled: %t\n", a.cfg.Cache.Enabled)
	return nil
}

// configKeys are the settings that may carry an environment override.
var configKeys = []string{
	"convert.exclude_ids", "convert.arc_segments",
	"render.format", "render.dpi",
	"cache.enabled", "cache.path",
	"logging.level", "logging.format", "logging.source", "logging.file",
}

func (a *app) config(args []string) error {
	if len(args) != 1 {
		return usagef("expects path or show")
	}
	switch args[0] {
	case "path":
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, p)
		return nil
	case "show":
		data, err := yaml.Marshal(a.cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		if _, err := a.stdout.Write(data); err != nil {
			return err
		}
		for _, k := range configKeys {
			if env, ok := config.EnvOverrideFor(k); ok {
				fmt.Fprintf(a.stdout, "# %s overridden by %s\n", k, env)
			}
		}
		return nil
	}
	return usagef("unknown subcommand %q", args[0])
}

func parsePair(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want two comma separated numbers, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
