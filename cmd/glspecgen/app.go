// # cmd/glspecgen/app.go
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/Laar/opengl-api/internal/assemble"
	"github.com/Laar/opengl-api/internal/compose"
	"github.com/Laar/opengl-api/internal/config"
	"github.com/Laar/opengl-api/internal/history"
	"github.com/Laar/opengl-api/internal/observability"
	"github.com/Laar/opengl-api/internal/parser"
	"github.com/Laar/opengl-api/internal/roundtrip"
	"github.com/Laar/opengl-api/internal/watcher"
)

type App struct {
	Config  *config.Config
	History *history.Store

	filter  func(parser.Category) bool
	limiter *rate.Limiter
	watch   *watcher.Watcher
}

func NewApp(cfg *config.Config) (*App, error) {
	filter, err := buildFilter(cfg.Filter)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		filter:  filter,
		limiter: rate.NewLimiter(rate.Limit(cfg.Watch.MaxPerSecond), 1),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		app.History = store
	}

	return app, nil
}

func (a *App) Close() {
	if a.watch != nil {
		_ = a.watch.Close()
	}
	if a.History != nil {
		_ = a.History.Close()
	}
}

// buildFilter compiles the include/exclude globs into a category predicate.
// Only vendor-extension categories are filtered; core versions and bare
// names always pass.
func buildFilter(f config.Filter) (func(parser.Category) bool, error) {
	if len(f.Include) == 0 && len(f.Exclude) == 0 {
		return nil, nil
	}
	include, err := compileGlobs(f.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(f.Exclude)
	if err != nil {
		return nil, err
	}
	return func(c parser.Category) bool {
		if c.Kind != parser.CategoryExtension {
			return true
		}
		name := c.String()
		for _, g := range exclude {
			if g.Match(name) {
				return false
			}
		}
		if len(include) == 0 {
			return true
		}
		for _, g := range include {
			if g.Match(name) {
				return true
			}
		}
		return false
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("bad filter pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// Generate runs the full pipeline once: read the three registries, parse,
// assemble, compose, write the header. One history row per run.
func (a *App) Generate(trigger string) error {
	runID := uuid.New().String()
	start := time.Now()
	log := slog.With("run", runID, "trigger", trigger)

	run := history.Run{ID: runID, Timestamp: start.UTC(), Trigger: trigger}
	err := a.generate(log, &run)
	run.Duration = time.Since(start)
	observability.GenerationDuration.Observe(run.Duration.Seconds())

	if err != nil {
		run.Failed = true
		run.Error = err.Error()
		observability.GenerationsTotal.WithLabelValues("error").Inc()
		log.Error("generation failed", "error", err)
	} else {
		observability.GenerationsTotal.WithLabelValues("ok").Inc()
		log.Info("generation complete",
			"functions", run.Functions,
			"enumerations", run.Enumerations,
			"bytes", run.OutputBytes,
			"duration", run.Duration)
	}

	if a.History != nil {
		if herr := a.History.SaveRun(run); herr != nil {
			log.Warn("failed to record run", "error", herr)
		}
	}
	return err
}

func (a *App) generate(log *slog.Logger, run *history.Run) error {
	enumSrc, err := os.ReadFile(a.Config.EnumSpec)
	if err != nil {
		return err
	}
	tmSrc, err := os.ReadFile(a.Config.TypeMap)
	if err != nil {
		return err
	}
	funSrc, err := os.ReadFile(a.Config.FuncSpec)
	if err != nil {
		return err
	}

	enumLines, err := timedParse("enum", func() ([]parser.EnumLine, error) {
		return parser.ParseEnumLines(string(enumSrc))
	})
	if err != nil {
		return err
	}
	run.EnumLines = len(enumLines)

	tmLines, err := timedParse("typemap", func() ([]parser.TMLine, error) {
		return parser.ParseTypeMapLines(string(tmSrc))
	})
	if err != nil {
		return err
	}
	run.TMLines = len(tmLines)
	tm := parser.BuildTypeMap(tmLines)

	funLines, err := timedParse("function", func() ([]parser.FunLine, error) {
		return parser.ParseFunLines(string(funSrc))
	})
	if err != nil {
		return err
	}
	run.FunLines = len(funLines)

	enums, err := assemble.GroupEnums(enumLines)
	if err != nil {
		return err
	}
	reg, err := assemble.AssembleFunctionRegistry(funLines)
	if err != nil {
		return err
	}
	run.Enumerations = len(enums)
	run.Functions = len(reg.Functions)
	run.Sections = len(reg.Sections)
	observability.FunctionCount.Set(float64(len(reg.Functions)))
	observability.EnumerationCount.Set(float64(len(enums)))

	header, err := compose.ComposeHeader(enums, reg, tm, compose.Options{Filter: a.filter})
	if err != nil {
		return err
	}
	run.OutputBytes = len(header)

	if dir := filepath.Dir(a.Config.Output); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(a.Config.Output, []byte(header), 0o644); err != nil {
		return err
	}
	log.Debug("header written", "path", a.Config.Output)
	return nil
}

func timedParse[T any](registry string, parse func() ([]T, error)) ([]T, error) {
	start := time.Now()
	lines, err := parse()
	observability.ParseDuration.WithLabelValues(registry).Observe(time.Since(start).Seconds())
	return lines, err
}

// StartWatcher begins regenerating whenever one of the registries changes.
func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.Config.Watch.Exclude, func(paths []string) {
		observability.WatcherEventsTotal.Inc()
		if !a.limiter.Allow() {
			slog.Debug("regeneration suppressed by rate limit", "paths", paths)
			return
		}
		slog.Info("registry changed", "paths", paths)
		_ = a.Generate("watch")
	})
	if err != nil {
		return err
	}
	a.watch = w
	return w.Watch([]string{a.Config.EnumSpec, a.Config.TypeMap, a.Config.FuncSpec})
}

// CheckRoundTrip runs the parse → render → reparse → compare verification on
// one registry file.
func (a *App) CheckRoundTrip(path, kindFlag string) error {
	kind, err := a.registryKind(path, kindFlag)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	res := roundtrip.Check(kind, string(src))
	if !res.OK() {
		return res.Err
	}
	fmt.Printf("%s: round-trip ok (%s registry)\n", path, kind)
	return nil
}

func (a *App) registryKind(path, kindFlag string) (roundtrip.Kind, error) {
	switch kindFlag {
	case "enum":
		return roundtrip.KindEnum, nil
	case "tm", "typemap":
		return roundtrip.KindTypeMap, nil
	case "fun", "function":
		return roundtrip.KindFunction, nil
	case "", "auto":
	default:
		return 0, fmt.Errorf("unknown registry kind %q", kindFlag)
	}

	abs := func(p string) string {
		a, err := filepath.Abs(p)
		if err != nil {
			return p
		}
		return a
	}
	switch abs(path) {
	case abs(a.Config.EnumSpec):
		return roundtrip.KindEnum, nil
	case abs(a.Config.TypeMap):
		return roundtrip.KindTypeMap, nil
	case abs(a.Config.FuncSpec):
		return roundtrip.KindFunction, nil
	}
	switch {
	case strings.HasSuffix(path, ".tm"):
		return roundtrip.KindTypeMap, nil
	case strings.HasSuffix(path, ".enums"):
		return roundtrip.KindEnum, nil
	case strings.HasSuffix(path, ".funcs"):
		return roundtrip.KindFunction, nil
	}
	return 0, fmt.Errorf("cannot infer registry kind of %q, pass -kind", path)
}

// PrintHistory lists the most recent generation runs.
func (a *App) PrintHistory(limit int) error {
	if a.History == nil {
		return fmt.Errorf("no history database configured")
	}
	runs, err := a.History.RecentRuns(limit)
	if err != nil {
		return err
	}
	for _, run := range runs {
		status := "ok"
		if run.Failed {
			status = "failed: " + run.Error
		}
		fmt.Printf("%s  %-5s  funcs=%-4d enums=%-4d bytes=%-7d %-12s %s\n",
			run.Timestamp.Format(time.RFC3339), run.Trigger,
			run.Functions, run.Enumerations, run.OutputBytes,
			run.Duration.Round(time.Millisecond), status)
	}
	return nil
}
