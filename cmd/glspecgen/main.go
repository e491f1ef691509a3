// # cmd/glspecgen/main.go
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Laar/opengl-api/internal/config"
	"github.com/Laar/opengl-api/internal/observability"
)

var (
	configPath  = flag.String("config", "./glspecgen.toml", "Path to config file")
	outPath     = flag.String("out", "", "Override output header path")
	watch       = flag.Bool("watch", false, "Regenerate when a registry file changes")
	check       = flag.String("check", "", "Round-trip check a registry file and exit")
	checkKind   = flag.String("kind", "auto", "Registry kind for -check: enum, tm, fun or auto")
	historyRuns = flag.Int("history", 0, "Print the N most recent generation runs and exit")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("glspecgen v%s\n", VERSION)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./glspecgen.toml" && os.IsNotExist(err) {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	if *outPath != "" {
		cfg.Output = *outPath
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if *historyRuns > 0 {
		if err := app.PrintHistory(*historyRuns); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *check != "" {
		if err := app.CheckRoundTrip(*check, *checkKind); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		os.Exit(0)
	}

	trigger := "once"
	if *watch {
		trigger = "startup"
	}
	if err := app.Generate(trigger); err != nil {
		os.Exit(1)
	}

	if !*watch {
		return
	}

	// Watch mode
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := observability.Serve(cfg.Metrics.Addr); err != nil {
				slog.Error("metrics server failed", "error", err)
			}
		}()
	}
	if err := app.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	// Block forever
	select {}
}
