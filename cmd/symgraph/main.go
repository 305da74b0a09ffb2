// # cmd/symgraph/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"symgraph/internal/app"
	"symgraph/internal/config"
	"symgraph/internal/observability"
)

var (
	configPath = flag.String("config", "./symgraph.toml", "Path to config file")
	output     = flag.String("o", "", "Write the graph to this file instead of stdout")
	merge      = flag.Bool("merge", false, "Generate only one edge between two files")
	watch      = flag.Bool("watch", false, "Re-render the graph whenever an input changes")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("symgraph v%s\n", VERSION)
		os.Exit(0)
	}

	// Logs go to stderr; stdout carries the graph itself.
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./symgraph.toml" {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: symgraph [flags] <binary>...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	outPath := cfg.Output.DOT
	if *output != "" {
		outPath = *output
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if !*watch {
		if err := a.Run(flag.Args(), outPath, *merge); err != nil {
			slog.Error("run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Addr != "" {
		srv := observability.NewServer(cfg.Metrics.Addr)
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start metrics server", "error", err)
			os.Exit(1)
		}
		defer srv.Stop(context.Background())
	}

	if err := a.Watch(ctx, flag.Args(), outPath, *merge); err != nil {
		slog.Error("watch failed", "error", err)
		os.Exit(1)
	}
}
