// Package main is the entry point for the pickstorm session service.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dshills/pickstorm/internal/config"
	"github.com/dshills/pickstorm/internal/log"
	"github.com/dshills/pickstorm/internal/plugin/lua"
	"github.com/dshills/pickstorm/internal/session"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath string
	LogLevel   string
	Scripts    []string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}

	// Flag overrides the file.
	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger := log.New(log.Config{
		Level:  log.ParseLevel(level),
		Output: os.Stderr,
		Prefix: "pickstorm",
	})
	log.SetDefault(logger)

	sup := session.NewSupervisor(
		session.WithLogger(logger.WithComponent("supervisor")),
		session.WithSessionMoveDelay(cfg.MoveDelay()),
		session.WithSessionTypedDelay(cfg.TypedDelay()),
		session.WithPluginDelay(cfg.PluginDelay()),
	)
	defer sup.Close()

	plugins, err := loadPlugins(opts.Scripts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, p := range plugins {
		defer p.Close()
		sup.RegisterPlugin(p)
		logger.Info("registered plugin %s", p.Name())
	}

	// Config changes on disk only retune the log level while running.
	// Session delays apply to sessions registered after the reload.
	var watcher *config.Watcher
	if opts.ConfigPath != "" {
		watcher, err = config.NewWatcher(opts.ConfigPath, func(next config.Config) {
			logger.SetLevel(log.ParseLevel(next.LogLevel))
			logger.Info("configuration reloaded from %s", opts.ConfigPath)
		}, config.WithWatcherLogger(logger.WithComponent("config")))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to watch config: %v\n", err)
			return 1
		}
		if err := watcher.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer watcher.Stop()
	}

	logger.Info("pickstorm %s ready (plugins=%d)", version, len(plugins))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signals
	logger.Info("received %s, shutting down", sig)

	stats := sup.Stats()
	logger.Debug("dispatched=%d dropped=%d superseded=%d",
		stats.ProviderDispatches, stats.ProviderDropped, stats.ProvidersSuperseded)

	return 0
}

func loadPlugins(scripts []string) ([]*lua.Plugin, error) {
	plugins := make([]*lua.Plugin, 0, len(scripts))
	for _, script := range scripts {
		name := strings.TrimSuffix(filepath.Base(script), ".lua")
		p, err := lua.NewFromFile(name, script)
		if err != nil {
			for _, loaded := range plugins {
				loaded.Close()
			}
			return nil, fmt.Errorf("failed to load plugin %s: %w", script, err)
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Pickstorm - interactive picker session service\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pickstorm [options] [plugins...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pickstorm                        Run with defaults\n")
		fmt.Fprintf(os.Stderr, "  pickstorm -c pickstorm.toml      Run with a config file\n")
		fmt.Fprintf(os.Stderr, "  pickstorm marks.lua              Run with a Lua plugin\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Pickstorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" {
		switch opts.LogLevel {
		case "debug", "info", "warn", "error":
		default:
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
			os.Exit(1)
		}
	}

	// Remaining arguments are Lua plugin scripts.
	opts.Scripts = flag.Args()

	return opts
}
