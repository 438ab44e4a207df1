package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/doridoridoriand/pingclock/internal/cli"
	"github.com/doridoridoriand/pingclock/internal/config"
	"github.com/doridoridoriand/pingclock/internal/log"
	"github.com/doridoridoriand/pingclock/internal/monitor"
	"github.com/doridoridoriand/pingclock/internal/ping"
	"github.com/doridoridoriand/pingclock/internal/probe"
	"github.com/doridoridoriand/pingclock/internal/ui"
	"github.com/doridoridoriand/pingclock/internal/web"
)

const version = "0.1.0"

func main() {
	var (
		flagConfig       cli.OptionalString
		flagTarget       cli.OptionalString
		flagGreen        cli.OptionalInt
		flagYellow       cli.OptionalInt
		flagListen       cli.OptionalString
		flagNoUI         cli.OptionalBool
		flagLogLevel     cli.OptionalString
		flagVersion      bool
		flagVersionShort bool
	)

	flag.Var(&flagConfig, "config", "config file path (default: per-user config dir)")
	flag.Var(&flagTarget, "target", "probe target, IP or hostname (override config)")
	flag.Var(&flagTarget, "t", "probe target, IP or hostname (override config)")
	flag.Var(&flagGreen, "green", "green latency threshold in ms (override config)")
	flag.Var(&flagYellow, "yellow", "yellow latency threshold in ms (override config)")
	flag.Var(&flagListen, "listen", "HTTP listen address for /metrics and /api (e.g. :9328)")
	flag.Var(&flagNoUI, "no-ui", "disable TUI (log only)")
	flag.Var(&flagLogLevel, "log-level", "log level: debug|info|warn|error")
	flag.BoolVar(&flagVersion, "version", false, "show version")
	flag.BoolVar(&flagVersionShort, "v", false, "show version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Options:")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flagVersion || flagVersionShort {
		fmt.Fprintf(os.Stdout, "pingclock version %s\n", version)
		return
	}

	configPath, pathSet := flagConfig.Value()
	if !pathSet {
		if defaultPath, err := config.DefaultPath(); err == nil {
			configPath = defaultPath
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg = cfg.Apply(buildOverrides(flagTarget, flagGreen, flagYellow, flagListen, flagNoUI, flagLogLevel))

	logger := log.NewLogger(log.ParseLevel(cfg.LogLevel))
	logger.LogConfigLoad(true, configPath, nil)

	pinger := ping.NewFallbackPinger(ping.NewICMPPinger(), ping.NewExternalPinger())
	executor := probe.NewExecutor(pinger)
	mon := monitor.New(executor, cfg.Target, cfg.GreenThreshold(), cfg.YellowThreshold())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = mon.Run(runCtx)
	}()

	if cfg.Listen != "" {
		server := web.New(mon, logger, cfg, configPath)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := web.Serve(runCtx, cfg.Listen, server); err != nil && !errors.Is(err, context.Canceled) {
				logger.LogError("web", err, nil)
				stop()
			}
		}()
	}

	if cfg.UIDisable {
		// Headless: probe immediately and log results until signalled.
		mon.SetLogger(logger)
		mon.StartMonitoring()
		<-runCtx.Done()
	} else {
		if err := ui.New(mon).Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.LogError("ui", err, nil)
		}
		stop()
	}

	wg.Wait()
}

func buildOverrides(
	target cli.OptionalString,
	green cli.OptionalInt,
	yellow cli.OptionalInt,
	listen cli.OptionalString,
	noUI cli.OptionalBool,
	logLevel cli.OptionalString,
) config.CLIOverrides {
	overrides := config.CLIOverrides{}

	if v, ok := target.Value(); ok && v != "" {
		value := v
		overrides.Target = &value
	}
	if v, ok := green.Value(); ok {
		value := v
		overrides.GreenThresholdMs = &value
	}
	if v, ok := yellow.Value(); ok {
		value := v
		overrides.YellowThresholdMs = &value
	}
	if v, ok := listen.Value(); ok {
		value := v
		overrides.Listen = &value
	}
	if v, ok := noUI.Value(); ok {
		value := v
		overrides.UIDisable = &value
	}
	if v, ok := logLevel.Value(); ok && v != "" {
		value := v
		overrides.LogLevel = &value
	}

	return overrides
}
