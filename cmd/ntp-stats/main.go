package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"ntp-stats/internal/config"
	"ntp-stats/internal/monitor"
	"ntp-stats/internal/runner"
)

func main() {
	program := os.Args[0]

	cfg, err := config.ParseFlags(program, os.Args[1:], monitor.NTPQ.Command)
	if err == nil {
		err = cfg.Validate(monitor.NTPQ.ValidKey)
	}
	if errors.Is(err, config.ErrUsage) {
		fmt.Println(config.Usage(program))
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon := monitor.New(cfg, monitor.NTPQ, runner.New(), os.Stdout)
	if err := mon.Run(ctx); err != nil {
		log.Errorf("Failed to summarize ntpq peers: %v", err)
		stop()
		os.Exit(monitor.ExitCode(err))
	}
}
