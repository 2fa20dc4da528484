package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"inncoin/cmd"
	"inncoin/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile    string
		envFile       string
		logLevel      string
		printCommands bool
	)

	flagSet := pflag.NewFlagSet("inncoin", pflag.ContinueOnError)
	flagSet.StringVar(&configFile, "config", "", "YAML file overlaying the environment (default: $CONFIG_FILE)")
	flagSet.StringVar(&envFile, "env-file", "", "file preloaded into the environment (default: .env if present)")
	flagSet.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default: $LOG_LEVEL)")
	flagSet.BoolVar(&printCommands, "print-commands", false, "print the slash command schema as JSON and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	if printCommands {
		// The schema does not depend on credentials.
		os.Setenv("ENVIRONMENT", "test")
	}

	cfg, err := config.Init(config.LoadOptions{
		EnvFile:    envFile,
		ConfigFile: configFile,
	})
	if err != nil {
		return err
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cmd.ConfigureLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	if printCommands {
		return cmd.PrintCommands(os.Stdout, cfg)
	}

	// Normal bot operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	return cmd.Run(ctx, cfg)
}
