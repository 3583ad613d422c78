// Package main is the entry point for the gridstorm editor.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/gridstorm/internal/app"
	"github.com/dshills/gridstorm/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts app.Options
	root := &cobra.Command{
		Use:   "gridstorm [PROJECT]",
		Short: "Infinite ASCII canvas with live zones",
		Long: "gridstorm edits an unbounded character canvas with vim-style modes and\n" +
			"embeds live zones: command output, watched commands, shells, FIFOs and sockets.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.ProjectPath = args[0]
			}
			return runEditor(opts)
		},
	}

	f := root.Flags()
	f.StringVarP(&opts.ConfigPath, "config", "c", "", "configuration file")
	f.StringVarP(&opts.LayoutPath, "layout", "l", "", "layout template to apply on startup")
	f.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&opts.LogFile, "log-file", "", "write the log to this file")
	f.StringVar(&opts.ControlAddr, "control", "", "enable the control server on this address")
	f.BoolVar(&opts.Joystick, "joystick", false, "read a joystick for movement")

	root.AddCommand(newSendCmd())
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func runEditor(opts app.Options) error {
	application, err := app.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer application.Close()

	term, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	if err := application.SetBackend(term); err != nil {
		return fmt.Errorf("failed to set backend: %w", err)
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-signals
		application.Shutdown()
	}()

	return application.Run()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "gridstorm %s\nCommit: %s\nBuilt: %s\n", version, commit, date)
			return err
		},
	}
}
