package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/control"
)

func newSendCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "send [--addr ADDR] COMMAND...",
		Short: "Run a command in a running editor",
		Long: "send delivers one command line to a gridstorm started with --control\n" +
			"and prints the resulting status message.",
		Example: "  gridstorm send zone pipe build 60 10 make\n" +
			"  gridstorm send --addr 127.0.0.1:9000 goto 0 0",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return send(ctx, cmd, addr, strings.Join(args, " "), timeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.Default().Control.Addr, "control server address")
	cmd.Flags().DurationVar(&timeout, "timeout", control.DefaultClientTimeout, "time to wait for a reply")
	return cmd
}

func send(ctx context.Context, cmd *cobra.Command, addr, line string, timeout time.Duration) error {
	c, err := control.Dial(ctx, addr)
	if err != nil {
		return err
	}
	defer c.Close()
	c.SetTimeout(timeout)

	res, err := c.Do(line)
	if err != nil {
		return err
	}
	if !res.OK {
		return errors.New(res.Message)
	}
	if res.Message != "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	}
	return nil
}
