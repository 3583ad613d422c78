package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/gridstorm/internal/layout"
)

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Work with layout templates",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check FILE",
		Short: "Validate a layout template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layout.Load(args[0])
			if err != nil {
				return err
			}
			name := l.Name
			if name == "" {
				name = args[0]
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d zones, %d bookmarks\n", name, len(l.Zones), len(l.Bookmarks))
			return err
		},
	})
	return cmd
}
