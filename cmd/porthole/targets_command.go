package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"porthole/internal/target"
)

func newTargetsCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List worker log files present in the log directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			targets, err := target.List(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(targets) == 0 {
				fmt.Fprintf(out, "No log files matching %q in %s\n", cfg.Watch.FilePattern, cfg.Paths.LogDir)
				return nil
			}

			rows := make([][]string, 0, len(targets))
			for _, tgt := range targets {
				size := "-"
				modified := "-"
				if info, err := os.Stat(tgt.Path); err == nil {
					size = humanize.Bytes(uint64(info.Size()))
					modified = humanize.Time(info.ModTime())
				}
				rows = append(rows, []string{tgt.ID, tgt.Path, size, modified})
			}

			columns := []column{
				{title: "TARGET"},
				{title: "PATH"},
				{title: "SIZE", alignRight: true},
				{title: "MODIFIED"},
			}
			fmt.Fprintln(out, renderTable(columns, rows))
			return nil
		},
	}
}
