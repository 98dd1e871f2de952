package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"porthole/internal/history"
)

const timeRounding = 100 * time.Millisecond

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	var targetID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent watch sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return fmt.Errorf("open session history: %w", err)
			}
			defer store.Close()

			ctx := cmd.Context()
			var sessions []*history.Session
			if targetID != "" {
				sessions, err = store.RecentForTarget(ctx, targetID, limit)
			} else {
				sessions, err = store.Recent(ctx, limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No recorded sessions")
				return nil
			}

			rows := make([][]string, 0, len(sessions))
			for _, session := range sessions {
				outcome := string(session.Outcome)
				duration := "-"
				if outcome == "" {
					outcome = "-"
				}
				if session.EndedAt != nil {
					duration = session.EndedAt.Sub(session.StartedAt).Round(timeRounding).String()
				}
				rows = append(rows, []string{
					humanize.Time(session.StartedAt),
					session.TargetID,
					outcome,
					fmt.Sprintf("%d", session.Lines),
					duration,
				})
			}

			columns := []column{
				{title: "STARTED"},
				{title: "TARGET"},
				{title: "OUTCOME"},
				{title: "LINES", alignRight: true},
				{title: "DURATION", alignRight: true},
			}
			fmt.Fprintln(out, renderTable(columns, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetID, "target", "t", "", "Only show sessions for this target")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of sessions to show")
	return cmd
}
