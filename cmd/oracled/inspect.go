package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soullab/oracle-engine/internal/journal"
	"github.com/soullab/oracle-engine/internal/session"
)

// #region inspect

func newInspectCmd(flags *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "show recent posture transitions and session snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.dbPath == "" {
				return fmt.Errorf("inspect requires --db")
			}
			store, err := session.NewStore(flags.dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			jrnl, err := journal.New(store.DB())
			if err != nil {
				return err
			}

			transitions, err := jrnl.RecentTransitions(limit)
			if err != nil {
				return err
			}
			fmt.Printf("recent transitions (%d):\n", len(transitions))
			for _, t := range transitions {
				fmt.Printf("  %s turn %-3d %s -> %s (%s)\n",
					t.SessionID, t.Turn, t.FromPosture, t.ToPosture, t.Trigger)
				if t.SignalsJSON != "" {
					fmt.Printf("      %s\n", t.SignalsJSON)
				}
			}

			snapshots, err := store.ListSnapshots(limit)
			if err != nil {
				return err
			}
			fmt.Printf("recent snapshots (%d):\n", len(snapshots))
			for _, s := range snapshots {
				fmt.Printf("  %s turn %-3d %-11s fire=%.2f water=%.2f earth=%.2f air=%.2f aether=%.2f\n",
					s.SessionID, s.Turn, s.Posture,
					s.Balance.Fire, s.Balance.Water, s.Balance.Earth, s.Balance.Air, s.Balance.Aether)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max rows per listing")
	return cmd
}

// #endregion
