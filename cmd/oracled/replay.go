package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soullab/oracle-engine/internal/replay"
)

// #region replay

func newReplayCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <fixture.json>",
		Short: "run a scripted session fixture and check its expectations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			fixture, err := replay.LoadFixture(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("replaying: %s (%d turns)\n", fixture.Description, len(fixture.Turns))
			outcomes, err := replay.Run(fixture, cfg)
			if err != nil {
				return err
			}

			for _, o := range outcomes {
				status := "ok"
				if len(o.Mismatches) > 0 {
					status = "FAIL"
				}
				fmt.Printf("  [%s] turn %d %q -> agent=%s posture=%s\n",
					status, o.Index, o.Text, o.Result.Selection.Primary.ID, o.Result.Posture)
				for _, m := range o.Mismatches {
					fmt.Printf("         %s\n", m)
				}
			}

			summary := replay.Summarize(outcomes)
			fmt.Printf("%d/%d turns passed\n", summary.Passed, summary.TotalTurns)
			if !summary.AllPassed() {
				return fmt.Errorf("%d turn(s) failed expectations", summary.Failed)
			}
			return nil
		},
	}
}

// #endregion
