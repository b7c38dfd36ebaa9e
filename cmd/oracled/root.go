// Command oracled drives the conversation orchestration engine: an
// interactive chat loop, a fixture replay runner, and a journal
// inspector.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soullab/oracle-engine/internal/config"
)

// #region root

type rootFlags struct {
	configPath string
	dbPath     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "oracled",
		Short:         "conversation orchestration engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML config file (defaults apply when unset)")
	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "SQLite path for snapshots and the journal (in-memory only when unset)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newChatCmd(flags))
	cmd.AddCommand(newReplayCmd(flags))
	cmd.AddCommand(newInspectCmd(flags))
	return cmd
}

// #endregion

// #region helpers

func (f *rootFlags) loadConfig() (config.Config, error) {
	if f.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(f.configPath)
}

func (f *rootFlags) logger() (*zap.Logger, error) {
	if !f.verbose {
		return zap.NewNop(), nil
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log, nil
}

// #endregion
