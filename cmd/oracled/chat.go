package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/soullab/oracle-engine/internal/analyzer"
	"github.com/soullab/oracle-engine/internal/engine"
	"github.com/soullab/oracle-engine/internal/journal"
	"github.com/soullab/oracle-engine/internal/session"
)

// #region chat

func newChatCmd(flags *rootFlags) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "interactive turn loop against a single session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			log, err := flags.logger()
			if err != nil {
				return err
			}
			cat, err := cfg.Catalog()
			if err != nil {
				return err
			}

			opts := []engine.Option{engine.WithLogger(log)}
			if flags.dbPath != "" {
				store, err := session.NewStore(flags.dbPath)
				if err != nil {
					return err
				}
				defer store.Close()
				jrnl, err := journal.New(store.DB())
				if err != nil {
					return err
				}
				opts = append(opts, engine.WithStore(store), engine.WithJournal(jrnl))
			}

			eng, err := engine.New(cfg, cat, opts...)
			if err != nil {
				return err
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			fmt.Printf("Oracle engine ready. Session: %s\n", sessionID)
			fmt.Println("Type a message ('quit' to exit, ':ack' to acknowledge a crisis hold, ':state' to dump session state):")

			runChatLoop(cmd, eng, sessionID)
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id (random when unset)")
	return cmd
}

func runChatLoop(cmd *cobra.Command, eng *engine.Engine, sessionID string) {
	scanner := bufio.NewScanner(os.Stdin)
	var recent []analyzer.Turn

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "quit" || text == "exit" {
			return
		}
		if text == ":ack" {
			acked, err := eng.AcknowledgeCrisis(sessionID)
			if err != nil {
				fmt.Printf("ack failed: %v\n", err)
			} else if acked {
				fmt.Println("crisis acknowledged; session is lightening")
			} else {
				fmt.Println("session is not in crisis hold")
			}
			continue
		}
		if text == ":state" {
			dumpState(eng, sessionID)
			continue
		}

		res, err := eng.ProcessTurn(cmd.Context(), sessionID, text, recent)
		if err != nil {
			fmt.Printf("turn rejected: %v\n", err)
			continue
		}
		recent = append(recent, analyzer.Turn{Role: "user", Text: text, Timestamp: time.Now().UTC()})

		printTurn(res)
	}
}

// #endregion

// #region output

func printTurn(res engine.TurnResult) {
	fmt.Printf("\n  agent     %s (%s)", res.Selection.Primary.ID, res.Selection.Strategy)
	if res.Selection.Fallback {
		fmt.Print(" [fallback]")
	}
	fmt.Println()
	fmt.Printf("  posture   %s", res.Posture)
	if res.Transitioned {
		fmt.Print(" (changed)")
	}
	fmt.Println()
	fmt.Printf("  signal    %s / %s / %s energy (confidence %.2f)\n",
		res.Signal.Sentiment, res.Signal.Theme, res.Signal.Energy, res.Signal.OverallConfidence)
	fmt.Printf("  voice     mirror %s speed=%.2f warmth=%.2f, balance %s speed=%.2f warmth=%.2f\n",
		res.Prosody.Mirror.Element, res.Prosody.Mirror.SpeedMultiplier, res.Prosody.Mirror.Warmth,
		res.Prosody.Balance.Element, res.Prosody.Balance.SpeedMultiplier, res.Prosody.Balance.Warmth)
	fmt.Printf("  directive %s\n\n", res.StyleDirective)
}

func dumpState(eng *engine.Engine, sessionID string) {
	st := eng.SessionSnapshot(sessionID)
	if st == nil {
		fmt.Println("no turns processed yet")
		return
	}
	fmt.Printf("  turns=%d posture=%s (for %d turns) disclosures=%d theme=%s x%d\n",
		st.SessionTurns, st.CurrentPosture, st.TurnsInPosture,
		st.Disclosures, st.LastTheme, st.ThemeRepeats)
	fmt.Printf("  balance fire=%.2f water=%.2f earth=%.2f air=%.2f aether=%.2f\n",
		st.Balance.Fire, st.Balance.Water, st.Balance.Earth, st.Balance.Air, st.Balance.Aether)
}

// #endregion
