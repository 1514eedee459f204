package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/moviops/conductor/internal/agent"
	"github.com/moviops/conductor/internal/db"
)

func newChatCmd() *cobra.Command {
	var (
		configPath string
		page       string
		sessionID  string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to Conductor from the terminal",
		Long: `Starts a local conversation loop against the configured database.
With the default mock classifier this works fully offline. Type "exit" to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, configPath, page, sessionID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Conductor config file")
	cmd.Flags().StringVar(&page, "page", agent.PageBusDashboard, "dashboard page to act as (busDashboard or manageRoute)")
	cmd.Flags().StringVar(&sessionID, "session", "", "resume an existing session ID")
	return cmd
}

func runChat(cmd *cobra.Command, configPath, page, sessionID string) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	machine, _, err := buildMachine(ctx, cfg, gormDB)
	if err != nil {
		return err
	}

	// Prompts only make sense on a real terminal; piped input stays clean.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Fprintf(out, "Conductor chat (%s classifier, page %s). Type \"exit\" to quit.\n", cfg.LLM.Provider, page)
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		turn, err := machine.HandleTurn(ctx, agent.TurnInput{
			SessionID:   sessionID,
			Text:        line,
			CurrentPage: page,
		})
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		sessionID = turn.SessionID
		fmt.Fprintln(out, turn.ResponseText)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
