package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"dish-resolver/internal/core/dialogue"
	"dish-resolver/internal/core/render"
	"dish-resolver/internal/core/session"

	"github.com/spf13/cobra"
)

func askCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Resolve a dish query, or start a conversation when no query is given",
		Long: `Resolve a dish query against the catalog.

Without arguments, ask reads one message per line from stdin so follow-ups
such as "2", "show more" or part of a dish name continue the conversation.

Examples:
  dishctl ask "paneer tikka"
  dishctl ask --catalog data/recipes.db`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			sessions, closeSessions, err := session.NewStore(cmd.Context(), cfg.Session, session.SystemClock)
			if err != nil {
				return err
			}
			defer func() { _ = closeSessions() }()

			engine := dialogue.NewEngine(loadCatalog(cfg), sessions)
			out := cmd.OutOrStdout()

			if len(args) > 0 {
				res := engine.Handle(cmd.Context(), userID, strings.Join(args, " "))
				_, err := fmt.Fprintln(out, render.Turn(res))
				return err
			}
			return converse(cmd, engine, userID, cmd.InOrStdin(), out)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "cli", "user id that scopes the conversation")
	return cmd
}

// converse 逐行讀取輸入直到 EOF 或 "exit"
func converse(cmd *cobra.Command, engine *dialogue.Engine, userID string, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}
		if line != "" {
			res := engine.Handle(cmd.Context(), userID, line)
			fmt.Fprintln(out, render.Turn(res))
			fmt.Fprintln(out)
		}
		if err := cmd.Context().Err(); err != nil {
			return nil
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}
