package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizmind/internal/screens/history"
	"github.com/abhisek/quizmind/internal/store"
)

// answerLoaders bounds concurrent answer queries.
const answerLoaders = 4

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past quizzes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		withAnswers, _ := cmd.Flags().GetBool("answers")

		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.User.ID == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No player profile yet. Play a quiz or pass --user.")
			return nil
		}

		s, err := openStore(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()

		return printHistory(cmd.Context(), cmd.OutOrStdout(), s.SessionRepo(), cfg.User.ID, limit, withAnswers)
	},
}

func printHistory(ctx context.Context, w io.Writer, repo store.SessionRepo, userID string, limit int, withAnswers bool) error {
	rows, err := repo.ListSessions(ctx, userID, limit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "No quizzes yet.")
		return nil
	}

	answers := make([][]store.AnswerRow, len(rows))
	if withAnswers {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(answerLoaders)
		for i, row := range rows {
			g.Go(func() error {
				a, err := repo.SessionAnswers(gctx, row.ID)
				if err != nil {
					return fmt.Errorf("load answers for %s: %w", row.ID, err)
				}
				answers[i] = a
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	for i, row := range rows {
		fmt.Fprintln(w, history.FormatRow(row))
		if !withAnswers {
			continue
		}
		for n, a := range answers[i] {
			mark := "✓"
			if !a.IsCorrect {
				mark = "✗"
			}
			fmt.Fprintf(w, "    %s %d. %s\n", mark, n+1, a.Question)
			if !a.IsCorrect {
				fmt.Fprintf(w, "         you: %s  answer: %s\n", a.Selected, a.Correct)
			}
		}
		if i < len(rows)-1 {
			fmt.Fprintln(w, strings.Repeat("─", 40))
		}
	}
	return nil
}

func init() {
	historyCmd.Flags().IntP("limit", "n", history.Limit, "Number of quizzes to show")
	historyCmd.Flags().Bool("answers", false, "Print each quiz's answers")
}
