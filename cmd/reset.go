package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmind/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the player's saved quizzes and answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.User.ID == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No player profile, nothing to reset.")
			return nil
		}

		if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
			fmt.Sprintf("Delete all quiz history for %s?", displayName(cfg.User.Name, cfg.User.ID))) {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}

		s, err := openStore(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()

		return resetUser(cmd.Context(), cmd.OutOrStdout(), s.SessionRepo(), cfg.User.ID)
	},
}

func resetUser(ctx context.Context, w io.Writer, repo store.SessionRepo, userID string) error {
	n, err := repo.DeleteUserData(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user data: %w", err)
	}
	fmt.Fprintf(w, "Deleted %d quiz(zes).\n", n)
	return nil
}

// confirm asks a yes/no question on w and reads the reply from r.
func confirm(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N] ", question)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func displayName(name, id string) string {
	if name == "" {
		return id
	}
	return name
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
