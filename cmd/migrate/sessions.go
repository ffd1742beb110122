package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-notes/internal/adapter/repository"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
)

var pruneOlderThan time.Duration

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Maintain refresh sessions",
}

var sessionsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete sessions that expired or were revoked before --older-than",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			before := time.Now().Add(-pruneOlderThan)
			if err := pruneSessions(cmd.Context(), repository.NewSessionRepository(db), before); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned sessions expired or revoked before %s\n", before.Format(time.RFC3339))
			return nil
		})
	},
}

func init() {
	sessionsPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 30*24*time.Hour, "keep sessions that ended more recently than this")
	sessionsCmd.AddCommand(sessionsPruneCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func pruneSessions(ctx context.Context, repo repositories.SessionRepository, before time.Time) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := repo.CleanupOldSessions(ctx, before); err != nil {
		return fmt.Errorf("failed to prune sessions: %w", err)
	}
	return nil
}
