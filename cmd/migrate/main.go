// Command migrate applies the SQL migrations in migrations/ to the
// configured Postgres database.
package main

import (
	"fmt"
	"os"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-notes/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-notes/pkg/config"
)

var (
	migrationsDir string
	steps         int
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the meeting-notes database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			n, err := database.Migrate(db, migrationsDir, migrate.Up, steps)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", n)
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations (one step unless --steps is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		max := steps
		if max == 0 {
			max = 1
		}
		return withDB(func(db *gorm.DB) error {
			n, err := database.Migrate(db, migrationsDir, migrate.Down, max)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", n)
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			rows, err := database.Status(db, migrationsDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range rows {
				applied := "pending"
				if r.AppliedAt != nil {
					applied = r.AppliedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(out, "%-50s %s\n", r.ID, applied)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "dir", database.MigrationsDir, "migrations directory")
	upCmd.Flags().IntVar(&steps, "steps", 0, "maximum number of migrations to apply (0 = all)")
	downCmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to roll back (default 1)")

	rootCmd.AddCommand(upCmd, downCmd, statusCmd)
}

func withDB(fn func(db *gorm.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	return fn(db)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
