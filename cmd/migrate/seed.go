package main

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/adapter/repository"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/usecase/auth"
	"github.com/johnquangdev/meeting-notes/pkg/config"
	pkgjwt "github.com/johnquangdev/meeting-notes/pkg/jwt"
)

const seedDomain = "@test.local"

var (
	seedPassword string
	seedReset    bool
)

type seedProfile struct {
	Email    string
	FullName string
	Username string
}

var seedProfiles = []seedProfile{
	{Email: "sato" + seedDomain, FullName: "佐藤 花子", Username: "sato"},
	{Email: "suzuki" + seedDomain, FullName: "鈴木 一郎", Username: "ichi"},
	{Email: "alice" + seedDomain, FullName: "Alice Smith", Username: "alice"},
	{Email: "bob" + seedDomain, FullName: "Bob Jones", Username: "bob"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create test profiles and print their access tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.IsProduction() {
			return fmt.Errorf("refusing to seed test profiles in production")
		}
		return withDB(func(db *gorm.DB) error {
			return seed(cmd.Context(), cmd.OutOrStdout(), db, cfg)
		})
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", "password123", "password for every test profile")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "delete existing "+seedDomain+" profiles first")
	rootCmd.AddCommand(seedCmd)
}

func seed(ctx context.Context, out io.Writer, db *gorm.DB, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if seedReset {
		if err := db.WithContext(ctx).
			Where("email LIKE ?", "%"+seedDomain).
			Delete(&entities.Profile{}).Error; err != nil {
			return fmt.Errorf("failed to delete test profiles: %w", err)
		}
	}

	jwtManager := pkgjwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	svc := auth.NewService(
		repository.NewProfileRepository(db),
		repository.NewSessionRepository(db),
		jwtManager,
		nil,
		nil,
		zap.NewNop(),
	)
	device := auth.DeviceInfo{IP: "127.0.0.1", UserAgent: "migrate seed"}

	for _, p := range seedProfiles {
		result, err := svc.Signup(ctx, auth.SignupInput{
			Email:    p.Email,
			Password: seedPassword,
			FullName: p.FullName,
			Username: p.Username,
		}, device)

		var appErr errors.AppError
		if stdErrors.As(err, &appErr) && appErr.Code == errors.ErrorCode_AUTH_USER_ALREADY_EXISTS {
			result, err = svc.Login(ctx, p.Email, seedPassword, device)
		}
		if err != nil {
			fmt.Fprintf(out, "%-24s failed: %v\n", p.Email, err)
			continue
		}

		fmt.Fprintf(out, "%-24s %s\n", p.Email, result.Profile.ID)
		fmt.Fprintf(out, "  access token: %s\n", result.AccessToken)
	}

	fmt.Fprintf(out, "\nAccess tokens expire after %v. Send them as \"Authorization: Bearer <token>\".\n", cfg.JWT.AccessExpiry)
	return nil
}
