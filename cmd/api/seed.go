package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tour-booking/internal/auth"
	"github.com/BruksfildServices01/tour-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/tour-booking/internal/db"
)

func newSeedCmd() *cobra.Command {
	var (
		dir   string
		purge bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import users, tours and reviews from JSON files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			a, err := bootstrap(cfg)
			if err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()

			if err := dbpkg.Migrate(a.db); err != nil {
				return err
			}
			if purge {
				if err := dbpkg.Purge(ctx, a.db); err != nil {
					return err
				}
				a.log.Info("data deleted")
			}

			res, err := dbpkg.Seed(ctx, a.db, dir, auth.NewPasswordHasher(cfg.BcryptCost))
			if err != nil {
				return err
			}
			a.log.Info("data loaded",
				zap.Int("users", res.Users),
				zap.Int("tours", res.Tours),
				zap.Int("reviews", res.Reviews),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "dev-data", "directory holding users.json, tours.json and reviews.json")
	cmd.Flags().BoolVar(&purge, "delete", false, "delete existing data before importing")
	return cmd
}
