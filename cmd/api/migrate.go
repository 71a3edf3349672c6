package main

import (
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/tour-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/tour-booking/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := bootstrap(config.Load())
			if err != nil {
				return err
			}
			defer a.close()

			if err := dbpkg.Migrate(a.db); err != nil {
				return err
			}
			a.log.Info("migration complete")
			return nil
		},
	}
}
