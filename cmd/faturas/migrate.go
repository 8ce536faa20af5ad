package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/pkg/database"
)

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.New(database.Config{
				Path:            a.cfg.Database.Path,
				MaxOpenConns:    a.cfg.Database.MaxOpenConns,
				MaxIdleConns:    a.cfg.Database.MaxIdleConns,
				ConnMaxLifetime: a.cfg.Database.ConnMaxLifetime,
			}, a.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.NewMigrator(db, a.logger).RunMigrations(database.Schema, database.SchemaDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migrations applied\n", applied)
			return nil
		},
	}
}
