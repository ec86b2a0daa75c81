package main

import (
	"github.com/spf13/cobra"

	"partner-catalog-service/internal/store"
)

// catalog migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}
		db, err := openDB(cmd.Context(), cfg.Postgres)
		if err != nil {
			return err
		}
		dbStore := store.NewPostgresStore(db)
		defer dbStore.Close()

		log.Info("applying schema", "database", cfg.Postgres.DBName)
		if err := dbStore.Migrate(cmd.Context()); err != nil {
			return err
		}
		log.Info("schema is up to date")
		return nil
	},
}
