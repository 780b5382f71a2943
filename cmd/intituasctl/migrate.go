package main

import (
	"intituas-ai-be/internal/config"
	"intituas-ai-be/internal/model"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users, search_histories and contacts tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(config.Load())
			if err != nil {
				return err
			}
			if err := model.AutoMigrate(db); err != nil {
				return err
			}
			cmd.Println("migration completed")
			return nil
		},
	}
}
