package main

import (
	"intituas-ai-be/internal/bootstrap"
	"intituas-ai-be/internal/config"
	"intituas-ai-be/internal/constant"
	"intituas-ai-be/internal/service"

	"github.com/spf13/cobra"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <user-id>",
		Short: "List a user's most recent searches, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			store, closeStore, err := bootstrap.NewHistoryStore(cmd.Context(), db, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			entries, err := store.ListRecent(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), root.output, service.ToHistoryResponses(entries))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", constant.HistoryRetention, "number of entries to show")
	return cmd
}
