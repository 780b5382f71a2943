package main

import (
	"encoding/json"
	"fmt"
	"io"

	"intituas-ai-be/internal/config"
	"intituas-ai-be/pkg/database"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type rootOptions struct {
	output string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "intituasctl",
		Short:         "Operate the Intituas AI backend from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case "json", "yaml":
				return nil
			default:
				return fmt.Errorf("unsupported output format %q (json or yaml)", opts.output)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")

	cmd.AddCommand(
		newAskCmd(opts),
		newHistoryCmd(opts),
		newMigrateCmd(),
		newEventsCmd(opts),
	)
	return cmd
}

func render(w io.Writer, format string, v interface{}) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toPlain(v)); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// toPlain round-trips through JSON so yaml output uses the same field
// names as the HTTP API.
func toPlain(v interface{}) interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var plain interface{}
	if err := json.Unmarshal(raw, &plain); err != nil {
		return v
	}
	return plain
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Database.Connection == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING is not set")
	}
	return database.Open(cfg.Database.Driver, cfg.Database.Connection)
}
