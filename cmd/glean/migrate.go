package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/glean/internal/database"
	"github.com/at-ishikawa/glean/schemas"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			applied, err := database.Migrate(cmd.Context(), env.db, schemas.Migrations)
			if err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
			if len(applied) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date.")
				return nil
			}
			for _, version := range applied {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", version)
			}
			return nil
		},
	}
}
