package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/migrations"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, opts, err := ctx.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			migrator, err := migrations.NewMigrator(db, opts.Dialect)
			if err != nil {
				return err
			}

			applied, err := migrator.Up(cmd.Context())
			if err != nil {
				return err
			}

			version, err := migrator.Version(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s), schema version %d\n", applied, version)
			return nil
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, opts, err := ctx.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			migrator, err := migrations.NewMigrator(db, opts.Dialect)
			if err != nil {
				return err
			}

			statuses, err := migrator.Status(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				rows = append(rows, []string{fmt.Sprint(s.Version), s.Path, state})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Version", "File", "State"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	})

	return migrateCmd
}
