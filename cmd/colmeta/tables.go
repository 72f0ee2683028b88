package main

import "github.com/spf13/cobra"

func newTablesCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the configured schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.queryContext(cmd.Context())
			defer cancel()

			insp, db, err := a.inspector(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			tables, err := insp.ListTables(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), format, tables)
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}
