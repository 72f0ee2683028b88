package main

import (
	"github.com/koustreak/colmeta/internal/typemeta"
	"github.com/spf13/cobra"
)

func newColumnsCommand(a *app) *cobra.Command {
	var (
		systemFields []string
		format       string
	)

	cmd := &cobra.Command{
		Use:   "columns <table>",
		Short: "Print normalized metadata for a table's columns",
		Long: `Print one entry per column of the table, in catalog order, with its
original type text, semantic type, human-readable label and precision.

System fields are left out. The list comes from catalog.system_fields in the
config unless --system-field is given.`,
		Example: `  colmeta columns tbl_phab
  colmeta columns tbl_phab --system-field globalid --system-field warnings
  colmeta columns tbl_phab --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.queryContext(cmd.Context())
			defer cancel()

			insp, db, err := a.inspector(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			fields := a.cfg.SystemFieldSet()
			if cmd.Flags().Changed("system-field") {
				fields = typemeta.NewFieldSet(systemFields...)
			}

			cols, err := insp.FetchMetadata(ctx, args[0], fields)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), format, cols)
		},
	}

	cmd.Flags().StringArrayVar(&systemFields, "system-field", nil, "column to leave out (repeatable; replaces the configured list)")
	addFormatFlag(cmd, &format)
	return cmd
}
