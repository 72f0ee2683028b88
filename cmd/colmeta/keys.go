package main

import (
	"github.com/koustreak/colmeta/internal/typemeta"
	"github.com/spf13/cobra"
)

type constraintRow struct {
	typemeta.Constraint `yaml:",inline"`
	Columns             typemeta.KeyColumns `json:"columns" yaml:"columns"`
}

func newKeysCommand(a *app) *cobra.Command {
	var (
		all    bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "keys <prefix>",
		Short: "Resolve the primary key for a constraint name prefix",
		Long: `Find the key constraints whose name starts with prefix and print the
columns of the first one. Rows are ordered by relation name and then by
constraint type, so a table's primary key wins over its foreign keys.

With --all every matching constraint is printed instead.`,
		Example: `  colmeta keys tbl_phab
  colmeta keys tbl_ --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.queryContext(cmd.Context())
			defer cancel()

			insp, db, err := a.inspector(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			cs, err := insp.Constraints(ctx, args[0])
			if err != nil {
				return err
			}

			if !all {
				return render(cmd.OutOrStdout(), format, typemeta.SelectKey(cs))
			}
			rows := make([]constraintRow, len(cs))
			for i, c := range cs {
				rows[i] = constraintRow{Constraint: c, Columns: c.Columns()}
			}
			return render(cmd.OutOrStdout(), format, rows)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "print every matching constraint")
	addFormatFlag(cmd, &format)
	return cmd
}
