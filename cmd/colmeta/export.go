package main

import (
	"fmt"

	"github.com/koustreak/colmeta/internal/export"
	"github.com/koustreak/colmeta/internal/filestore/minio"
	"github.com/spf13/cobra"
)

func newExportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <table>...",
		Short: "Write table metadata documents to object storage",
		Long: `Inspect each table and upload its metadata document, primary key and
columns, to <table>/metadata.<format> in the configured export bucket.
Existing documents are replaced.`,
		Example: `  colmeta export tbl_phab tbl_chemistry
  COLMETA_EXPORT_FORMAT=yaml colmeta export tbl_phab`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(a.cfg.Export.Format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := minio.New(ctx, &a.cfg.Export.Config)
			if err != nil {
				return err
			}
			defer store.Close()

			exp := export.New(store, a.cfg.Export.Bucket, format, a.log)
			if err := exp.EnsureBucket(ctx); err != nil {
				return err
			}

			qctx, cancel := a.queryContext(ctx)
			defer cancel()

			insp, db, err := a.inspector(qctx)
			if err != nil {
				return err
			}
			defer db.Close()

			fields := a.cfg.SystemFieldSet()
			for _, table := range args {
				md, err := insp.InspectTable(qctx, table, fields)
				if err != nil {
					return err
				}
				info, err := exp.Export(ctx, md)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s (%d bytes)\n", info.Bucket, info.Key, info.Size)
			}
			return nil
		},
	}
	return cmd
}
