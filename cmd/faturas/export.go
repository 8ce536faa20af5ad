package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/domain/entity"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/export"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/infrastructure/cache"
	"github.com/Froztyzin/Projeto-Ellite-App-sub001/internal/view"
)

func exportCmd(a *app) *cobra.Command {
	var (
		q      view.Query
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered and sorted invoice list",
		Long: `Export every invoice matching the filters, ignoring pagination.

Examples:
  faturas export --status OVERDUE --search ana
  faturas export --from 2024-03-01 --to 2024-03-31 --sort member.name --format xlsx
  faturas export --out - > faturas.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			filters, sort, _, err := q.Parse()
			if err != nil {
				return err
			}

			c, err := a.startContainer(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.Close()

			invoices, err := cache.Invoices(cmd.Context(), c.Cache())
			if err != nil {
				return err
			}
			sorted := view.FilterAndSort(invoices, filters, sort)

			if out == "" {
				out = f.FileName()
			}
			if out == "-" {
				err = export.Write(cmd.OutOrStdout(), f, sorted)
			} else {
				err = writeExportFile(out, f, sorted)
			}
			if err != nil {
				return err
			}
			a.logger.Info("Invoices exported",
				zap.String("format", string(f)),
				zap.String("out", out),
				zap.Int("rows", len(sorted)))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&q.Status, "status", "", "status filter (OPEN, PAID, OVERDUE, PARTIALLY_PAID, CANCELLED)")
	flags.StringVarP(&q.Search, "search", "s", "", "member name substring")
	flags.StringVar(&q.From, "from", "", "first due date, YYYY-MM-DD")
	flags.StringVar(&q.To, "to", "", "last due date, YYYY-MM-DD")
	flags.StringVar(&q.Sort, "sort", "", "sort key path, e.g. member.name")
	flags.StringVar(&q.Dir, "dir", "", "sort direction: asc or desc")
	flags.StringVarP(&format, "format", "f", "csv", "csv or xlsx")
	flags.StringVarP(&out, "out", "o", "", "output file, - for stdout (default faturas.<format>)")

	return cmd
}

// writeExportFile writes the export to path, reporting close errors too
func writeExportFile(path string, f export.Format, sorted []entity.Invoice) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.Write(file, f, sorted); err != nil {
		return errors.Join(err, file.Close())
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
