package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/budgetviz/budgetviz/internal/query"
)

func newSummaryCommand(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := a.openService(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			all, err := svc.GetAllTransactions()
			if err != nil {
				return err
			}
			totals := query.Summarize(query.Apply(all, query.Filter{Month: month}))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "CATEGORY\tCOUNT\tTOTAL\t")
			grand := decimal.Zero
			for _, ct := range totals {
				fmt.Fprintf(tw, "%s\t%d\t%s\t\n", ct.Category, ct.Count, ct.Total.StringFixed(2))
				grand = grand.Add(ct.Total)
			}
			fmt.Fprintf(tw, "TOTAL\t\t%s\t\n", grand.StringFixed(2))
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&month, "month", query.All, "month to summarize (YYYY-MM)")

	return cmd
}
