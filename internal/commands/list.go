package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/budgetviz/budgetviz/internal/query"
)

func newListCommand(a *app) *cobra.Command {
	var filter query.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored transactions",
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
			txns := query.Apply(all, filter)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATETIME\tACCOUNT\tAMOUNT\tDESCRIPTION\tCATEGORY")
			for _, t := range txns {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					t.FormatDateTime(), t.Account, t.Amount.StringFixed(2), t.Description, t.Category)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d transactions\n", len(txns), len(all))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Month, "month", query.All, "month to show (YYYY-MM)")
	cmd.Flags().StringVar(&filter.Category, "category", query.All, "category to show")

	return cmd
}
