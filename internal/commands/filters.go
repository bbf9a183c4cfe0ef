package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/budgetviz/budgetviz/internal/query"
)

func newFiltersCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "Show the months and categories available for filtering",
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

			out := cmd.OutOrStdout()
			months := append([]string{query.All}, query.Months(all)...)
			categories := append([]string{query.All}, query.Categories(all)...)
			fmt.Fprintf(out, "Months: %s\n", strings.Join(months, ", "))
			fmt.Fprintf(out, "Categories: %s\n", strings.Join(categories, ", "))
			return nil
		},
	}
}
