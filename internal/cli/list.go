package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses matching the filter",
	Long:  "List expenses matching the filter, newest first. Statistical outliers are highlighted.",
	RunE:  runList,
}

func init() {
	addFilterFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	f, err := filterFromFlags()
	if err != nil {
		return err
	}

	report, err := service.Report(cmd.Context(), f)
	if err != nil {
		return err
	}
	if len(report.Expenses) == 0 {
		fmt.Println("No expenses found.")
		return nil
	}

	outliers := make(map[int64]bool, len(report.OutlierIDs))
	for _, id := range report.OutlierIDs {
		outliers[id] = true
	}

	t := table{
		Headers:   []string{"ID", "Date", "Category", "Amount", "Description"},
		Highlight: make(map[int]bool),
	}
	for i, e := range report.Expenses {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.Date.String(),
			e.Category,
			formatAmount(e.Amount),
			e.Description,
		})
		if outliers[e.ID] {
			t.Highlight[i] = true
		}
	}
	fmt.Print(renderTable(t))

	if len(report.OutlierIDs) > 0 {
		fmt.Printf("%d outlier(s) highlighted.\n", len(report.OutlierIDs))
	}
	return nil
}
