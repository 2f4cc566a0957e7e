package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tally/internal/core"
)

var (
	flagGranularity string
	flagByCategory  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics for the filtered collection",
	RunE:  runStats,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show totals per calendar period or per category",
	RunE:  runReport,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the distinct categories in use",
	RunE:  runCategories,
}

func init() {
	addFilterFlags(statsCmd)
	addFilterFlags(reportCmd)
	reportCmd.Flags().StringVarP(&flagGranularity, "granularity", "g", "month", "Period granularity: week, month, quarter or year")
	reportCmd.Flags().BoolVar(&flagByCategory, "by-category", false, "Group totals by category instead of period")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	f, err := filterFromFlags()
	if err != nil {
		return err
	}

	report, err := service.Report(cmd.Context(), f)
	if err != nil {
		return err
	}
	if report.Summary == nil {
		fmt.Println("No expenses found.")
		return nil
	}

	s := report.Summary
	t := table{
		Title:   "Statistics",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Count", strconv.Itoa(s.Count)},
			{"Total", formatAmount(s.Total)},
			{"Mean", formatAmount(s.Mean)},
			{"Median", formatAmount(s.Median)},
			{"Min", formatAmount(s.Min)},
			{"Max", formatAmount(s.Max)},
			{"Std deviation", formatAmount(s.StdDev)},
			{"Variance", formatAmount(s.Variance)},
			{"Top category", s.TopCategory},
		},
	}
	fmt.Print(renderTable(t))

	if len(report.OutlierIDs) > 0 {
		fmt.Printf("Outlier ids: %v\n", report.OutlierIDs)
	}
	return nil
}

func runReport(cmd *cobra.Command, _ []string) error {
	f, err := filterFromFlags()
	if err != nil {
		return err
	}

	if flagByCategory {
		totals, err := service.CategoryReport(cmd.Context(), f)
		if err != nil {
			return err
		}
		if len(totals) == 0 {
			fmt.Println("No expenses found.")
			return nil
		}
		t := table{Headers: []string{"Category", "Total"}}
		for _, ct := range totals {
			t.Rows = append(t.Rows, []string{ct.Category, formatAmount(ct.Total)})
		}
		fmt.Print(renderTable(t))
		return nil
	}

	g, err := core.ParseGranularity(flagGranularity)
	if err != nil {
		return err
	}

	totals, err := service.PeriodReport(cmd.Context(), f, g)
	if err != nil {
		return err
	}
	if len(totals) == 0 {
		fmt.Println("No expenses found.")
		return nil
	}

	t := table{Headers: []string{"Period", "Total"}}
	for _, pt := range totals {
		t.Rows = append(t.Rows, []string{pt.Period, formatAmount(pt.Total)})
	}
	fmt.Print(renderTable(t))
	return nil
}

func runCategories(cmd *cobra.Command, _ []string) error {
	cats, err := service.Categories(cmd.Context())
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		fmt.Println("No categories yet.")
		return nil
	}
	for _, c := range cats {
		fmt.Println(c)
	}
	return nil
}
