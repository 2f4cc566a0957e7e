package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tally/internal/core"
)

var (
	flagAddAmount      string
	flagAddCategory    string
	flagAddDate        string
	flagAddDescription string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new expense",
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&flagAddAmount, "amount", "a", "", "Expense amount (required)")
	addCmd.Flags().StringVarP(&flagAddCategory, "category", "c", "", "Expense category (required)")
	addCmd.Flags().StringVarP(&flagAddDate, "date", "d", "", "Expense date, YYYY-MM-DD (default today)")
	addCmd.Flags().StringVarP(&flagAddDescription, "description", "m", "", "Free-text description")
	_ = addCmd.MarkFlagRequired("amount")
	_ = addCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	amount, err := core.ParseAmount(flagAddAmount)
	if err != nil {
		return err
	}

	date := core.Date{Time: time.Now().UTC().Truncate(24 * time.Hour)}
	if flagAddDate != "" {
		if date, err = core.ParseDate(flagAddDate); err != nil {
			return err
		}
	}

	created, err := service.CreateExpense(cmd.Context(), core.Expense{
		Amount:      amount,
		Category:    flagAddCategory,
		Date:        date,
		Description: flagAddDescription,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Recorded expense #%d: %s %s (%s)\n",
		created.ID, formatAmount(created.Amount), created.Category, created.Date)
	return nil
}
