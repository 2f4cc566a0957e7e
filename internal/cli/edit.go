package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tally/internal/core"
)

var (
	flagEditAmount      string
	flagEditCategory    string
	flagEditDate        string
	flagEditDescription string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update an existing expense",
	Long:  "Update an existing expense. Only the given flags change; the rest of the record is kept.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	editCmd.Flags().StringVarP(&flagEditAmount, "amount", "a", "", "New amount")
	editCmd.Flags().StringVarP(&flagEditCategory, "category", "c", "", "New category")
	editCmd.Flags().StringVarP(&flagEditDate, "date", "d", "", "New date, YYYY-MM-DD")
	editCmd.Flags().StringVarP(&flagEditDescription, "description", "m", "", "New description")
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expense id %q", args[0])
	}

	e, err := service.GetExpense(cmd.Context(), id)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("amount") {
		if e.Amount, err = core.ParseAmount(flagEditAmount); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("category") {
		e.Category = flagEditCategory
	}
	if cmd.Flags().Changed("date") {
		if e.Date, err = core.ParseDate(flagEditDate); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("description") {
		e.Description = flagEditDescription
	}

	if err := service.UpdateExpense(cmd.Context(), e); err != nil {
		return err
	}
	fmt.Printf("Updated expense #%d\n", e.ID)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expense id %q", args[0])
	}
	if err := service.DeleteExpense(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Deleted expense #%d\n", id)
	return nil
}
