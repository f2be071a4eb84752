package cmd

import (
	"fmt"
	"time"

	"workfloor/pkg/api"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var createOrderCmd = &cobra.Command{
	Use:   "create-order",
	Short: "Create a new job order",
	Long: `Create a new job order on the ledger. Requires a planner or admin role.

Example:
  floorctl create-order --number "JO-2026-0042" --product "Valve housing" --quantity 50 --due 2026-09-30
  floorctl create-order --number "JO-2026-0043" --product "Pump rotor" --quantity 200 --due 2026-10-15 --priority high --hours 120`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		number, _ := flags.GetString("number")
		product, _ := flags.GetString("product")
		quantity, _ := flags.GetInt("quantity")
		due, _ := flags.GetString("due")
		priority, _ := flags.GetString("priority")
		hours, _ := flags.GetFloat64("hours")

		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		if number == "" {
			cmd.Println("Error: --number is required")
			return
		}
		if product == "" {
			cmd.Println("Error: --product is required")
			return
		}
		if quantity < 1 {
			cmd.Println("Error: --quantity must be at least 1")
			return
		}

		dueDate, err := parseDate(due)
		if err != nil {
			cmd.Printf("Error: invalid --due date: %v\n", err)
			return
		}

		result, err := client.CreateJobOrder(api.CreateJobOrderRequest{
			Number:         number,
			ProductName:    product,
			TotalQuantity:  quantity,
			Priority:       priority,
			DueDate:        dueDate,
			EstimatedHours: hours,
		})
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Printf("✓ Job order created!\nID: %s\nNumber: %s\nDue: %s\n", result.ID, result.Number, result.DueDate.Format("2006-01-02"))
	},
}

var orderCmd = &cobra.Command{
	Use:   "order [order_id]",
	Short: "Show a job order and its progress",
	Long:  `Retrieve a job order with its completion ledger: completed versus total quantity, progress percentage, status, and delay indication.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		order, err := client.GetJobOrder(args[0])
		if err != nil {
			printClientError(cmd, err)
			return
		}

		printOrder(cmd, order)
	},
}

func printOrder(cmd *cobra.Command, order *api.JobOrderResponse) {
	cmd.Printf("%sJob Order %s%s\n", colorBold, order.Number, colorReset)
	cmd.Println("──────────────────────────────")
	cmd.Printf("%sID:%s         %s\n", colorDim, colorReset, order.ID)
	cmd.Printf("%sProduct:%s    %s\n", colorDim, colorReset, order.ProductName)
	cmd.Printf("%sStatus:%s     %s\n", colorDim, colorReset, colorizeOrderStatus(order.Status, order.IsDelayed))
	cmd.Printf("%sPriority:%s   %s\n", colorDim, colorReset, order.Priority)
	cmd.Printf("%sProgress:%s   %d / %d (%.2f%%)\n", colorDim, colorReset, order.CompletedQuantity, order.TotalQuantity, order.ProgressPercentage)
	cmd.Printf("%sHours:%s      %.1f actual / %.1f estimated\n", colorDim, colorReset, order.ActualHours, order.EstimatedHours)
	cmd.Printf("%sDue:%s        %s\n", colorDim, colorReset, order.DueDate.Format("2006-01-02"))
	if order.IsDelayed {
		cmd.Printf("%s⚠ DELAYED%s\n", colorRed, colorReset)
	}
}

func colorizeOrderStatus(status string, delayed bool) string {
	switch status {
	case "completed":
		return colorGreen + status + colorReset
	case "in_progress":
		if delayed {
			return colorRed + status + colorReset
		}
		return colorYellow + status + colorReset
	case "cancelled":
		return colorDim + status + colorReset
	default:
		return status
	}
}

// parseDate accepts both a plain date and full RFC 3339.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("required")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// clientFromConfig builds a client from viper settings, printing an error
// when the identity is missing.
func clientFromConfig(cmd *cobra.Command) (*Client, bool) {
	url := viper.GetString("url")
	actor := viper.GetString("actor")
	role := viper.GetString("role")

	if actor == "" || role == "" {
		cmd.Println("Actor identity not found. Please set it using the --actor/--role flags or the WORKFLOOR_ACTOR and WORKFLOOR_ROLE environment variables")
		return nil, false
	}

	return NewClient(url, actor, role), true
}

func printClientError(cmd *cobra.Command, err error) {
	if apiErr, ok := err.(*APIError); ok {
		cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
	} else {
		cmd.Printf("Error: %v\n", err)
	}
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func init() {
	flags := createOrderCmd.Flags()
	flags.StringP("number", "n", "", "Job order number (required)")
	flags.StringP("product", "p", "", "Product name (required)")
	flags.IntP("quantity", "q", 0, "Total quantity to produce (required)")
	flags.String("due", "", "Due date, YYYY-MM-DD (required)")
	flags.String("priority", "", "Priority: low, medium, high, urgent (default medium)")
	flags.Float64("hours", 0, "Estimated hours (optional)")

	rootCmd.AddCommand(createOrderCmd)
	rootCmd.AddCommand(orderCmd)
}
