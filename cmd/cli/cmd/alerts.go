package cmd

import (
	"workfloor/pkg/api"

	"github.com/spf13/cobra"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List alerts",
	Long: `List alerts raised by the system: delayed orders, approaching
deadlines, low technician performance, and quality issues.

Example:
  floorctl alerts --unresolved`,
	Run: func(cmd *cobra.Command, args []string) {
		unresolved, _ := cmd.Flags().GetBool("unresolved")

		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		alerts, err := client.ListAlerts(unresolved)
		if err != nil {
			printClientError(cmd, err)
			return
		}

		if len(alerts) == 0 {
			cmd.Println("No alerts.")
			return
		}

		for i := range alerts {
			printAlert(cmd, &alerts[i])
		}
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [alert_id]",
	Short: "Resolve an alert",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		if err := client.ResolveAlert(args[0]); err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Println("✓ Alert resolved")
	},
}

func printAlert(cmd *cobra.Command, alert *api.AlertResponse) {
	icon := severityIcon(alert.Severity)
	state := ""
	if alert.IsResolved {
		state = colorDim + " (resolved)" + colorReset
	}
	cmd.Printf("%s [%s] %s%s\n", icon, alert.Type, alert.Title, state)
	if alert.Message != "" {
		cmd.Printf("    %s%s%s\n", colorDim, alert.Message, colorReset)
	}
	cmd.Printf("    %sid: %s  created: %s%s\n", colorDim, alert.ID, alert.CreatedAt.Format("2006-01-02 15:04"), colorReset)
}

func severityIcon(severity string) string {
	switch severity {
	case "high":
		return colorRed + "●" + colorReset
	case "medium":
		return colorYellow + "●" + colorReset
	case "low":
		return colorCyan + "●" + colorReset
	default:
		return "●"
	}
}

func init() {
	alertsCmd.Flags().Bool("unresolved", false, "Only unresolved alerts")

	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(resolveCmd)
}
