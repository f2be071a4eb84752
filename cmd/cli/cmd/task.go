package cmd

import (
	"time"

	"workfloor/pkg/api"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a direct work session",
	Long: `Log a self-reported work session against a job order. With --complete
the session closes immediately and its units hit the ledger.

Example:
  floorctl log --order <order-id> --units 10 --start 2026-09-01T08:00:00Z --end 2026-09-01T12:00:00Z --complete
  floorctl log --order <order-id> --start 2026-09-01T08:00:00Z`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		orderID, _ := flags.GetString("order")
		operationID, _ := flags.GetString("operation")
		units, _ := flags.GetInt("units")
		start, _ := flags.GetString("start")
		end, _ := flags.GetString("end")
		notes, _ := flags.GetString("notes")
		complete, _ := flags.GetBool("complete")

		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		if orderID == "" {
			cmd.Println("Error: --order is required")
			return
		}

		req := api.CreateTaskRequest{
			JobOrderID:     orderID,
			OperationID:    operationID,
			Mode:           "direct",
			UnitsCompleted: units,
			Notes:          notes,
			Complete:       complete,
		}

		if start != "" {
			t, err := time.Parse(time.RFC3339, start)
			if err != nil {
				cmd.Printf("Error: invalid --start time: %v\n", err)
				return
			}
			req.StartTime = &t
		}
		if end != "" {
			t, err := time.Parse(time.RFC3339, end)
			if err != nil {
				cmd.Printf("Error: invalid --end time: %v\n", err)
				return
			}
			req.EndTime = &t
		}

		result, err := client.CreateTask(req)
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Printf("✓ Session logged!\nID: %s\nStatus: %s\nUnits: %d\n", result.ID, result.Status, result.UnitsCompleted)
	},
}

var taskCmd = &cobra.Command{
	Use:   "task [task_id]",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		task, err := client.GetTask(args[0])
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Printf("%sTask%s\n", colorBold, colorReset)
		cmd.Println("──────────────────────────────")
		cmd.Printf("%sID:%s        %s\n", colorDim, colorReset, task.ID)
		cmd.Printf("%sOrder:%s     %s\n", colorDim, colorReset, task.JobOrderID)
		cmd.Printf("%sMode:%s      %s\n", colorDim, colorReset, task.Mode)
		cmd.Printf("%sStatus:%s    %s\n", colorDim, colorReset, task.Status)
		cmd.Printf("%sUnits:%s     %d\n", colorDim, colorReset, task.UnitsCompleted)
		cmd.Printf("%sAttempt:%s   %d\n", colorDim, colorReset, task.Attempt)
		if task.RejectReason != "" {
			cmd.Printf("%sRejected:%s  %s%s%s\n", colorDim, colorReset, colorRed, task.RejectReason, colorReset)
		}
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign [task_id]",
	Short: "Assign a pending task to a technician",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		technician, _ := cmd.Flags().GetString("technician")

		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		if technician == "" {
			cmd.Println("Error: --technician is required")
			return
		}

		result, err := client.AssignTask(args[0], api.AssignTaskRequest{TechnicianID: technician})
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Printf("✓ Task assigned to %s\nStatus: %s\n", result.TechnicianID, result.Status)
	},
}

var startCmd = &cobra.Command{
	Use:   "start [task_id]",
	Short: "Start an assigned task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		result, err := client.StartTask(args[0])
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Printf("✓ Task started\nStatus: %s\nAttempt: %d\n", result.Status, result.Attempt)
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit [task_id]",
	Short: "Submit completed work for review",
	Long: `Submit the work done on an in-progress task. The units do not hit the
job-order ledger until a supervisor approves the submission.

Example:
  floorctl submit <task-id> --units 10 --minutes 240 --serials "SN-001,SN-002"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		units, _ := flags.GetInt("units")
		minutes, _ := flags.GetInt("minutes")
		serials, _ := flags.GetStringSlice("serials")
		notes, _ := flags.GetString("notes")

		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		result, err := client.SubmitTask(args[0], api.SubmitTaskRequest{
			CompletedUnits: units,
			ActualMinutes:  minutes,
			SerialNumbers:  serials,
			Notes:          notes,
		})
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Printf("✓ Work submitted for review\nStatus: %s\nUnits: %d\n", result.Status, result.UnitsCompleted)
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve [task_id]",
	Short: "Approve a submitted task",
	Long:  `Approve a submitted task. This is the moment the submitted units and time are applied to the job-order ledger.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		feedback, _ := cmd.Flags().GetString("feedback")

		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		result, err := client.ApproveTask(args[0], api.ReviewTaskRequest{Feedback: feedback})
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Printf("✓ Task approved\nStatus: %s\nUnits applied: %d\n", result.Status, result.UnitsCompleted)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject [task_id]",
	Short: "Reject a submitted task",
	Long:  `Reject a submitted task with a reason. No units hit the ledger; the technician can rework and resubmit.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reason, _ := cmd.Flags().GetString("reason")

		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		if reason == "" {
			cmd.Println("Error: --reason is required")
			return
		}

		result, err := client.RejectTask(args[0], api.ReviewTaskRequest{Reason: reason})
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Printf("✓ Task rejected\nStatus: %s\nReason: %s\n", result.Status, result.RejectReason)
	},
}

func init() {
	logFlags := logCmd.Flags()
	logFlags.String("order", "", "Job order ID (required)")
	logFlags.String("operation", "", "Operation ID from the catalog (optional)")
	logFlags.IntP("units", "u", 0, "Units completed in this session")
	logFlags.String("start", "", "Session start time, RFC 3339")
	logFlags.String("end", "", "Session end time, RFC 3339")
	logFlags.String("notes", "", "Free-form notes")
	logFlags.Bool("complete", false, "Close the session immediately and apply units to the ledger")

	assignCmd.Flags().StringP("technician", "t", "", "Technician UUID (required)")

	submitFlags := submitCmd.Flags()
	submitFlags.IntP("units", "u", 0, "Units completed")
	submitFlags.IntP("minutes", "m", 0, "Actual time spent, in minutes")
	submitFlags.StringSlice("serials", []string{}, "Serial numbers produced")
	submitFlags.String("notes", "", "Free-form notes")

	approveCmd.Flags().String("feedback", "", "Review feedback (optional)")
	rejectCmd.Flags().String("reason", "", "Rejection reason (required)")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(rejectCmd)
}
