package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "floorctl",
	Short: "Floorctl is a command line tool for interacting with the workfloor platform",
	Long: `floorctl is the command-line interface for the workfloor manufacturing
task-tracking platform.

Workfloor tracks production as job orders with a completion ledger; work is
recorded either as reviewed tasks (assigned, worked, submitted, approved) or
as direct sessions (self-reported by technicians). Only approved or completed
work moves the ledger.

Common workflows:

  Create a job order (planner):
    floorctl create-order --number "JO-2026-0042" --product "Valve housing" --quantity 50 --due 2026-09-30

  Check an order:
    floorctl order <order-id>

  Log a finished direct session (technician):
    floorctl log --order <order-id> --units 10 --start 2026-09-01T08:00:00Z --end 2026-09-01T12:00:00Z --complete

  Reviewed lifecycle:
    floorctl assign <task-id> --technician <tech-id>
    floorctl start <task-id>
    floorctl submit <task-id> --units 10 --minutes 240
    floorctl approve <task-id>
    floorctl reject <task-id> --reason "wrong serials"

  Alerts:
    floorctl alerts --unresolved
    floorctl resolve <alert-id>

Configuration:
  Set the API endpoint and identity via environment variables or a config file:
    WORKFLOOR_URL      API endpoint (default: http://localhost:7070)
    WORKFLOOR_ACTOR    Actor UUID sent as X-Actor-ID
    WORKFLOOR_ROLE     Actor role sent as X-Actor-Role`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".floorctl"
		viper.AddConfigPath(home)
		viper.SetConfigName(".floorctl")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "WORKFLOOR_VARNAME"
	viper.SetEnvPrefix("WORKFLOOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.floorctl.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:7070", "Workfloor API URL")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))

	rootCmd.PersistentFlags().String("actor", "", "Actor UUID for identification")
	viper.BindPFlag("actor", rootCmd.PersistentFlags().Lookup("actor"))

	rootCmd.PersistentFlags().String("role", "", "Actor role (technician, supervisor, planner, admin)")
	viper.BindPFlag("role", rootCmd.PersistentFlags().Lookup("role"))
}
