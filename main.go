// backend/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/gewnthar/sitetrack/config"
	"github.com/gewnthar/sitetrack/database"
)

const Version = "0.3.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "sitetrack",
	Short:         "Construction portfolio progress tracker",
	Long:          "sitetrack ingests package progress spreadsheets, derives task status and site rollups, and serves them as a JSON API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default: search standard locations)")

	rootCmd.AddCommand(
		newServeCmd(),
		newIngestCmd(),
		newRunsCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sitetrack v%s\n", Version)
		},
	}
}

// loadConfig loads config.AppConfig from --config or the standard locations.
func loadConfig() error {
	if err := config.LoadConfig(configPath); err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	log.Printf("Configuration loaded. Server port: %s, %d sources, refresh every %s\n",
		config.AppConfig.Server.Port, len(config.AppConfig.Sources), config.AppConfig.Refresh.Interval)
	return nil
}

// openRunStore connects the optional run log. It returns nil when disabled.
func openRunStore() (*database.RunStore, error) {
	if !config.AppConfig.Database.Enabled {
		log.Println("Database: Run log disabled.")
		return nil, nil
	}
	if err := database.InitDB(config.AppConfig.Database); err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	return database.NewRunStore(database.DB), nil
}
