// backend/cmd_runs.go
package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gewnthar/sitetrack/database"
)

func newRunsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Print recent ingestion runs from the run log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			store, err := openRunStore()
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("run log is disabled (database.enabled: false)")
			}
			defer database.CloseDB()

			runs, err := store.GetRecentIngestionRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tSTATUS\tROWS\tTASKS\tSITES\tPACKAGES\tERROR")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
					r.StartedAt.Format(time.RFC3339), r.Status, r.RawRows, r.ValidTasks, r.UniqueSites, r.Packages, r.ErrorMessage)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return cmd
}
