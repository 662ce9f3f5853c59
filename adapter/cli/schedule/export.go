package schedule

import (
	"fmt"
	"os"
	"time"

	"github.com/felixgeelhaar/praxis/adapter/cli"
	"github.com/felixgeelhaar/praxis/internal/booking/application/queries"
	"github.com/felixgeelhaar/praxis/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportDate      string
	exportLocations []string
	exportOut       string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a day as an iCalendar file",
	Long: `Export the day's bookings as an .ics file for an external calendar.

Examples:
  praxis schedule export --date 2025-11-10 -o monday.ics
  praxis schedule export --location north`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListBookingsHandler == nil {
			fmt.Println("Schedule commands require a configured store.")
			return nil
		}

		date := time.Now()
		if exportDate != "" {
			var err error
			date, err = time.Parse("2006-01-02", exportDate)
			if err != nil {
				return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
			}
		}

		bookings, err := app.ListBookingsHandler.Handle(cmd.Context(), queries.ListBookingsQuery{
			ProviderID: app.CurrentProviderID,
			Locations:  exportLocations,
			From:       date,
			To:         date,
		})
		if err != nil {
			return fmt.Errorf("failed to load bookings: %w", err)
		}

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOut, err)
			}
			defer f.Close()
			out = f
		}
		if err := export.WriteICS(out, bookings); err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		if exportOut != "" {
			fmt.Printf("Exported %d bookings to %s\n", len(bookings), exportOut)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportDate, "date", "d", "", "date (YYYY-MM-DD), defaults to today")
	exportCmd.Flags().StringArrayVarP(&exportLocations, "location", "l", nil, "location keys to include (repeatable)")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file, defaults to stdout")
}
