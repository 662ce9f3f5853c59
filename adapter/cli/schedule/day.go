package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/praxis/adapter/cli"
	"github.com/felixgeelhaar/praxis/internal/booking/application/queries"
	"github.com/felixgeelhaar/praxis/internal/layout"
	"github.com/spf13/cobra"
)

var (
	dayDate      string
	dayLocations []string
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Show the day view across offices",
	Long: `Show one day of the appointment book. With multiple locations the
open-hours envelope spans every office that is open.

Examples:
  praxis schedule day
  praxis schedule day --date 2025-11-10
  praxis schedule day --location north --location south`,
	Aliases: []string{"show"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.DayScheduleHandler == nil {
			fmt.Println("Schedule commands require a configured store.")
			return nil
		}

		date := time.Now()
		if dayDate != "" {
			var err error
			date, err = time.Parse("2006-01-02", dayDate)
			if err != nil {
				return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
			}
		}

		schedule, err := app.DayScheduleHandler.Handle(cmd.Context(), queries.GetDayScheduleQuery{
			Date:         date,
			ProviderID:   app.CurrentProviderID,
			LocationKeys: dayLocations,
			SlotMinutes:  app.SlotMinutes,
		})
		if err != nil {
			return fmt.Errorf("failed to load day view: %w", err)
		}

		fmt.Printf("Schedule for %s\n", schedule.Date.Format("Monday, January 2 2006"))
		if schedule.Hours.Open {
			fmt.Printf("Open %s - %s\n", schedule.Hours.Start, schedule.Hours.End)
		} else {
			fmt.Println("All offices closed")
		}
		fmt.Println(strings.Repeat("-", 48))

		for _, col := range schedule.Columns {
			fmt.Printf("%s (%s)\n", col.LocationName, col.LocationKey)
			if len(col.Column.Boxes) == 0 && len(col.Column.Collapsed) == 0 {
				fmt.Println("  no bookings")
				continue
			}
			for _, box := range col.Column.Boxes {
				fmt.Printf("  %s - %s  %s\n",
					minutesClock(box.Item.StartMinutes),
					minutesClock(box.Item.EndMinutes),
					box.Item.Label,
				)
			}
			for _, collapsed := range col.Column.Collapsed {
				fmt.Printf("  %s - %s  %d overlapping bookings\n",
					minutesClock(earliestStart(collapsed.Items)),
					minutesClock(latestEnd(collapsed.Items)),
					collapsed.Count,
				)
				for _, group := range layout.GroupMembers(collapsed.Items) {
					for _, member := range group.Items {
						fmt.Printf("    %s - %s  %s\n",
							minutesClock(member.StartMinutes),
							minutesClock(member.EndMinutes),
							member.Label,
						)
					}
				}
			}
		}
		return nil
	},
}

func minutesClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func earliestStart(items []layout.Item) int {
	earliest := items[0].StartMinutes
	for _, it := range items[1:] {
		if it.StartMinutes < earliest {
			earliest = it.StartMinutes
		}
	}
	return earliest
}

func latestEnd(items []layout.Item) int {
	latest := items[0].EndMinutes
	for _, it := range items[1:] {
		if it.EndMinutes > latest {
			latest = it.EndMinutes
		}
	}
	return latest
}

func init() {
	dayCmd.Flags().StringVarP(&dayDate, "date", "d", "", "date (YYYY-MM-DD), defaults to today")
	dayCmd.Flags().StringArrayVarP(&dayLocations, "location", "l", nil, "location keys to show (repeatable)")
}
