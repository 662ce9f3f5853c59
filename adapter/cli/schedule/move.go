package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/praxis/adapter/cli"
	"github.com/felixgeelhaar/praxis/internal/booking/application/commands"
	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	moveDate      string
	moveStartTime string
	moveEndTime   string
)

var moveCmd = &cobra.Command{
	Use:   "move <booking-id>",
	Short: "Move a booking to a new time",
	Long: `Move an existing booking to a new day or time range. A collision
with another booking prompts for confirmation, like booking does.

Examples:
  praxis schedule move 3f1f... --start 14:00 --end 14:30
  praxis schedule move 3f1f... --date 2025-11-12 --start 09:00 --end 09:30`,
	Aliases: []string{"reschedule"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RescheduleBookingHandler == nil {
			fmt.Println("Schedule commands require a configured store.")
			return nil
		}

		bookingID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid booking ID: %w", err)
		}

		date := time.Now()
		if moveDate != "" {
			if date, err = time.Parse("2006-01-02", moveDate); err != nil {
				return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
			}
		}
		start, err := sharedDomain.ParseTimeOfDay(moveStartTime)
		if err != nil {
			return fmt.Errorf("invalid start time format, use HH:MM: %w", err)
		}
		end, err := sharedDomain.ParseTimeOfDay(moveEndTime)
		if err != nil {
			return fmt.Errorf("invalid end time format, use HH:MM: %w", err)
		}

		err = app.RescheduleBookingHandler.Handle(cmd.Context(), commands.RescheduleBookingCommand{
			BookingID: bookingID,
			Date:      date,
			Start:     start,
			End:       end,
		})
		if err != nil {
			if errors.Is(err, domain.ErrOverlapDeclined) {
				fmt.Println("Move cancelled.")
				return nil
			}
			if errors.Is(err, domain.ErrBookingNotFound) {
				return fmt.Errorf("booking %s not found", bookingID)
			}
			return fmt.Errorf("failed to move booking: %w", err)
		}

		fmt.Printf("Moved to %s, %s - %s\n", domain.NormalizeDate(date).Format("2006-01-02"), start, end)
		return nil
	},
}

func init() {
	moveCmd.Flags().StringVarP(&moveDate, "date", "d", "", "new date (YYYY-MM-DD), defaults to today")
	moveCmd.Flags().StringVar(&moveStartTime, "start", "", "new start time (HH:MM)")
	moveCmd.Flags().StringVar(&moveEndTime, "end", "", "new end time (HH:MM)")

	moveCmd.MarkFlagRequired("start")
	moveCmd.MarkFlagRequired("end")
}
