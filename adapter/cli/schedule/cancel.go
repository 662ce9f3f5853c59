package schedule

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/praxis/adapter/cli"
	"github.com/felixgeelhaar/praxis/internal/booking/application/commands"
	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:     "cancel <booking-id>",
	Short:   "Cancel a booking",
	Aliases: []string{"remove", "rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CancelBookingHandler == nil {
			fmt.Println("Schedule commands require a configured store.")
			return nil
		}

		bookingID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid booking ID: %w", err)
		}

		err = app.CancelBookingHandler.Handle(cmd.Context(), commands.CancelBookingCommand{BookingID: bookingID})
		if err != nil {
			if errors.Is(err, domain.ErrBookingNotFound) {
				return fmt.Errorf("booking %s not found", bookingID)
			}
			return fmt.Errorf("failed to cancel booking: %w", err)
		}

		fmt.Println("Booking cancelled.")
		return nil
	},
}
