package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/felixgeelhaar/praxis/adapter/api"
	"github.com/felixgeelhaar/praxis/internal/booking/application/commands"
	"github.com/felixgeelhaar/praxis/internal/booking/application/queries"
	"github.com/felixgeelhaar/praxis/internal/booking/application/refresh"
	locationDomain "github.com/felixgeelhaar/praxis/internal/location/domain"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Booking Command Handlers
	CreateBookingHandler     *commands.CreateBookingHandler
	CreateRecurringHandler   *commands.CreateRecurringHandler
	RescheduleBookingHandler *commands.RescheduleBookingHandler
	UpdateRowHandler         *commands.UpdateRowHandler
	CancelBookingHandler     *commands.CancelBookingHandler

	// Booking Query Handlers
	DayScheduleHandler  *queries.GetDayScheduleHandler
	ListBookingsHandler *queries.ListBookingsHandler

	// Locations
	Directory locationDomain.Directory

	// Refresh coordination for long-lived views
	Refresh *refresh.Coordinator

	// API server, started by the serve command
	APIServer *api.Server

	// Schedule view granularity in minutes
	SlotMinutes int

	// Current provider (configured per workstation)
	CurrentProviderID uuid.UUID
}

var appInstance *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	appInstance = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return appInstance
}

// ConfirmOverlap prompts on the terminal when the store reports a
// double booking and returns whether the user chose to keep it.
func ConfirmOverlap(ctx context.Context, message string) (bool, error) {
	fmt.Println(message)
	fmt.Print("[y/N]: ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
