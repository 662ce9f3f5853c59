package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/praxis/adapter/cli"
	"github.com/felixgeelhaar/praxis/internal/booking/application/commands"
	"github.com/felixgeelhaar/praxis/internal/booking/domain"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	addKind           string
	addPatientID      string
	addLocation       string
	addType           string
	addColor          string
	addNote           string
	addDate           string
	addStartTime      string
	addEndTime        string
	addRepeatDays     []string
	addRepeatInterval int
	addRepeatCount    int
	addRepeatUntil    string
	addAllProviders   bool
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Book an appointment or block time",
	Long: `Book an appointment for a patient, or reserve block time.

A booking that collides with an existing one prompts for confirmation
before it is kept as a deliberate double booking.

Examples:
  praxis schedule add --patient <id> --location north --type "Wellness Exam" --start 09:00 --end 09:30
  praxis schedule add --kind block --location north --type "Lunch" --start 12:00 --end 13:00 --all-providers
  praxis schedule add --patient <id> --location north --type "Follow-up" --start 10:00 --end 10:30 \
    --repeat-on tue,thu --repeat-every 2 --repeat-count 5`,
	Aliases: []string{"book", "new"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateBookingHandler == nil {
			fmt.Println("Schedule commands require a configured store.")
			return nil
		}

		date := time.Now()
		if addDate != "" {
			var err error
			date, err = time.Parse("2006-01-02", addDate)
			if err != nil {
				return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
			}
		}
		start, err := sharedDomain.ParseTimeOfDay(addStartTime)
		if err != nil {
			return fmt.Errorf("invalid start time format, use HH:MM: %w", err)
		}
		end, err := sharedDomain.ParseTimeOfDay(addEndTime)
		if err != nil {
			return fmt.Errorf("invalid end time format, use HH:MM: %w", err)
		}

		createCmd := commands.CreateBookingCommand{
			Kind:            domain.Kind(addKind),
			ProviderID:      app.CurrentProviderID,
			Location:        addLocation,
			LocationName:    locationName(cmd, addLocation),
			AppointmentType: addType,
			ColorCode:       addColor,
			Note:            addNote,
			Date:            date,
			Start:           start,
			End:             end,
		}
		if addAllProviders {
			createCmd.ProviderID = uuid.Nil
		}
		if addPatientID != "" {
			patientID, err := uuid.Parse(addPatientID)
			if err != nil {
				return fmt.Errorf("invalid patient ID: %w", err)
			}
			createCmd.PatientID = patientID
		}

		rule, err := parseRepeatFlags(date)
		if err != nil {
			return err
		}
		createCmd.Recurrence = rule

		result, err := app.CreateBookingHandler.Handle(cmd.Context(), createCmd)
		if err != nil {
			if errors.Is(err, domain.ErrOverlapDeclined) {
				fmt.Println("Booking cancelled.")
				return nil
			}
			return fmt.Errorf("failed to book: %w", err)
		}

		fmt.Printf("Booked %s at %s, %s - %s\n", addType, addLocation, start, end)
		if result.OverlapApproved {
			fmt.Println("Kept as a deliberate double booking.")
		}

		if rule != nil {
			batch, err := app.CreateRecurringHandler.Handle(cmd.Context(), commands.CreateRecurringCommand{
				Kind:            createCmd.Kind,
				ProviderID:      createCmd.ProviderID,
				PatientID:       createCmd.PatientID,
				Location:        createCmd.Location,
				AppointmentType: createCmd.AppointmentType,
				ColorCode:       createCmd.ColorCode,
				AnchorDate:      domain.NormalizeDate(date),
				Start:           start,
				End:             end,
				Rule:            *rule,
				AllowOverlap:    result.OverlapApproved,
			})
			if err != nil {
				return fmt.Errorf("failed to create repeats: %w", err)
			}
			fmt.Println(batch.Message())
			for _, day := range batch.FailedDates {
				fmt.Printf("  skipped %s\n", day.Format("2006-01-02"))
			}
		}
		return nil
	},
}

func parseRepeatFlags(anchor time.Time) (*domain.RecurrenceRule, error) {
	if len(addRepeatDays) == 0 {
		return nil, nil
	}

	rule := &domain.RecurrenceRule{
		IntervalWeeks: addRepeatInterval,
		MaxAdditional: addRepeatCount,
	}
	for _, raw := range addRepeatDays {
		for _, name := range strings.Split(raw, ",") {
			day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				return nil, fmt.Errorf("invalid weekday %q (use sun..sat)", name)
			}
			rule.Weekdays = append(rule.Weekdays, day)
		}
	}
	if addRepeatUntil != "" {
		until, err := time.Parse("2006-01-02", addRepeatUntil)
		if err != nil {
			return nil, fmt.Errorf("invalid repeat-until date, use YYYY-MM-DD: %w", err)
		}
		if until.Before(domain.NormalizeDate(anchor)) {
			return nil, domain.ErrRecurrenceEndsEarly
		}
		rule.Until = until
		rule.MaxAdditional = 0
	}
	return rule, nil
}

func locationName(cmd *cobra.Command, key string) string {
	app := cli.GetApp()
	if app == nil || app.Directory == nil {
		return key
	}
	loc, err := app.Directory.FindByKey(cmd.Context(), key)
	if err != nil || loc == nil {
		return key
	}
	return loc.Name()
}

func init() {
	addCmd.Flags().StringVar(&addKind, "kind", "appointment", "booking kind: appointment or block")
	addCmd.Flags().StringVarP(&addPatientID, "patient", "p", "", "patient ID (required for appointments)")
	addCmd.Flags().StringVarP(&addLocation, "location", "l", "", "location key")
	addCmd.Flags().StringVarP(&addType, "type", "t", "", "appointment type or block label")
	addCmd.Flags().StringVar(&addColor, "color", "#4A90D9", "display color")
	addCmd.Flags().StringVarP(&addNote, "note", "n", "", "internal staff note")
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "date (YYYY-MM-DD), defaults to today")
	addCmd.Flags().StringVar(&addStartTime, "start", "", "start time (HH:MM)")
	addCmd.Flags().StringVar(&addEndTime, "end", "", "end time (HH:MM)")
	addCmd.Flags().StringArrayVar(&addRepeatDays, "repeat-on", nil, "repeat weekdays, e.g. tue,thu")
	addCmd.Flags().IntVar(&addRepeatInterval, "repeat-every", 1, "repeat every N weeks")
	addCmd.Flags().IntVar(&addRepeatCount, "repeat-count", 0, "number of additional occurrences")
	addCmd.Flags().StringVar(&addRepeatUntil, "repeat-until", "", "last possible repeat date (YYYY-MM-DD)")
	addCmd.Flags().BoolVar(&addAllProviders, "all-providers", false, "block time applies to every provider")

	addCmd.MarkFlagRequired("location")
	addCmd.MarkFlagRequired("type")
	addCmd.MarkFlagRequired("start")
	addCmd.MarkFlagRequired("end")
}
