package locations

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/praxis/adapter/cli"
	"github.com/felixgeelhaar/praxis/internal/location/domain"
	sharedDomain "github.com/felixgeelhaar/praxis/internal/shared/domain"
	"github.com/spf13/cobra"
)

var (
	setName  string
	setHours []string
)

var setWeekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

var setCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Create or update a location",
	Long: `Create or update a location and its weekly hours. Hours use
day=start-end, or day=closed; undeclared days count as open 08:00-17:00.

Examples:
  praxis locations set north --name "North Office"
  praxis locations set north --hours mon=09:00-18:00 --hours sun=closed`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Directory == nil {
			fmt.Println("Location commands require a configured store.")
			return nil
		}
		key := args[0]

		existing, err := app.Directory.FindByKey(cmd.Context(), key)
		if err != nil {
			return fmt.Errorf("failed to load location: %w", err)
		}

		weekly := domain.WeeklyHours{}
		name := setName
		if existing != nil {
			for day, h := range existing.Weekly() {
				weekly[day] = h
			}
			if name == "" {
				name = existing.Name()
			}
		}

		for _, raw := range setHours {
			day, hours, err := parseHoursFlag(raw)
			if err != nil {
				return err
			}
			weekly[day] = hours
		}

		loc, err := domain.NewLocation(key, name, weekly)
		if err != nil {
			return fmt.Errorf("failed to build location: %w", err)
		}
		if err := app.Directory.Save(cmd.Context(), loc); err != nil {
			return fmt.Errorf("failed to save location: %w", err)
		}

		fmt.Printf("Saved %s (%s)\n", loc.Key(), loc.Name())
		return nil
	},
}

func parseHoursFlag(raw string) (time.Weekday, domain.DayHours, error) {
	parts := strings.SplitN(raw, "=", 2)
	if len(parts) != 2 {
		return 0, domain.DayHours{}, fmt.Errorf("invalid hours %q, use day=start-end or day=closed", raw)
	}
	day, ok := setWeekdayNames[strings.ToLower(strings.TrimSpace(parts[0]))]
	if !ok {
		return 0, domain.DayHours{}, fmt.Errorf("invalid weekday %q (use sun..sat)", parts[0])
	}

	if strings.EqualFold(strings.TrimSpace(parts[1]), "closed") {
		return day, domain.DayHours{Open: false}, nil
	}

	times := strings.SplitN(parts[1], "-", 2)
	if len(times) != 2 {
		return 0, domain.DayHours{}, fmt.Errorf("invalid hours %q, use start-end like 09:00-18:00", parts[1])
	}
	start, err := sharedDomain.ParseTimeOfDay(strings.TrimSpace(times[0]))
	if err != nil {
		return 0, domain.DayHours{}, fmt.Errorf("invalid start time in %q: %w", raw, err)
	}
	end, err := sharedDomain.ParseTimeOfDay(strings.TrimSpace(times[1]))
	if err != nil {
		return 0, domain.DayHours{}, fmt.Errorf("invalid end time in %q: %w", raw, err)
	}
	if !end.After(start) {
		return 0, domain.DayHours{}, fmt.Errorf("end must be after start in %q", raw)
	}
	return day, domain.DayHours{Open: true, Start: start, End: end}, nil
}

func init() {
	setCmd.Flags().StringVarP(&setName, "name", "n", "", "display name")
	setCmd.Flags().StringArrayVar(&setHours, "hours", nil, "weekly hours, e.g. mon=09:00-18:00 (repeatable)")
}
