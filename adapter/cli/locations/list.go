package locations

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/praxis/adapter/cli"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List locations and their weekly hours",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Directory == nil {
			fmt.Println("Location commands require a configured store.")
			return nil
		}

		all, err := app.Directory.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list locations: %w", err)
		}
		if len(all) == 0 {
			fmt.Println("No locations configured.")
			return nil
		}

		for _, loc := range all {
			fmt.Printf("%s  %s\n", loc.Key(), loc.Name())
			for day := time.Sunday; day <= time.Saturday; day++ {
				declared, ok := loc.Weekly()[day]
				switch {
				case !ok:
					fmt.Printf("  %-9s default (08:00 - 17:00)\n", day)
				case !declared.Open:
					fmt.Printf("  %-9s closed\n", day)
				default:
					fmt.Printf("  %-9s %s - %s\n", day, declared.Start, declared.End)
				}
			}
		}
		return nil
	},
}
