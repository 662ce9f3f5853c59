package locations

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/praxis/adapter/cli"
	"github.com/felixgeelhaar/praxis/internal/location/domain"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <key>",
	Short:   "Remove a location",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Directory == nil {
			fmt.Println("Location commands require a configured store.")
			return nil
		}

		if err := app.Directory.Delete(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, domain.ErrLocationNotFound) {
				return fmt.Errorf("location %s not found", args[0])
			}
			return fmt.Errorf("failed to remove location: %w", err)
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}
