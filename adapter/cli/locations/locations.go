// Package locations provides the locations command group.
package locations

import (
	"github.com/spf13/cobra"
)

// Cmd is the locations command group
var Cmd = &cobra.Command{
	Use:     "locations",
	Short:   "Manage practice locations and operating hours",
	Aliases: []string{"location", "loc"},
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(removeCmd)
}
