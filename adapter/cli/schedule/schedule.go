// Package schedule provides the schedule command group.
package schedule

import (
	"github.com/spf13/cobra"
)

// Cmd is the schedule command group
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage the appointment book",
	Long:  `View the day across offices, book appointments and block times, and manage repeats.`,
}

func init() {
	Cmd.AddCommand(dayCmd)
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(moveCmd)
	Cmd.AddCommand(cancelCmd)
	Cmd.AddCommand(exportCmd)
}
