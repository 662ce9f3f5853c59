// Package layout computes pixel positions for the day-view schedule grid:
// event boxes, overlap clusters, closed-hours overlays, and drag-select
// ranges. All math is pure; callers feed it bookings and merged hours and
// render the result.
package layout

import "github.com/google/uuid"

const (
	// SlotRowPx is the rendered height of one time slot row.
	SlotRowPx = 48.0
	// SliverPercent is the right-edge gutter left free so an occupied
	// column still exposes a click target for drag-select.
	SliverPercent = 12.0
	// CollapseThreshold is the largest cluster rendered side by side.
	// Anything larger collapses into a single summary box.
	CollapseThreshold = 3
	// DisplayStartHour and DisplayEndHour bound the rendered day window.
	DisplayStartHour = 8
	DisplayEndHour   = 17
)

// Grid describes the geometry of one rendered day column.
type Grid struct {
	SlotMinutes int
	OpenHour    float64
	CloseHour   float64
}

// NewGrid builds a grid for the given slot granularity and open range.
// A non-positive slot size falls back to 30 minutes.
func NewGrid(slotMinutes int, openHour, closeHour float64) Grid {
	if slotMinutes <= 0 {
		slotMinutes = 30
	}
	return Grid{SlotMinutes: slotMinutes, OpenHour: openHour, CloseHour: closeHour}
}

// PxPerMinute is the vertical scale of the grid.
func (g Grid) PxPerMinute() float64 {
	return SlotRowPx / float64(g.SlotMinutes)
}

// SlotCount is the number of slot rows between open and close.
func (g Grid) SlotCount() int {
	return int((g.CloseHour - g.OpenHour) * 60.0 / float64(g.SlotMinutes))
}

// TopFor converts a minutes-since-midnight start into a pixel offset from
// the top of the grid.
func (g Grid) TopFor(startMinutes int) float64 {
	return (float64(startMinutes) - g.OpenHour*60.0) * g.PxPerMinute()
}

// HeightFor converts a duration in minutes into pixels.
func (g Grid) HeightFor(minutes int) float64 {
	return float64(minutes) * g.PxPerMinute()
}

// Item is one schedulable entry placed on the grid.
type Item struct {
	ID           uuid.UUID
	Location     string
	Label        string
	StartMinutes int
	EndMinutes   int
}

// Duration returns the item's length in minutes.
func (it Item) Duration() int {
	return it.EndMinutes - it.StartMinutes
}
