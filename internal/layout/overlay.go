package layout

// Overlay shades the part of the display window outside the merged open
// hours. Zero-height overlays are omitted.
type Overlay struct {
	TopPx    float64
	HeightPx float64
}

// Overlays computes the closed-hours shading for a grid rendered inside
// the fixed display window. The top overlay covers display start up to
// the opening hour, the bottom overlay covers closing hour to display
// end. Hours at or beyond the window edges produce no overlay.
func Overlays(g Grid) []Overlay {
	pxPerHour := float64(60) / float64(g.SlotMinutes) * SlotRowPx
	windowHeight := float64(DisplayEndHour-DisplayStartHour) * pxPerHour

	var overlays []Overlay
	if g.OpenHour > DisplayStartHour {
		overlays = append(overlays, Overlay{
			TopPx:    0,
			HeightPx: (g.OpenHour - DisplayStartHour) * pxPerHour,
		})
	}
	if g.CloseHour < DisplayEndHour {
		top := (g.CloseHour - DisplayStartHour) * pxPerHour
		overlays = append(overlays, Overlay{
			TopPx:    top,
			HeightPx: windowHeight - top,
		})
	}
	return overlays
}
