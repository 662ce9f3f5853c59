package layout

// DragSelection tracks a press-and-drag over slot rows. Indices may run
// in either direction; the committed range is always normalized.
type DragSelection struct {
	active   bool
	startIdx int
	endIdx   int
}

// Range is the minute range a committed drag resolves to, half-open on
// slot boundaries: the end slot is included in full.
type Range struct {
	StartMinutes int
	EndMinutes   int
}

// Begin starts a drag at the given slot index.
func (d *DragSelection) Begin(slotIdx int) {
	d.active = true
	d.startIdx = slotIdx
	d.endIdx = slotIdx
}

// Extend moves the drag's far edge. No-op when no drag is active.
func (d *DragSelection) Extend(slotIdx int) {
	if !d.active {
		return
	}
	d.endIdx = slotIdx
}

// Active reports whether a drag is in progress.
func (d *DragSelection) Active() bool { return d.active }

// Cancel abandons the drag without committing, as when the pointer
// leaves the grid.
func (d *DragSelection) Cancel() {
	d.active = false
}

// Commit ends the drag and returns the selected minute range. The second
// return is false when no drag was active.
func (d *DragSelection) Commit(g Grid) (Range, bool) {
	if !d.active {
		return Range{}, false
	}
	d.active = false

	a, b := d.startIdx, d.endIdx
	if b < a {
		a, b = b, a
	}
	open := int(g.OpenHour * 60)
	return Range{
		StartMinutes: open + a*g.SlotMinutes,
		EndMinutes:   open + (b+1)*g.SlotMinutes,
	}, true
}
