package layout_test

import (
	"testing"

	"github.com/felixgeelhaar/praxis/internal/layout"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(start, end int) layout.Item {
	return layout.Item{ID: uuid.New(), StartMinutes: start, EndMinutes: end}
}

func TestGrid_Geometry(t *testing.T) {
	g := layout.NewGrid(30, 9, 18)

	assert.InDelta(t, 1.6, g.PxPerMinute(), 1e-9)
	assert.Equal(t, 18, g.SlotCount())
	// 09:30 start sits one slot row down.
	assert.InDelta(t, 48.0, g.TopFor(9*60+30), 1e-9)
	assert.InDelta(t, 48.0, g.HeightFor(30), 1e-9)
}

func TestBuildClusters_ChainsByRunningMaxEnd(t *testing.T) {
	// a spans the whole morning; b and c overlap only through a.
	a := item(9*60, 12*60)
	b := item(9*60+30, 10*60)
	c := item(11*60, 11*60+30)
	d := item(13*60, 14*60)

	clusters := layout.BuildClusters([]layout.Item{d, c, a, b})

	require.Len(t, clusters, 2)
	assert.Equal(t, 3, clusters[0].Size())
	assert.Equal(t, 9*60, clusters[0].StartMinutes)
	assert.Equal(t, 12*60, clusters[0].EndMinutes)
	assert.Equal(t, 1, clusters[1].Size())
}

func TestBuildClusters_TouchingRangesDoNotChain(t *testing.T) {
	clusters := layout.BuildClusters([]layout.Item{
		item(9*60, 10*60),
		item(10*60, 11*60),
	})
	assert.Len(t, clusters, 2)
}

func TestBuildColumn_ThreeWaySplitKeepsSliver(t *testing.T) {
	g := layout.NewGrid(30, 8, 17)
	items := []layout.Item{
		item(9*60, 10*60),
		item(9*60, 10*60),
		item(9*60+15, 10*60+15),
	}

	col := layout.BuildColumn(g, items)

	require.Len(t, col.Boxes, 3)
	assert.Empty(t, col.Collapsed)

	want := (100.0 - layout.SliverPercent) / 3.0
	for i, box := range col.Boxes {
		assert.InDelta(t, want, box.WidthPercent, 1e-9)
		assert.InDelta(t, float64(i)*want, box.LeftPercent, 1e-9)
	}
	total := col.Boxes[2].LeftPercent + col.Boxes[2].WidthPercent
	assert.InDelta(t, 100.0-layout.SliverPercent, total, 1e-9)
}

func TestBuildColumn_FourOverlapsCollapse(t *testing.T) {
	g := layout.NewGrid(30, 8, 17)
	items := []layout.Item{
		item(9*60, 10*60),
		item(9*60+10, 9*60+40),
		item(9*60+20, 11*60),
		item(9*60+30, 10*60+30),
	}

	col := layout.BuildColumn(g, items)

	assert.Empty(t, col.Boxes)
	require.Len(t, col.Collapsed, 1)

	box := col.Collapsed[0]
	assert.Equal(t, 4, box.Count)
	assert.InDelta(t, g.TopFor(9*60), box.TopPx, 1e-9)
	assert.InDelta(t, g.HeightFor(2*60), box.HeightPx, 1e-9)
}

func TestBuildColumn_Idempotent(t *testing.T) {
	g := layout.NewGrid(30, 8, 17)
	items := []layout.Item{
		item(9*60, 10*60),
		item(9*60+30, 10*60+30),
		item(14*60, 15*60),
	}

	first := layout.BuildColumn(g, items)
	second := layout.BuildColumn(g, items)

	assert.Equal(t, first, second)
}

func TestOverlays_LateOpenEarlyClose(t *testing.T) {
	g := layout.NewGrid(30, 9, 16)

	overlays := layout.Overlays(g)

	require.Len(t, overlays, 2)
	pxPerHour := 2 * layout.SlotRowPx

	assert.InDelta(t, 0.0, overlays[0].TopPx, 1e-9)
	assert.InDelta(t, pxPerHour, overlays[0].HeightPx, 1e-9)

	assert.InDelta(t, 8*pxPerHour, overlays[1].TopPx, 1e-9)
	assert.InDelta(t, pxPerHour, overlays[1].HeightPx, 1e-9)
}

func TestOverlays_FullWindowHasNone(t *testing.T) {
	g := layout.NewGrid(30, layout.DisplayStartHour, layout.DisplayEndHour)
	assert.Empty(t, layout.Overlays(g))
}

func TestDragSelection_ReversedDragNormalizes(t *testing.T) {
	g := layout.NewGrid(30, 8, 17)

	var d layout.DragSelection
	d.Begin(5)
	d.Extend(2)

	r, ok := d.Commit(g)
	require.True(t, ok)
	assert.Equal(t, 8*60+2*30, r.StartMinutes)
	assert.Equal(t, 8*60+6*30, r.EndMinutes)
	assert.False(t, d.Active())
}

func TestDragSelection_SingleSlot(t *testing.T) {
	g := layout.NewGrid(30, 9, 17)

	var d layout.DragSelection
	d.Begin(0)

	r, ok := d.Commit(g)
	require.True(t, ok)
	assert.Equal(t, 9*60, r.StartMinutes)
	assert.Equal(t, 9*60+30, r.EndMinutes)
}

func TestDragSelection_CancelDropsRange(t *testing.T) {
	g := layout.NewGrid(30, 8, 17)

	var d layout.DragSelection
	d.Begin(3)
	d.Extend(6)
	d.Cancel()

	_, ok := d.Commit(g)
	assert.False(t, ok)
}

func TestDragSelection_ExtendWithoutBeginIgnored(t *testing.T) {
	var d layout.DragSelection
	d.Extend(4)
	assert.False(t, d.Active())
}

func TestGroupMembers_GroupsByLocationSortedByStart(t *testing.T) {
	north1 := layout.Item{ID: uuid.New(), Location: "north", StartMinutes: 10 * 60, EndMinutes: 11 * 60}
	north2 := layout.Item{ID: uuid.New(), Location: "north", StartMinutes: 9 * 60, EndMinutes: 10 * 60}
	south := layout.Item{ID: uuid.New(), Location: "south", StartMinutes: 9*60 + 30, EndMinutes: 10*60 + 30}

	groups := layout.GroupMembers([]layout.Item{north1, south, north2})

	require.Len(t, groups, 2)
	assert.Equal(t, "north", groups[0].Location)
	require.Len(t, groups[0].Items, 2)
	assert.Equal(t, north2.ID, groups[0].Items[0].ID)
	assert.Equal(t, north1.ID, groups[0].Items[1].ID)
	assert.Equal(t, "south", groups[1].Location)
	require.Len(t, groups[1].Items, 1)
}

func TestGroupMembers_TiesBreakOnIdentity(t *testing.T) {
	a := layout.Item{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Location: "north", StartMinutes: 540, EndMinutes: 600}
	b := layout.Item{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Location: "north", StartMinutes: 540, EndMinutes: 600}

	groups := layout.GroupMembers([]layout.Item{b, a})

	require.Len(t, groups, 1)
	assert.Equal(t, a.ID, groups[0].Items[0].ID)
	assert.Equal(t, b.ID, groups[0].Items[1].ID)
}

func TestGroupMembers_Empty(t *testing.T) {
	assert.Nil(t, layout.GroupMembers(nil))
}
