package layout

// Box is a single rendered event. Vertical position is in pixels from
// the top of the grid; horizontal position is in percent of the column.
type Box struct {
	Item         Item
	TopPx        float64
	HeightPx     float64
	LeftPercent  float64
	WidthPercent float64
}

// CollapsedBox summarizes a cluster too crowded to render side by side.
// It spans the cluster's full time range and reports the member count.
type CollapsedBox struct {
	Items    []Item
	Count    int
	TopPx    float64
	HeightPx float64
}

// Column is the fully positioned day view for one rendering column.
type Column struct {
	Boxes     []Box
	Collapsed []CollapsedBox
}

// BuildColumn clusters the items and positions each cluster. Clusters of
// up to CollapseThreshold items split the column width evenly, keeping
// the sliver gutter free; larger clusters collapse into one summary box.
func BuildColumn(g Grid, items []Item) Column {
	var col Column
	for _, cluster := range BuildClusters(items) {
		if cluster.Size() > CollapseThreshold {
			col.Collapsed = append(col.Collapsed, CollapsedBox{
				Items:    cluster.Items,
				Count:    cluster.Size(),
				TopPx:    g.TopFor(cluster.StartMinutes),
				HeightPx: g.HeightFor(cluster.EndMinutes - cluster.StartMinutes),
			})
			continue
		}

		width := (100.0 - SliverPercent) / float64(cluster.Size())
		for i, it := range cluster.Items {
			col.Boxes = append(col.Boxes, Box{
				Item:         it,
				TopPx:        g.TopFor(it.StartMinutes),
				HeightPx:     g.HeightFor(it.Duration()),
				LeftPercent:  float64(i) * width,
				WidthPercent: width,
			})
		}
	}
	return col
}
