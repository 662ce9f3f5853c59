package layout

import "sort"

// Cluster is a maximal run of items whose time ranges chain together:
// each item starts before the latest end seen so far in the run.
type Cluster struct {
	Items        []Item
	StartMinutes int
	EndMinutes   int
}

// Size returns the number of items in the cluster.
func (c Cluster) Size() int { return len(c.Items) }

// BuildClusters groups items with a single sweep over the start-sorted
// list. Touching ranges (end == next start) do not chain.
func BuildClusters(items []Item) []Cluster {
	if len(items) == 0 {
		return nil
	}

	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartMinutes != sorted[j].StartMinutes {
			return sorted[i].StartMinutes < sorted[j].StartMinutes
		}
		return sorted[i].EndMinutes < sorted[j].EndMinutes
	})

	var clusters []Cluster
	current := Cluster{
		Items:        []Item{sorted[0]},
		StartMinutes: sorted[0].StartMinutes,
		EndMinutes:   sorted[0].EndMinutes,
	}
	for _, it := range sorted[1:] {
		if it.StartMinutes < current.EndMinutes {
			current.Items = append(current.Items, it)
			if it.EndMinutes > current.EndMinutes {
				current.EndMinutes = it.EndMinutes
			}
			continue
		}
		clusters = append(clusters, current)
		current = Cluster{
			Items:        []Item{it},
			StartMinutes: it.StartMinutes,
			EndMinutes:   it.EndMinutes,
		}
	}
	return append(clusters, current)
}
