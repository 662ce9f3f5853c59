package layout

import (
	"bytes"
	"sort"
)

// MemberGroup is one location's slice of a collapsed cluster's members.
type MemberGroup struct {
	Location string
	Items    []Item
}

// GroupMembers lays out a collapsed cluster's member list: items grouped
// by location, groups ordered by the earliest item in each, and items
// within a group sorted by start then identity.
func GroupMembers(items []Item) []MemberGroup {
	if len(items) == 0 {
		return nil
	}

	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartMinutes != sorted[j].StartMinutes {
			return sorted[i].StartMinutes < sorted[j].StartMinutes
		}
		return bytes.Compare(sorted[i].ID[:], sorted[j].ID[:]) < 0
	})

	index := make(map[string]int)
	var groups []MemberGroup
	for _, it := range sorted {
		i, ok := index[it.Location]
		if !ok {
			i = len(groups)
			index[it.Location] = i
			groups = append(groups, MemberGroup{Location: it.Location})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}
