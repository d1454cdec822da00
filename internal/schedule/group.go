package schedule

import "sort"

// OverlapGroup is a cluster of same-day occurrences whose time intervals
// transitively overlap, sorted by start time. The groups returned for a day
// partition that day's occurrences.
type OverlapGroup []Occurrence

// Group partitions occurrences into transitively-overlapping clusters.
// Two occurrences overlap strictly: start1 < end2 && start2 < end1, so
// touching endpoints do not connect. Output order is deterministic:
// components appear in order of their first member's input index, and
// members are stably sorted by start time (input index breaks ties).
func Group(occs []Occurrence) []OverlapGroup {
	if len(occs) == 0 {
		return nil
	}

	// Index-based adjacency over the input list.
	adj := make([][]int, len(occs))
	for i := 0; i < len(occs); i++ {
		for j := i + 1; j < len(occs); j++ {
			if overlaps(occs[i], occs[j]) {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}

	visited := make([]bool, len(occs))
	var groups []OverlapGroup
	for i := range occs {
		if visited[i] {
			continue
		}
		// Iterative DFS over one connected component.
		var member []int
		stack := []int{i}
		visited[i] = true
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			member = append(member, n)
			for _, m := range adj[n] {
				if !visited[m] {
					visited[m] = true
					stack = append(stack, m)
				}
			}
		}

		// Sort members by start time; input index keeps ties stable.
		sort.Slice(member, func(a, b int) bool {
			sa, sb := occs[member[a]].Start, occs[member[b]].Start
			if sa.Equal(sb) {
				return member[a] < member[b]
			}
			return sa.Before(sb)
		})

		group := make(OverlapGroup, len(member))
		for k, idx := range member {
			group[k] = occs[idx]
		}
		groups = append(groups, group)
	}
	return groups
}

// GroupOf finds the group containing the occurrence with the given ID and
// start time, plus its index within that group.
func GroupOf(groups []OverlapGroup, occ Occurrence) (OverlapGroup, int) {
	for _, g := range groups {
		for i, member := range g {
			if member.ID == occ.ID && member.Start.Equal(occ.Start) {
				return g, i
			}
		}
	}
	return OverlapGroup{occ}, 0
}

func overlaps(a, b Occurrence) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}
