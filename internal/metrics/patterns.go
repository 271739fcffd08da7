package metrics

import (
	"slices"
	"sort"

	"github.com/anzeb/placekeeper/internal/model"
)

// RoutineUnspecified groups placements recorded without a routine label.
const RoutineUnspecified = "unspecified"

// DistributionPatterns partitions placements by distribution type and by
// zone. The per-type counts cover the whole five-value domain, zero-filled;
// per-zone counts only list zones that saw at least one placement.
func DistributionPatterns(placements []model.Placement) model.PatternReport {
	byType := make(map[string]int, len(model.DistributionTypes))
	for _, t := range model.DistributionTypes {
		byType[t] = 0
	}
	byZone := make(map[string]int)
	for _, p := range placements {
		byType[p.Distribution]++
		byZone[p.Zone]++
	}
	return model.PatternReport{ByType: byType, ByZone: byZone}
}

// RoutineInsights groups placements by routine label and summarizes each
// group. Set members and the groups themselves are sorted so repeated runs
// produce identical output.
func RoutineInsights(placements []model.Placement) []model.RoutineInsight {
	type group struct {
		count   int
		zones   map[string]struct{}
		motives map[string]struct{}
		itemIDs map[int64]struct{}
	}
	groups := make(map[string]*group)

	for _, p := range placements {
		routine := p.Routine
		if routine == "" {
			routine = RoutineUnspecified
		}
		g := groups[routine]
		if g == nil {
			g = &group{
				zones:   make(map[string]struct{}),
				motives: make(map[string]struct{}),
				itemIDs: make(map[int64]struct{}),
			}
			groups[routine] = g
		}
		g.count++
		g.zones[p.Zone] = struct{}{}
		if p.Motive != "" {
			g.motives[p.Motive] = struct{}{}
		}
		g.itemIDs[p.ItemID] = struct{}{}
	}

	insights := make([]model.RoutineInsight, 0, len(groups))
	for routine, g := range groups {
		insights = append(insights, model.RoutineInsight{
			Routine: routine,
			Count:   g.count,
			Zones:   sortedKeys(g.zones),
			Motives: sortedKeys(g.motives),
			ItemIDs: sortedIDs(g.itemIDs),
		})
	}
	sort.Slice(insights, func(i, j int) bool { return insights[i].Routine < insights[j].Routine })
	return insights
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
