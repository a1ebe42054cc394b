package schedule

import (
	"sort"
	"time"

	"github.com/coolcare/coolcare/internal/models"
)

type groupKey struct {
	client   string
	location string
}

// GroupByClientLocation partitions obligations into buckets keyed by
// the literal (client name, location name) pair; names are not
// normalized, callers supply consistent denormalized strings. Within a
// group the same device is kept at most once using the overdue
// resolution rule. Group order follows first appearance in the input;
// aggregates are recomputed from each group's final member set.
func GroupByClientLocation(obligations []models.Obligation, now time.Time) []models.ClientLocationGroup {
	groups := make([]models.ClientLocationGroup, 0)
	groupIndex := make(map[groupKey]int)
	memberIndex := make(map[groupKey]map[string]int)

	for _, ob := range obligations {
		key := groupKey{client: ob.ClientName, location: ob.LocationName}
		gi, seen := groupIndex[key]
		if !seen {
			gi = len(groups)
			groupIndex[key] = gi
			memberIndex[key] = make(map[string]int)
			groups = append(groups, models.ClientLocationGroup{
				ClientName:   ob.ClientName,
				LocationName: ob.LocationName,
			})
		}

		members := memberIndex[key]
		mi, dup := members[ob.DeviceID]
		if !dup {
			members[ob.DeviceID] = len(groups[gi].Members)
			groups[gi].Members = append(groups[gi].Members, ob)
		} else if moreUrgent(ob, groups[gi].Members[mi], now) {
			groups[gi].Members[mi] = ob
		}
	}

	for i := range groups {
		recomputeAggregates(&groups[i], now)
	}
	return groups
}

// recomputeAggregates rebuilds the derived fields from the final member
// set, so re-grouping the same members is idempotent.
func recomputeAggregates(group *models.ClientLocationGroup, now time.Time) {
	group.Count = len(group.Members)
	group.MaxDaysOverdue = 0
	group.EarliestDueDate = time.Time{}
	for _, member := range group.Members {
		if d := DaysOverdue(member.DueDate, now); d > group.MaxDaysOverdue {
			group.MaxDaysOverdue = d
		}
		if group.EarliestDueDate.IsZero() || member.DueDate.Before(group.EarliestDueDate) {
			group.EarliestDueDate = member.DueDate
		}
	}
}

// SortGroupsByEarliestDue orders groups ascending by earliest due date,
// the default presentation for due-soon views. Overdue views keep input
// order, urgency there is already encoded per item.
func SortGroupsByEarliestDue(groups []models.ClientLocationGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].EarliestDueDate.Before(groups[j].EarliestDueDate)
	})
}
