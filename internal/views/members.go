package views

import (
	"time"

	"github.com/tmeta22/MetaHouse/internal/core"
)

// MemberActivity pairs a family member with their current workload: open
// tasks assigned to them and events of theirs still ahead of now.
type MemberActivity struct {
	Member         core.FamilyMember `json:"member"`
	OpenTasks      int               `json:"openTasks"`
	UpcomingEvents int               `json:"upcomingEvents"`
}

// Activity computes per-member aggregates. Tasks count when assigned to the
// member and not completed; events count when they belong to the member and
// fall on a day strictly after now's calendar day.
func Activity(members []core.FamilyMember, tasks []core.Task, events []core.Event, now time.Time) []MemberActivity {
	today := core.NewDate(now.Year(), int(now.Month()), now.Day())

	out := make([]MemberActivity, 0, len(members))
	for _, m := range members {
		a := MemberActivity{Member: m}
		for _, t := range tasks {
			if t.Assignee == m.Name && !t.Completed {
				a.OpenTasks++
			}
		}
		for _, e := range events {
			if e.Member == m.Name && e.Date.After(today.Time) {
				a.UpcomingEvents++
			}
		}
		out = append(out, a)
	}
	return out
}
