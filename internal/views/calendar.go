// Package views computes derived read models over entity store snapshots:
// calendar day buckets, financial rollups and per-member activity counts.
// Everything here is a pure function; nothing mutates the store.
package views

import (
	"sort"

	"github.com/tmeta22/MetaHouse/internal/core"
)

type ItemKind string

const (
	KindEvent ItemKind = "event"
	KindTask  ItemKind = "task"
)

// DayItem is one entry in a calendar day bucket. Exactly one of Event or
// Task is set, matching Kind, so the UI can render type-specific affordances.
type DayItem struct {
	Kind  ItemKind       `json:"kind"`
	Time  core.TimeOfDay `json:"time"`
	Event *core.Event    `json:"event,omitempty"`
	Task  *core.Task     `json:"task,omitempty"`
}

// DayItems merges the events scheduled on date with the tasks due that date.
// Events keep their natural time order; tasks get the synthetic end-of-day
// display time so they always trail timed entries.
func DayItems(events []core.Event, tasks []core.Task, date core.Date) []DayItem {
	var items []DayItem

	for i := range events {
		if !events[i].Date.SameDay(date) {
			continue
		}
		e := events[i]
		items = append(items, DayItem{Kind: KindEvent, Time: e.Time, Event: &e})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Time.MinutesOrDefault(0) < items[j].Time.MinutesOrDefault(0)
	})

	for i := range tasks {
		if !tasks[i].DueDate.SameDay(date) {
			continue
		}
		t := tasks[i]
		items = append(items, DayItem{Kind: KindTask, Time: core.EndOfDay, Task: &t})
	}

	return items
}
