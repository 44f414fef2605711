package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmeta22/MetaHouse/internal/core"
)

// Prebuilt inputs for the common alert shapes.

func ScheduleReminder(eventTitle, memberName string) Input {
	msg := eventTitle
	if memberName != "" {
		msg += " for " + memberName
	}
	return Input{
		Type:        TypeSchedule,
		Title:       "Upcoming Event",
		Message:     msg + " starts in 15 minutes",
		Priority:    PriorityMedium,
		ActionURL:   "/?section=schedule",
		ActionLabel: "View Schedule",
	}
}

func SubscriptionAlert(name string, amount core.Money, due core.Date) Input {
	return Input{
		Type:        TypeSubscription,
		Title:       "Subscription Due",
		Message:     fmt.Sprintf("%s payment of $%s is due %s", name, amount, due),
		Priority:    PriorityHigh,
		ActionURL:   "/?section=financial",
		ActionLabel: "Manage Subscriptions",
	}
}

func TaskReminder(title, assignee string, due core.Date) Input {
	return Input{
		Type:        TypeTask,
		Title:       "Task Due Soon",
		Message:     fmt.Sprintf("%q assigned to %s is due %s", title, assignee, due),
		Priority:    PriorityMedium,
		ActionURL:   "/?section=activities",
		ActionLabel: "View Tasks",
	}
}

func FamilyUpdate(memberName, action string) Input {
	return Input{
		Type:        TypeFamily,
		Title:       "Family Update",
		Message:     memberName + " " + action,
		Priority:    PriorityLow,
		ActionURL:   "/?section=family",
		ActionLabel: "View Family",
	}
}

// RecordMutation consumes a domain event from the gateway's mutation path
// and turns it into an in-app alert, honoring the per-category settings.
func (e *Engine) RecordMutation(ctx context.Context, entity, op, title string) {
	var in Input
	switch entity {
	case "task":
		in = Input{Type: TypeTask, Title: "Task " + pastTense(op), Priority: PriorityMedium}
	case "event":
		in = Input{Type: TypeSchedule, Title: "Event " + pastTense(op), Priority: PriorityMedium}
	case "subscription":
		in = Input{Type: TypeSubscription, Title: "Subscription " + pastTense(op), Priority: PriorityMedium}
	case "family_member":
		in = Input{Type: TypeFamily, Title: "Family " + pastTense(op), Priority: PriorityLow}
	default:
		in = Input{Type: TypeSystem, Title: capitalize(entity) + " " + pastTense(op), Priority: PriorityLow}
	}
	if title != "" {
		in.Message = title
	} else {
		in.Message = "A " + entity + " record was " + pastTense(op)
	}

	if !e.Settings().enabledFor(in.Type) {
		return
	}
	e.Add(ctx, in)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func pastTense(op string) string {
	switch op {
	case "create":
		return "created"
	case "update":
		return "updated"
	case "delete":
		return "deleted"
	default:
		return op
	}
}
