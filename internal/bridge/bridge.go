// Package bridge projects planning records (trips and parties) into calendar
// events. The projection is one-way and runs only when a record is newly
// added: editing or deleting a trip does not retract the events it produced.
package bridge

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmeta22/MetaHouse/internal/core"
	"github.com/tmeta22/MetaHouse/internal/log"
)

const (
	tripStartTime core.TimeOfDay = "09:00"
	tripEndTime   core.TimeOfDay = "18:00"
)

var partyEmojis = map[core.PartyType]string{
	core.PartyBirthday:    "🎂",
	core.PartyAnniversary: "💕",
	core.PartyHoliday:     "🎄",
	core.PartyCelebration: "🎉",
	core.PartyGathering:   "👥",
	core.PartyOther:       "🎊",
}

// EventCreator is the gateway's event create path.
type EventCreator interface {
	AddEvent(ctx context.Context, e core.Event) error
}

type Bridge struct {
	events EventCreator
	logger *log.Logger
}

func New(events EventCreator, logger *log.Logger) *Bridge {
	return &Bridge{
		events: events,
		logger: logger.WithComponent(log.ComponentBridge),
	}
}

// TripEvents converts a trip into its calendar events: a start event on the
// start date and, when the end date differs, a separate end event.
func TripEvents(trip core.Trip) []core.Event {
	events := []core.Event{{
		Title:       "🧳 Trip Start: " + trip.Title,
		Date:        trip.StartDate,
		Time:        tripStartTime,
		Member:      trip.Organizer,
		Category:    core.CategoryFamily,
		Description: strings.TrimSpace("Trip to " + trip.Destination + ". " + trip.Description),
	}}

	if !trip.EndDate.SameDay(trip.StartDate) {
		events = append(events, core.Event{
			Title:       "🏠 Trip End: " + trip.Title,
			Date:        trip.EndDate,
			Time:        tripEndTime,
			Member:      trip.Organizer,
			Category:    core.CategoryFamily,
			Description: "Return from " + trip.Destination,
		})
	}

	return events
}

// PartyEvent converts a party into exactly one calendar event, with a
// type-specific emoji prefix and a summary of type and location.
func PartyEvent(party core.Party) core.Event {
	emoji, ok := partyEmojis[party.Type]
	if !ok {
		emoji = partyEmojis[core.PartyOther]
	}
	desc := fmt.Sprintf("%s at %s.", capitalize(string(party.Type)), party.Location)
	if party.Description != "" {
		desc += " " + party.Description
	}
	return core.Event{
		Title:       emoji + " " + party.Title,
		Date:        party.Date,
		Time:        party.Time,
		Member:      party.Organizer,
		Category:    core.CategoryFamily,
		Description: desc,
	}
}

// TripAdded submits the trip's events through the gateway. A partial failure
// is logged and otherwise ignored; there is no compensating rollback.
func (b *Bridge) TripAdded(ctx context.Context, trip core.Trip) {
	for _, e := range TripEvents(trip) {
		if err := b.events.AddEvent(ctx, e); err != nil {
			b.logger.WarnContext(ctx, "Calendar projection failed for trip event",
				log.FieldTitle, e.Title,
				log.FieldDate, e.Date.String(),
				log.FieldError, err)
		}
	}
}

// PartyAdded submits the party's event through the gateway.
func (b *Bridge) PartyAdded(ctx context.Context, party core.Party) {
	e := PartyEvent(party)
	if err := b.events.AddEvent(ctx, e); err != nil {
		b.logger.WarnContext(ctx, "Calendar projection failed for party event",
			log.FieldTitle, e.Title,
			log.FieldDate, e.Date.String(),
			log.FieldError, err)
	}
}

// IsGeneratedEvent reports whether a calendar event title looks like one the
// bridge produced. Used by the UI to label projected entries.
func IsGeneratedEvent(title string) bool {
	prefixes := []string{"🧳 Trip Start:", "🏠 Trip End:"}
	for _, p := range prefixes {
		if strings.Contains(title, p) {
			return true
		}
	}
	for _, emoji := range partyEmojis {
		if strings.Contains(title, emoji) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
