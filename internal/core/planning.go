package core

import "strings"

// Planning records. Trips and parties are persisted by the remote datastore
// like the five main entity kinds, but they are never held in the entity
// store; the calendar bridge projects them into Events at creation time.

const (
	PlanningDraft     PlanningStatus = "planning"
	PlanningConfirmed PlanningStatus = "confirmed"
	PlanningOngoing   PlanningStatus = "ongoing"
	PlanningCompleted PlanningStatus = "completed"
	PlanningCancelled PlanningStatus = "cancelled"
)

const (
	PartyBirthday    PartyType = "birthday"
	PartyAnniversary PartyType = "anniversary"
	PartyHoliday     PartyType = "holiday"
	PartyCelebration PartyType = "celebration"
	PartyGathering   PartyType = "gathering"
	PartyOther       PartyType = "other"
)

type (
	PlanningStatus string
	PartyType      string

	// Trip is a planned family trip with a start and end date.
	Trip struct {
		ID          string         `json:"id"`
		Title       string         `json:"title"`
		Destination string         `json:"destination"`
		StartDate   Date           `json:"startDate"`
		EndDate     Date           `json:"endDate"`
		Budget      Money          `json:"budget,omitempty"`
		Status      PlanningStatus `json:"status"`
		Description string         `json:"description,omitempty"`
		Organizer   string         `json:"organizer"`
		CreatedAt   string         `json:"createdAt,omitempty"`
		UpdatedAt   string         `json:"updatedAt,omitempty"`
	}

	// Party is a planned celebration on a single date.
	Party struct {
		ID          string         `json:"id"`
		Title       string         `json:"title"`
		Type        PartyType      `json:"type"`
		Date        Date           `json:"date"`
		Time        TimeOfDay      `json:"time"`
		Location    string         `json:"location"`
		Budget      Money          `json:"budget,omitempty"`
		GuestCount  int            `json:"guestCount"`
		Status      PlanningStatus `json:"status"`
		Description string         `json:"description,omitempty"`
		Organizer   string         `json:"organizer"`
		CreatedAt   string         `json:"createdAt,omitempty"`
		UpdatedAt   string         `json:"updatedAt,omitempty"`
	}
)

func (s PlanningStatus) Valid() bool {
	switch s {
	case PlanningDraft, PlanningConfirmed, PlanningOngoing, PlanningCompleted, PlanningCancelled:
		return true
	}
	return false
}

func (t PartyType) Valid() bool {
	switch t {
	case PartyBirthday, PartyAnniversary, PartyHoliday, PartyCelebration, PartyGathering, PartyOther:
		return true
	}
	return false
}

func (t Trip) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(t.Organizer) == "" {
		return ErrEmptyOrganizer
	}
	if err := t.StartDate.Validate(); err != nil {
		return err
	}
	if err := t.EndDate.Validate(); err != nil {
		return err
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (p Party) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(p.Organizer) == "" {
		return ErrEmptyOrganizer
	}
	if !p.Type.Valid() {
		return ErrInvalidType
	}
	if err := p.Date.Validate(); err != nil {
		return err
	}
	if err := p.Time.Validate(); err != nil {
		return err
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
