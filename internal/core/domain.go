package core

import (
	"errors"
	"strings"
)

// Enumerated attribute values. The remote datastore enforces the same sets;
// validating here keeps bad form input from ever reaching the wire.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

const (
	CategoryPersonal EventCategory = "personal"
	CategoryWork     EventCategory = "work"
	CategoryFamily   EventCategory = "family"
	CategoryHealth   EventCategory = "health"
	CategorySocial   EventCategory = "social"
)

const (
	BillingWeekly    BillingCycle = "weekly"
	BillingMonthly   BillingCycle = "monthly"
	BillingQuarterly BillingCycle = "quarterly"
	BillingYearly    BillingCycle = "yearly"
)

const (
	SubCategoryEntertainment SubscriptionCategory = "entertainment"
	SubCategoryProductivity  SubscriptionCategory = "productivity"
	SubCategoryUtilities     SubscriptionCategory = "utilities"
	SubCategoryHealth        SubscriptionCategory = "health"
	SubCategoryEducation     SubscriptionCategory = "education"
	SubCategoryOther         SubscriptionCategory = "other"
)

const (
	StatusActive    SubscriptionStatus = "active"
	StatusPaused    SubscriptionStatus = "paused"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusDue       SubscriptionStatus = "due"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

type (
	Priority             string
	EventCategory        string
	BillingCycle         string
	SubscriptionCategory string
	SubscriptionStatus   string
	TransactionType      string

	// Task is a household chore assigned to a family member.
	Task struct {
		ID        string   `json:"id"`
		Title     string   `json:"title"`
		Assignee  string   `json:"assignee"`
		DueDate   Date     `json:"dueDate"`
		Priority  Priority `json:"priority"`
		Completed bool     `json:"completed"`
		CreatedAt string   `json:"createdAt,omitempty"`
		UpdatedAt string   `json:"updatedAt,omitempty"`
	}

	// Event is a calendar entry for one member on one date.
	Event struct {
		ID          string        `json:"id"`
		Title       string        `json:"title"`
		Date        Date          `json:"date"`
		Time        TimeOfDay     `json:"time"`
		Member      string        `json:"member"`
		Category    EventCategory `json:"category"`
		Description string        `json:"description,omitempty"`
		CreatedAt   string        `json:"createdAt,omitempty"`
		UpdatedAt   string        `json:"updatedAt,omitempty"`
	}

	// Subscription is a recurring payment tracked for the household.
	Subscription struct {
		ID           string               `json:"id"`
		Name         string               `json:"name"`
		Cost         Money                `json:"cost"`
		BillingCycle BillingCycle         `json:"billingCycle"`
		Category     SubscriptionCategory `json:"category"`
		Status       SubscriptionStatus   `json:"status"`
		NextPayment  Date                 `json:"nextPayment"`
		Website      string               `json:"website,omitempty"`
		Description  string               `json:"description,omitempty"`
		CreatedAt    string               `json:"createdAt,omitempty"`
		UpdatedAt    string               `json:"updatedAt,omitempty"`
	}

	// FamilyMember is a person in the household. Tasks and Upcoming are
	// datastore-derived counters, never written by this client.
	FamilyMember struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Role      string `json:"role"`
		Email     string `json:"email,omitempty"`
		Tasks     int    `json:"tasks"`
		Upcoming  int    `json:"upcoming"`
		CreatedAt string `json:"createdAt,omitempty"`
		UpdatedAt string `json:"updatedAt,omitempty"`
	}

	// Transaction is a single income or expense record.
	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Amount      Money           `json:"amount"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
		Member      string          `json:"member"`
		CreatedAt   string          `json:"createdAt,omitempty"`
		UpdatedAt   string          `json:"updatedAt,omitempty"`
	}
)

var (
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyAssignee    = errors.New("empty assignee")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyMember      = errors.New("empty member")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyOrganizer   = errors.New("empty organizer")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidCycle     = errors.New("invalid billing cycle")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidType      = errors.New("invalid type")
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func (c EventCategory) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryFamily, CategoryHealth, CategorySocial:
		return true
	}
	return false
}

func (b BillingCycle) Valid() bool {
	switch b {
	case BillingWeekly, BillingMonthly, BillingQuarterly, BillingYearly:
		return true
	}
	return false
}

func (c SubscriptionCategory) Valid() bool {
	switch c {
	case SubCategoryEntertainment, SubCategoryProductivity, SubCategoryUtilities,
		SubCategoryHealth, SubCategoryEducation, SubCategoryOther:
		return true
	}
	return false
}

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCancelled, StatusDue:
		return true
	}
	return false
}

func (t TransactionType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense:
		return true
	}
	return false
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(t.Assignee) == "" {
		return ErrEmptyAssignee
	}
	if err := t.DueDate.Validate(); err != nil {
		return err
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(e.Member) == "" {
		return ErrEmptyMember
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Time.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if err := s.Cost.Validate(); err != nil {
		return err
	}
	if !s.BillingCycle.Valid() {
		return ErrInvalidCycle
	}
	if !s.Category.Valid() {
		return ErrInvalidCategory
	}
	if !s.Status.Valid() {
		return ErrInvalidStatus
	}
	return s.NextPayment.Validate()
}

func (m FamilyMember) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Member) == "" {
		return ErrEmptyMember
	}
	return nil
}
