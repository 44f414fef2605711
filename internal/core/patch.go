package core

// Partial-field updates. Nil pointers are omitted from the PUT body, so the
// datastore only touches the fields the caller actually set; every update
// refreshes the record's last-modified timestamp server-side.

type TaskPatch struct {
	Title     *string   `json:"title,omitempty"`
	Assignee  *string   `json:"assignee,omitempty"`
	DueDate   *Date     `json:"dueDate,omitempty"`
	Priority  *Priority `json:"priority,omitempty"`
	Completed *bool     `json:"completed,omitempty"`
}

type EventPatch struct {
	Title       *string        `json:"title,omitempty"`
	Date        *Date          `json:"date,omitempty"`
	Time        *TimeOfDay     `json:"time,omitempty"`
	Member      *string        `json:"member,omitempty"`
	Category    *EventCategory `json:"category,omitempty"`
	Description *string        `json:"description,omitempty"`
}

type SubscriptionPatch struct {
	Name         *string               `json:"name,omitempty"`
	Cost         *Money                `json:"cost,omitempty"`
	BillingCycle *BillingCycle         `json:"billingCycle,omitempty"`
	Category     *SubscriptionCategory `json:"category,omitempty"`
	Status       *SubscriptionStatus   `json:"status,omitempty"`
	NextPayment  *Date                 `json:"nextPayment,omitempty"`
	Website      *string               `json:"website,omitempty"`
	Description  *string               `json:"description,omitempty"`
}

type FamilyMemberPatch struct {
	Name  *string `json:"name,omitempty"`
	Role  *string `json:"role,omitempty"`
	Email *string `json:"email,omitempty"`
}

type TransactionPatch struct {
	Type        *TransactionType `json:"type,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Amount      *Money           `json:"amount,omitempty"`
	Description *string          `json:"description,omitempty"`
	Date        *Date            `json:"date,omitempty"`
	Member      *string          `json:"member,omitempty"`
}
