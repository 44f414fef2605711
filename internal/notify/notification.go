package notify

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Notification type and priority enums.
const (
	TypeSchedule     Type = "schedule"
	TypeSubscription Type = "subscription"
	TypeTask         Type = "task"
	TypeFamily       Type = "family"
	TypeReminder     Type = "reminder"
	TypeSystem       Type = "system"
)

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type (
	Type     string
	Priority string

	// Notification is one entry in the in-app alert log. The log is
	// independent of entity lifecycles; removing a task does not remove
	// notifications that mention it.
	Notification struct {
		ID          string    `json:"id"`
		Type        Type      `json:"type"`
		Title       string    `json:"title"`
		Message     string    `json:"message"`
		Priority    Priority  `json:"priority"`
		Timestamp   time.Time `json:"timestamp"`
		Read        bool      `json:"read"`
		ActionURL   string    `json:"actionUrl,omitempty"`
		ActionLabel string    `json:"actionLabel,omitempty"`
		ExpiresAt   time.Time `json:"expiresAt,omitempty"`
	}

	// Input is a notification before the engine assigns identity, creation
	// time and read state.
	Input struct {
		Type        Type
		Title       string
		Message     string
		Priority    Priority
		ActionURL   string
		ActionLabel string
		ExpiresAt   time.Time
	}
)

// newID generates a unique notification identifier.
func newID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("ntf_%d", time.Now().UnixNano())
	}
	return "ntf_" + hex.EncodeToString(bytes)
}
