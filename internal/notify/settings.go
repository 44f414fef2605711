package notify

import "github.com/tmeta22/MetaHouse/internal/core"

// Settings are the cross-session notification preferences. They are
// persisted as one JSON blob in local storage and reloaded at startup;
// a corrupt blob silently falls back to defaults.
type Settings struct {
	EnableBrowserNotifications bool `json:"enableBrowserNotifications"`
	EnablePushNotifications    bool `json:"enablePushNotifications"`
	EnableScheduleReminders    bool `json:"enableScheduleReminders"`
	EnableSubscriptionAlerts   bool `json:"enableSubscriptionAlerts"`
	EnableTaskReminders        bool `json:"enableTaskReminders"`
	EnableFamilyUpdates        bool `json:"enableFamilyUpdates"`

	ReminderMinutesBefore int `json:"reminderMinutesBefore"`

	// Quiet hours suppress platform popups, never the in-app log. A start
	// later than the end means the window wraps past midnight.
	QuietHoursStart core.TimeOfDay `json:"quietHoursStart"`
	QuietHoursEnd   core.TimeOfDay `json:"quietHoursEnd"`
}

func DefaultSettings() Settings {
	return Settings{
		EnableBrowserNotifications: true,
		EnablePushNotifications:    false,
		EnableScheduleReminders:    true,
		EnableSubscriptionAlerts:   true,
		EnableTaskReminders:        true,
		EnableFamilyUpdates:        true,
		ReminderMinutesBefore:      15,
		QuietHoursStart:            "22:00",
		QuietHoursEnd:              "07:00",
	}
}

// enabledFor reports whether this notification category is switched on.
func (s Settings) enabledFor(t Type) bool {
	switch t {
	case TypeSchedule:
		return s.EnableScheduleReminders
	case TypeSubscription:
		return s.EnableSubscriptionAlerts
	case TypeTask:
		return s.EnableTaskReminders
	case TypeFamily:
		return s.EnableFamilyUpdates
	default:
		return true
	}
}
