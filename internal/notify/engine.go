// Package notify maintains the in-app notification log: a most-recent-first
// list of alerts with read/unread state, persisted locally, optionally
// mirrored to a platform-level popup when settings, permission and quiet
// hours all allow it.
package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/tmeta22/MetaHouse/internal/core"
	"github.com/tmeta22/MetaHouse/internal/log"
	"github.com/tmeta22/MetaHouse/internal/platform"
	"github.com/tmeta22/MetaHouse/internal/storage"
)

// Store is the slice of local durable storage the engine needs.
type Store interface {
	NotificationSettings(ctx context.Context) (string, bool, error)
	SaveNotificationSettings(ctx context.Context, blob string) error
	InsertNotification(ctx context.Context, n storage.NotificationRecord) error
	ListNotifications(ctx context.Context) ([]storage.NotificationRecord, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
	ClearNotifications(ctx context.Context) error
	DeleteExpiredNotifications(ctx context.Context, now time.Time) (int64, error)
}

type Engine struct {
	store  Store
	pusher platform.Pusher
	logger *log.Logger
	now    func() time.Time

	mu            sync.Mutex
	notifications []Notification // most recent first
	settings      Settings
	permission    bool
	subscribed    bool

	stopSweep chan struct{}
	sweepDone chan struct{}
}

// NewEngine builds the engine and restores settings and the notification log
// from local storage. Storage failures degrade to defaults and an empty log;
// they never prevent the engine from starting.
func NewEngine(ctx context.Context, store Store, pusher platform.Pusher, logger *log.Logger) *Engine {
	e := &Engine{
		store:    store,
		pusher:   pusher,
		logger:   logger.WithComponent(log.ComponentNotify),
		now:      time.Now,
		settings: DefaultSettings(),
	}

	if blob, ok, err := store.NotificationSettings(ctx); err != nil {
		e.logger.WarnContext(ctx, "Failed to load notification settings, using defaults",
			log.FieldError, err)
	} else if ok {
		var s Settings
		if err := json.Unmarshal([]byte(blob), &s); err != nil {
			e.logger.WarnContext(ctx, "Corrupt notification settings, using defaults",
				log.FieldError, err)
		} else {
			e.settings = s
		}
	}

	records, err := store.ListNotifications(ctx)
	if err != nil {
		e.logger.WarnContext(ctx, "Failed to load notification log",
			log.FieldError, err)
	}
	for _, rec := range records {
		e.notifications = append(e.notifications, fromRecord(rec))
	}

	return e
}

// SetClock overrides the engine's time source. Intended for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// Add appends a notification to the log and, when allowed, mirrors it as a
// platform popup. The log entry is always recorded even when delivery is
// suppressed or fails.
func (e *Engine) Add(ctx context.Context, in Input) Notification {
	e.mu.Lock()
	n := Notification{
		ID:          newID(),
		Type:        in.Type,
		Title:       in.Title,
		Message:     in.Message,
		Priority:    in.Priority,
		Timestamp:   e.now(),
		Read:        false,
		ActionURL:   in.ActionURL,
		ActionLabel: in.ActionLabel,
		ExpiresAt:   in.ExpiresAt,
	}
	e.notifications = append([]Notification{n}, e.notifications...)
	deliver := e.settings.EnableBrowserNotifications && e.permission &&
		!InQuietWindow(e.settings.QuietHoursStart, e.settings.QuietHoursEnd, n.Timestamp)
	e.mu.Unlock()

	if err := e.store.InsertNotification(ctx, toRecord(n)); err != nil {
		e.logger.WarnContext(ctx, "Failed to persist notification",
			log.FieldNotifID, n.ID,
			log.FieldError, err)
	}

	if deliver {
		e.showPlatform(ctx, n)
	}

	return n
}

func (e *Engine) showPlatform(ctx context.Context, n Notification) {
	err := e.pusher.SendLocal(ctx, platform.Payload{
		Title:              n.Title,
		Body:               n.Message,
		Tag:                n.ID,
		URL:                n.ActionURL,
		RequireInteraction: n.Priority == PriorityUrgent,
		Silent:             n.Priority == PriorityLow,
	})
	if err != nil {
		// Popup failure is non-fatal; the log already holds the entry.
		e.logger.DebugContext(ctx, "Platform notification skipped",
			log.FieldNotifID, n.ID,
			log.FieldError, err)
	}
}

// InQuietWindow reports whether at falls inside the quiet-hours window.
// A start later than the end wraps past midnight: 22:00-07:00 covers
// 22:00-23:59 and 00:00-07:00. Malformed bounds disable suppression.
func InQuietWindow(start, end core.TimeOfDay, at time.Time) bool {
	s := start.MinutesOrDefault(-1)
	eMin := end.MinutesOrDefault(-1)
	if s < 0 || eMin < 0 {
		return false
	}
	cur := at.Hour()*60 + at.Minute()
	if s > eMin {
		return cur >= s || cur <= eMin
	}
	return cur >= s && cur <= eMin
}

// Notifications returns the log, most recent first.
func (e *Engine) Notifications() []Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Notification(nil), e.notifications...)
}

// UnreadCount returns how many notifications are still unread.
func (e *Engine) UnreadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for _, n := range e.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead marks a single notification as read. Unknown ids are a no-op.
func (e *Engine) MarkRead(ctx context.Context, id string) {
	e.mu.Lock()
	for i := range e.notifications {
		if e.notifications[i].ID == id {
			e.notifications[i].Read = true
			break
		}
	}
	e.mu.Unlock()

	if err := e.store.MarkNotificationRead(ctx, id); err != nil {
		e.logger.WarnContext(ctx, "Failed to persist read state",
			log.FieldNotifID, id,
			log.FieldError, err)
	}
}

// MarkAllRead marks every notification as read.
func (e *Engine) MarkAllRead(ctx context.Context) {
	e.mu.Lock()
	for i := range e.notifications {
		e.notifications[i].Read = true
	}
	e.mu.Unlock()

	if err := e.store.MarkAllNotificationsRead(ctx); err != nil {
		e.logger.WarnContext(ctx, "Failed to persist read state", log.FieldError, err)
	}
}

// Remove dismisses one notification. Removed entries never resurface.
func (e *Engine) Remove(ctx context.Context, id string) {
	e.mu.Lock()
	for i := range e.notifications {
		if e.notifications[i].ID == id {
			e.notifications = append(e.notifications[:i], e.notifications[i+1:]...)
			break
		}
	}
	e.mu.Unlock()

	if err := e.store.DeleteNotification(ctx, id); err != nil {
		e.logger.WarnContext(ctx, "Failed to delete notification",
			log.FieldNotifID, id,
			log.FieldError, err)
	}
}

// ClearAll empties the log.
func (e *Engine) ClearAll(ctx context.Context) {
	e.mu.Lock()
	e.notifications = nil
	e.mu.Unlock()

	if err := e.store.ClearNotifications(ctx); err != nil {
		e.logger.WarnContext(ctx, "Failed to clear notifications", log.FieldError, err)
	}
}

// Settings returns the current preferences.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// UpdateSettings replaces the preferences and persists them.
func (e *Engine) UpdateSettings(ctx context.Context, s Settings) {
	e.mu.Lock()
	e.settings = s
	e.mu.Unlock()
	e.persistSettings(ctx)
}

func (e *Engine) persistSettings(ctx context.Context) {
	e.mu.Lock()
	blob, err := json.Marshal(e.settings)
	e.mu.Unlock()
	if err != nil {
		e.logger.WarnContext(ctx, "Failed to encode settings", log.FieldError, err)
		return
	}
	if err := e.store.SaveNotificationSettings(ctx, string(blob)); err != nil {
		e.logger.WarnContext(ctx, "Failed to persist settings", log.FieldError, err)
	}
}

// RequestPermission asks the platform for notification permission and
// remembers the answer. Denial is non-fatal.
func (e *Engine) RequestPermission(ctx context.Context) bool {
	granted, err := e.pusher.RequestPermission(ctx)
	if err != nil {
		e.logger.WarnContext(ctx, "Permission request failed", log.FieldError, err)
		granted = false
	}
	e.mu.Lock()
	e.permission = granted
	e.mu.Unlock()
	return granted
}

// SubscribeToPush turns push delivery on. On any failure push stays disabled
// and the returned reason tells the user why: unsupported platform,
// permission denied, or a transport error.
func (e *Engine) SubscribeToPush(ctx context.Context) (bool, string) {
	if !e.pusher.Supported() {
		return false, platform.ErrUnsupported.Error()
	}

	if !e.RequestPermission(ctx) {
		return false, platform.ErrPermissionDenied.Error()
	}

	handle, err := e.pusher.Subscribe(ctx)
	if err != nil {
		e.logger.WarnContext(ctx, "Push subscription failed", log.FieldError, err)
		return false, "push subscription failed: " + err.Error()
	}

	e.mu.Lock()
	e.subscribed = true
	e.settings.EnablePushNotifications = true
	e.mu.Unlock()
	e.persistSettings(ctx)

	e.logger.InfoContext(ctx, "Push subscription established", "handle", handle)
	return true, ""
}

// UnsubscribeFromPush tears push delivery down and disables the setting.
func (e *Engine) UnsubscribeFromPush(ctx context.Context) error {
	if err := e.pusher.Unsubscribe(ctx); err != nil {
		return err
	}
	e.mu.Lock()
	e.subscribed = false
	e.settings.EnablePushNotifications = false
	e.mu.Unlock()
	e.persistSettings(ctx)
	return nil
}

// PushSubscribed reports whether a push subscription is active.
func (e *Engine) PushSubscribed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subscribed
}

// StartSweep launches the background sweep that drops expired notifications.
func (e *Engine) StartSweep(interval time.Duration) {
	e.stopSweep = make(chan struct{})
	e.sweepDone = make(chan struct{})
	go e.sweepLoop(interval)
}

func (e *Engine) sweepLoop(interval time.Duration) {
	defer close(e.sweepDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.Sweep(context.Background())
		case <-e.stopSweep:
			return
		}
	}
}

// Sweep drops every notification whose expiry has passed. Returns the number
// of entries removed from the in-memory log.
func (e *Engine) Sweep(ctx context.Context) int {
	e.mu.Lock()
	now := e.now()
	kept := e.notifications[:0]
	removed := 0
	for _, n := range e.notifications {
		if !n.ExpiresAt.IsZero() && n.ExpiresAt.Before(now) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	e.notifications = kept
	e.mu.Unlock()

	if _, err := e.store.DeleteExpiredNotifications(ctx, now); err != nil {
		e.logger.WarnContext(ctx, "Failed to sweep persisted notifications",
			log.FieldError, err)
	}

	if removed > 0 {
		e.logger.DebugContext(ctx, "Swept expired notifications",
			log.FieldCount, removed,
			log.FieldOperation, log.OpSweep)
	}
	return removed
}

// StopSweep stops the background sweep and waits for it to exit.
func (e *Engine) StopSweep() {
	if e.stopSweep != nil {
		close(e.stopSweep)
		<-e.sweepDone
	}
}

func toRecord(n Notification) storage.NotificationRecord {
	return storage.NotificationRecord{
		ID:          n.ID,
		Type:        string(n.Type),
		Title:       n.Title,
		Message:     n.Message,
		Priority:    string(n.Priority),
		ActionURL:   n.ActionURL,
		ActionLabel: n.ActionLabel,
		Read:        n.Read,
		CreatedAt:   n.Timestamp,
		ExpiresAt:   n.ExpiresAt,
	}
}

func fromRecord(rec storage.NotificationRecord) Notification {
	return Notification{
		ID:          rec.ID,
		Type:        Type(rec.Type),
		Title:       rec.Title,
		Message:     rec.Message,
		Priority:    Priority(rec.Priority),
		Timestamp:   rec.CreatedAt,
		Read:        rec.Read,
		ActionURL:   rec.ActionURL,
		ActionLabel: rec.ActionLabel,
		ExpiresAt:   rec.ExpiresAt,
	}
}
