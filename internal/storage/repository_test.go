package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepository_Settings(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, ok, err := repo.GetSetting(ctx, "missing")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if ok {
		t.Fatal("missing key reported as present")
	}

	if err := repo.PutSetting(ctx, "theme", "dark"); err != nil {
		t.Fatalf("PutSetting: %v", err)
	}
	got, ok, err := repo.GetSetting(ctx, "theme")
	if err != nil || !ok || got != "dark" {
		t.Fatalf("expected dark, got %q (ok=%v, err=%v)", got, ok, err)
	}

	// Upsert replaces.
	if err := repo.PutSetting(ctx, "theme", "light"); err != nil {
		t.Fatalf("PutSetting upsert: %v", err)
	}
	got, _, _ = repo.GetSetting(ctx, "theme")
	if got != "light" {
		t.Fatalf("upsert failed, got %q", got)
	}
}

func TestRepository_NotificationSettingsBlob(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, ok, err := repo.NotificationSettings(ctx)
	if err != nil || ok {
		t.Fatalf("expected no settings yet (ok=%v, err=%v)", ok, err)
	}

	blob := `{"enableBrowserNotifications":true}`
	if err := repo.SaveNotificationSettings(ctx, blob); err != nil {
		t.Fatalf("SaveNotificationSettings: %v", err)
	}
	got, ok, err := repo.NotificationSettings(ctx)
	if err != nil || !ok || got != blob {
		t.Fatalf("expected %q, got %q (ok=%v, err=%v)", blob, got, ok, err)
	}
}

func TestRepository_BootstrapFlag(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	done, err := repo.Bootstrapped(ctx)
	if err != nil {
		t.Fatalf("Bootstrapped: %v", err)
	}
	if done {
		t.Fatal("fresh database must not report bootstrapped")
	}

	if err := repo.SetBootstrapped(ctx); err != nil {
		t.Fatalf("SetBootstrapped: %v", err)
	}
	done, err = repo.Bootstrapped(ctx)
	if err != nil || !done {
		t.Fatalf("expected bootstrapped=true, got %v (err=%v)", done, err)
	}
}

func TestRepository_NotificationLog(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	older := NotificationRecord{
		ID:        "ntf_a",
		Type:      "task",
		Title:     "Older",
		Priority:  "low",
		CreatedAt: base.Add(-time.Hour),
	}
	newer := NotificationRecord{
		ID:          "ntf_b",
		Type:        "schedule",
		Title:       "Newer",
		Message:     "soon",
		Priority:    "high",
		ActionURL:   "/?section=schedule",
		ActionLabel: "View",
		CreatedAt:   base,
		ExpiresAt:   base.Add(time.Hour),
	}
	if err := repo.InsertNotification(ctx, older); err != nil {
		t.Fatalf("InsertNotification: %v", err)
	}
	if err := repo.InsertNotification(ctx, newer); err != nil {
		t.Fatalf("InsertNotification: %v", err)
	}

	got, err := repo.ListNotifications(ctx)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(got) != 2 || got[0].ID != "ntf_b" || got[1].ID != "ntf_a" {
		t.Fatalf("expected most recent first, got %+v", got)
	}
	if got[0].ActionURL != "/?section=schedule" || got[0].ExpiresAt.IsZero() {
		t.Errorf("fields lost on roundtrip: %+v", got[0])
	}
	if !got[1].ExpiresAt.IsZero() {
		t.Errorf("missing expiry must stay zero, got %v", got[1].ExpiresAt)
	}

	if err := repo.MarkNotificationRead(ctx, "ntf_a"); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	got, _ = repo.ListNotifications(ctx)
	if !got[1].Read || got[0].Read {
		t.Fatalf("read flags wrong: %+v", got)
	}

	if err := repo.MarkAllNotificationsRead(ctx); err != nil {
		t.Fatalf("MarkAllNotificationsRead: %v", err)
	}
	got, _ = repo.ListNotifications(ctx)
	if !got[0].Read || !got[1].Read {
		t.Fatal("expected every row read")
	}

	if err := repo.DeleteNotification(ctx, "ntf_a"); err != nil {
		t.Fatalf("DeleteNotification: %v", err)
	}
	got, _ = repo.ListNotifications(ctx)
	if len(got) != 1 || got[0].ID != "ntf_b" {
		t.Fatalf("delete failed: %+v", got)
	}

	if err := repo.ClearNotifications(ctx); err != nil {
		t.Fatalf("ClearNotifications: %v", err)
	}
	got, _ = repo.ListNotifications(ctx)
	if len(got) != 0 {
		t.Fatalf("clear failed: %+v", got)
	}
}

func TestRepository_DeleteExpiredNotifications(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	records := []NotificationRecord{
		{ID: "ntf_expired", Type: "system", Title: "Old", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)},
		{ID: "ntf_future", Type: "system", Title: "Later", CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
		{ID: "ntf_forever", Type: "system", Title: "Keep", CreatedAt: now},
	}
	for _, rec := range records {
		if err := repo.InsertNotification(ctx, rec); err != nil {
			t.Fatalf("InsertNotification: %v", err)
		}
	}

	removed, err := repo.DeleteExpiredNotifications(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpiredNotifications: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	got, _ := repo.ListNotifications(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 remaining, got %d", len(got))
	}
	for _, rec := range got {
		if rec.ID == "ntf_expired" {
			t.Fatal("expired row survived")
		}
	}
}
