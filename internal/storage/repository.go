// Package storage is the local durable store for cross-session state: the
// notification preferences blob, the notification log, and the one-time
// bootstrap flag. Entity data is never cached here; the remote datastore
// stays the only source of truth for the five collections.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	keyNotificationSettings = "notification_settings"
	keyBootstrapped         = "bootstrapped"
)

// NotificationRecord is one persisted notification log row. Timestamps are
// RFC 3339 strings; ExpiresAt is empty when the notification never expires.
type NotificationRecord struct {
	ID          string
	Type        string
	Title       string
	Message     string
	Priority    string
	ActionURL   string
	ActionLabel string
	Read        bool
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// GetSetting returns the raw value stored under key, and whether it exists.
func (r *Repository) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

// PutSetting upserts the value stored under key.
func (r *Repository) PutSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("put setting %s: %w", key, err)
	}
	return nil
}

// NotificationSettings returns the persisted settings blob, if any.
func (r *Repository) NotificationSettings(ctx context.Context) (string, bool, error) {
	return r.GetSetting(ctx, keyNotificationSettings)
}

// SaveNotificationSettings persists the settings blob.
func (r *Repository) SaveNotificationSettings(ctx context.Context, blob string) error {
	return r.PutSetting(ctx, keyNotificationSettings, blob)
}

// Bootstrapped reports whether the remote bootstrap endpoint has already been
// invoked for this local store. The flag is set once and never cleared, so an
// empty task list in steady state is not mistaken for a fresh install again.
func (r *Repository) Bootstrapped(ctx context.Context) (bool, error) {
	value, ok, err := r.GetSetting(ctx, keyBootstrapped)
	if err != nil {
		return false, err
	}
	return ok && value == "1", nil
}

func (r *Repository) SetBootstrapped(ctx context.Context) error {
	return r.PutSetting(ctx, keyBootstrapped, "1")
}

// InsertNotification appends one row to the notification log.
func (r *Repository) InsertNotification(ctx context.Context, n NotificationRecord) error {
	expires := ""
	if !n.ExpiresAt.IsZero() {
		expires = n.ExpiresAt.Format(time.RFC3339)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications
			(id, type, title, message, priority, action_url, action_label, read_flag, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Type, n.Title, n.Message, n.Priority, n.ActionURL, n.ActionLabel,
		boolToInt(n.Read), n.CreatedAt.Format(time.RFC3339), expires)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListNotifications returns the whole log, most recent first.
func (r *Repository) ListNotifications(ctx context.Context) ([]NotificationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, title, message, priority, action_url, action_label, read_flag, created_at, expires_at
		FROM notifications
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []NotificationRecord
	for rows.Next() {
		var (
			rec            NotificationRecord
			readFlag       int
			created, expir string
		)
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.Title, &rec.Message, &rec.Priority,
			&rec.ActionURL, &rec.ActionLabel, &readFlag, &created, &expir); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		rec.Read = readFlag != 0
		rec.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			slog.WarnContext(ctx, "Skipping notification with bad created_at",
				"id", rec.ID, "created_at", created)
			continue
		}
		if expir != "" {
			if t, perr := time.Parse(time.RFC3339, expir); perr == nil {
				rec.ExpiresAt = t
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

func (r *Repository) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET read_flag = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (r *Repository) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET read_flag = 1`)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (r *Repository) DeleteNotification(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

func (r *Repository) ClearNotifications(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notifications`)
	if err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// DeleteExpiredNotifications drops rows whose expiry is set and in the past.
// Returns the number of rows removed.
func (r *Repository) DeleteExpiredNotifications(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE expires_at != '' AND expires_at < ?`,
		now.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("delete expired notifications: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
