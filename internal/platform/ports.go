// Package platform defines the push-delivery port. The notification engine
// treats the platform as a black box: permission may be denied, the whole
// capability may be missing, and either outcome must stay non-fatal for the
// in-app notification log.
package platform

import (
	"context"
	"errors"
)

// Payload is what a platform-level notification carries.
type Payload struct {
	Title              string `json:"title"`
	Body               string `json:"body"`
	Tag                string `json:"tag,omitempty"`
	URL                string `json:"url,omitempty"`
	RequireInteraction bool   `json:"requireInteraction,omitempty"`
	Silent             bool   `json:"silent,omitempty"`
}

var (
	ErrUnsupported      = errors.New("push notifications are not supported on this platform")
	ErrPermissionDenied = errors.New("notification permission denied")
)

// Pusher is the platform push-subscription API.
type Pusher interface {
	// Supported reports whether the platform can deliver push at all.
	Supported() bool

	// RequestPermission asks the platform for notification permission.
	// A false return without error means the user denied it.
	RequestPermission(ctx context.Context) (bool, error)

	// Subscribe registers for push delivery and returns an opaque
	// subscription handle.
	Subscribe(ctx context.Context) (string, error)

	// Unsubscribe tears the subscription down.
	Unsubscribe(ctx context.Context) error

	// SendLocal shows one platform-level notification.
	SendLocal(ctx context.Context, p Payload) error
}
