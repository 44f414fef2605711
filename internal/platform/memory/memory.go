// Package memory is an in-process Pusher used in tests and as the default
// when no broker is configured. Failure modes are switchable so callers can
// exercise the unsupported / denied / transport-error paths.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/tmeta22/MetaHouse/internal/platform"
)

type Pusher struct {
	mu         sync.Mutex
	supported  bool
	deny       bool
	sendErr    error
	subscribed bool
	sent       []platform.Payload
}

var _ platform.Pusher = (*Pusher)(nil)

func New() *Pusher {
	return &Pusher{supported: true}
}

// SetSupported toggles platform availability.
func (p *Pusher) SetSupported(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.supported = v
}

// SetDenyPermission makes RequestPermission report a user denial.
func (p *Pusher) SetDenyPermission(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deny = v
}

// SetSendError makes SendLocal and Subscribe fail with err.
func (p *Pusher) SetSendError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sendErr = err
}

func (p *Pusher) Supported() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.supported
}

func (p *Pusher) RequestPermission(_ context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.supported {
		return false, platform.ErrUnsupported
	}
	return !p.deny, nil
}

func (p *Pusher) Subscribe(_ context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.supported {
		return "", platform.ErrUnsupported
	}
	if p.sendErr != nil {
		return "", p.sendErr
	}
	p.subscribed = true
	return "mem:subscription", nil
}

func (p *Pusher) Unsubscribe(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribed = false
	return nil
}

func (p *Pusher) SendLocal(_ context.Context, payload platform.Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.supported {
		return platform.ErrUnsupported
	}
	if p.sendErr != nil {
		return p.sendErr
	}
	if payload.Title == "" {
		return errors.New("empty payload title")
	}
	p.sent = append(p.sent, payload)
	return nil
}

// Sent returns a copy of everything delivered so far.
func (p *Pusher) Sent() []platform.Payload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]platform.Payload(nil), p.sent...)
}

// Subscribed reports the current subscription state.
func (p *Pusher) Subscribed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subscribed
}
