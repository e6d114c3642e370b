// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package login

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/smartvote/simulate"
)

// Step is the position of a flow in the two-step login.
type Step string

const (
	StepIdentify     Step = "identify"
	StepAuthenticate Step = "authenticate"
	StepDone         Step = "done"
)

const (
	DefaultCodeLength = 6
	DefaultCooldown   = 30 * time.Second
	DefaultFlowTTL    = 10 * DefaultCooldown
)

var (
	ErrIdentifierRequired = errors.New("identifier is required")
	ErrIncompleteCode     = errors.New("one-time code is incomplete")
	ErrWrongStep          = errors.New("action not available at this step")
	ErrFlowNotFound       = errors.New("login flow not found")
)

// CooldownError is returned by Resend while the countdown is running.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("resend available in %d seconds", ceilSeconds(e.Remaining))
}

// Credentials are what the verify call receives.
type Credentials struct {
	Identifier string
	Code       string
}

// Backend carries the two remote calls of a login: sending the code and
// checking it.
type Backend struct {
	Dispatch simulate.Operation[string, struct{}]
	Verify   simulate.Operation[Credentials, struct{}]
}

// SimulatedBackend accepts every identifier and every code after the given
// delays. No message is sent and no code is checked.
func SimulatedBackend(dispatch, verify time.Duration) Backend {
	return Backend{
		Dispatch: simulate.After[string, struct{}](dispatch, nil),
		Verify:   simulate.After[Credentials, struct{}](verify, nil),
	}
}

// Options tune a flow. Zero values fall back to the defaults.
type Options struct {
	CodeLength int
	Cooldown   time.Duration
	// FlowTTL is how long a flow may sit untouched before its manager
	// drops it.
	FlowTTL time.Duration
	Now     func() time.Time
}

func (o Options) withDefaults() Options {
	if o.CodeLength <= 0 {
		o.CodeLength = DefaultCodeLength
	}
	if o.Cooldown <= 0 {
		o.Cooldown = DefaultCooldown
	}
	if o.FlowTTL <= 0 {
		o.FlowTTL = DefaultFlowTTL
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// State is a read-only view of a flow.
type State struct {
	ID         string
	Step       Step
	Identifier string
	ResendIn   time.Duration
}

// Flow is one identify → authenticate login attempt. Calls on the same
// flow are serialized.
type Flow struct {
	mu         sync.Mutex
	id         string
	backend    Backend
	opts       Options
	step       Step
	identifier string
	resendAt   time.Time

	// touched is read without mu so a manager can sweep while a slow
	// dispatch holds the lock.
	touched atomic.Int64
}

// NewFlow starts a flow at the identify step.
func NewFlow(id string, backend Backend, opts Options) *Flow {
	f := &Flow{
		id:      id,
		backend: backend,
		opts:    opts.withDefaults(),
		step:    StepIdentify,
	}
	f.touch()
	return f
}

func (f *Flow) touch() {
	f.touched.Store(f.opts.Now().UnixNano())
}

// LastActive is when the flow was created or last acted on.
func (f *Flow) LastActive() time.Time {
	return time.Unix(0, f.touched.Load())
}

func (f *Flow) ID() string {
	return f.id
}

// Identify records the identifier, dispatches a code and moves to the
// authenticate step. An empty identifier leaves the flow where it is.
func (f *Flow) Identify(ctx context.Context, identifier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touch()

	if f.step != StepIdentify {
		return fmt.Errorf("%w: identify during %s", ErrWrongStep, f.step)
	}
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return ErrIdentifierRequired
	}

	if _, err := f.backend.Dispatch.Do(ctx, identifier); err != nil {
		return fmt.Errorf("failed to dispatch code: %w", err)
	}

	f.identifier = identifier
	f.step = StepAuthenticate
	f.resendAt = f.opts.Now().Add(f.opts.Cooldown)
	return nil
}

// Verify checks the one-time code. Codes of the wrong length are refused
// without calling the backend.
func (f *Flow) Verify(ctx context.Context, code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touch()

	if f.step != StepAuthenticate {
		return "", fmt.Errorf("%w: verify during %s", ErrWrongStep, f.step)
	}
	code = strings.TrimSpace(code)
	if utf8.RuneCountInString(code) != f.opts.CodeLength {
		return "", fmt.Errorf("%w: enter the complete %d-digit code", ErrIncompleteCode, f.opts.CodeLength)
	}

	creds := Credentials{Identifier: f.identifier, Code: code}
	if _, err := f.backend.Verify.Do(ctx, creds); err != nil {
		return "", fmt.Errorf("failed to verify code: %w", err)
	}

	f.step = StepDone
	return f.identifier, nil
}

// Back returns to the identify step.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touch()

	if f.step == StepDone {
		return fmt.Errorf("%w: back after login", ErrWrongStep)
	}
	f.step = StepIdentify
	f.resendAt = time.Time{}
	return nil
}

// Resend restarts the cooldown once it has run out. Nothing is sent.
func (f *Flow) Resend() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touch()

	if f.step != StepAuthenticate {
		return fmt.Errorf("%w: resend during %s", ErrWrongStep, f.step)
	}
	now := f.opts.Now()
	if remaining := f.resendAt.Sub(now); remaining > 0 {
		return &CooldownError{Remaining: remaining}
	}
	f.resendAt = now.Add(f.opts.Cooldown)
	return nil
}

// State returns a snapshot of the flow.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	var resendIn time.Duration
	if f.step == StepAuthenticate {
		if d := f.resendAt.Sub(f.opts.Now()); d > 0 {
			resendIn = d
		}
	}
	return State{ID: f.id, Step: f.step, Identifier: f.identifier, ResendIn: resendIn}
}

// CodeLength is the number of characters Verify expects.
func (f *Flow) CodeLength() int {
	return f.opts.CodeLength
}

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

// ResendSeconds rounds a cooldown up to whole seconds for clients.
func ResendSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return ceilSeconds(d)
}
