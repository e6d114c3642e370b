// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package login

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager keeps the open flows of one role. Flows left untouched for
// longer than Options.FlowTTL are dropped.
type Manager struct {
	sync.Mutex
	role    string
	backend Backend
	opts    Options
	flows   map[string]*Flow
	swept   time.Time
}

func NewManager(role string, backend Backend, opts Options) *Manager {
	return &Manager{
		role:    role,
		backend: backend,
		opts:    opts.withDefaults(),
		flows:   make(map[string]*Flow),
	}
}

func (m *Manager) Role() string {
	return m.role
}

func (m *Manager) expired(f *Flow, now time.Time) bool {
	return now.Sub(f.LastActive()) > m.opts.FlowTTL
}

// sweep drops expired flows, at most once per cooldown. Callers hold the lock.
func (m *Manager) sweep(now time.Time) {
	if now.Sub(m.swept) < m.opts.Cooldown {
		return
	}
	m.swept = now
	for id, f := range m.flows {
		if m.expired(f, now) {
			delete(m.flows, id)
		}
	}
}

// Start opens a new flow at the identify step.
func (m *Manager) Start() *Flow {
	f := NewFlow(uuid.NewString(), m.backend, m.opts)
	m.Lock()
	defer m.Unlock()
	m.sweep(m.opts.Now())
	m.flows[f.ID()] = f
	return f
}

// Get returns an open flow. An expired flow is dropped and reported as
// not found.
func (m *Manager) Get(id string) (*Flow, error) {
	m.Lock()
	defer m.Unlock()
	f, ok := m.flows[id]
	if !ok {
		return nil, ErrFlowNotFound
	}
	if m.expired(f, m.opts.Now()) {
		delete(m.flows, id)
		return nil, ErrFlowNotFound
	}
	return f, nil
}

// Finish forgets a flow once it produced a session.
func (m *Manager) Finish(id string) {
	m.Lock()
	defer m.Unlock()
	delete(m.flows, id)
}

// Len reports the number of open flows.
func (m *Manager) Len() int {
	m.Lock()
	defer m.Unlock()
	return len(m.flows)
}
