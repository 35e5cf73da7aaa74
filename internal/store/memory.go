// internal/store/memory.go
//
// In-memory session store for active rounds.
//
// Characteristics:
//   - Sessions keyed by round ID, plus an owner → current round index.
//   - Replace enforces one active round per owner: the previous round is
//     reset (its reveal cancelled) before the new one becomes current.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Idle sessions are reaped; state is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/the100/internal/game"
)

// ErrNotFound is returned for unknown round IDs.
var ErrNotFound = errors.New("round not found")

// Store defines the persistence interface for round sessions.
type Store interface {
	// Replace makes sess the owner's current round, resetting the previous one.
	Replace(ctx context.Context, sess *game.Session) error

	// Get retrieves a round by ID.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Current returns the owner's active round.
	Current(ctx context.Context, owner string) (*game.Session, error)
}

// Memory is a map-based Store.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session // keyed by Session.ID
	owners   map[string]string        // owner → Session.ID
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *Memory {
	return &Memory{
		sessions: make(map[string]*game.Session),
		owners:   make(map[string]string),
	}
}

func (m *Memory) Replace(ctx context.Context, sess *game.Session) error {
	m.mu.Lock()
	var prev *game.Session
	if id, ok := m.owners[sess.Owner]; ok {
		prev = m.sessions[id]
		delete(m.sessions, id)
	}
	m.sessions[sess.ID] = sess
	m.owners[sess.Owner] = sess.ID
	m.mu.Unlock()

	if prev != nil && prev != sess {
		prev.Reset()
	}
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *Memory) Current(ctx context.Context, owner string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.owners[owner]; ok {
		if s, ok := m.sessions[id]; ok {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

// Len is the number of stored rounds.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep resets and drops rounds idle since before cutoff. It returns how many were dropped.
func (m *Memory) Sweep(cutoff time.Time) int {
	var stale []*game.Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
			if m.owners[s.Owner] == id {
				delete(m.owners, s.Owner)
			}
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Reset()
	}
	return len(stale)
}

// Reap sweeps every idleTimeout/2 until ctx is done.
func (m *Memory) Reap(ctx context.Context, idleTimeout time.Duration) {
	if idleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(idleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.Sweep(now.Add(-idleTimeout)); n > 0 {
				log.Debug().Int("rounds", n).Msg("reaped idle rounds")
			}
		}
	}
}
