/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Store holds one State per session id. Ids that were never written read
// as an empty State.
type Store interface {
	Get(ctx context.Context, id string) (State, error)
	Set(ctx context.Context, id string, st State) error
	Close() error
}

func newStore(cfg *Config) (Store, error) {
	switch cfg.store {
	case "memory":
		return newMemoryStore(cfg.sessionTimeout), nil
	case "sqlite", "postgres":
		s, err := newSQLStore(cfg.store, cfg.database, cfg.sessionTimeout)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.store)
	}
}

type memorySession struct {
	state      State
	lastActive time.Time
}

type memoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]*memorySession
	idleTimeout time.Duration

	done chan struct{}
	once sync.Once
}

func newMemoryStore(idleTimeout time.Duration) *memoryStore {
	ms := &memoryStore{
		sessions:    make(map[string]*memorySession),
		idleTimeout: idleTimeout,
		done:        make(chan struct{}),
	}

	if idleTimeout > 0 {
		go ms.reaperLoop()
	}

	return ms
}

func (ms *memoryStore) Get(_ context.Context, id string) (State, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	s, ok := ms.sessions[id]
	if !ok {
		return State{}, nil
	}

	return s.state.clone(), nil
}

func (ms *memoryStore) Set(_ context.Context, id string, st State) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.sessions[id] = &memorySession{
		state:      st.clone(),
		lastActive: time.Now(),
	}

	return nil
}

func (ms *memoryStore) Close() error {
	ms.once.Do(func() { close(ms.done) })

	return nil
}

// reap drops sessions that have not been written since cutoff.
func (ms *memoryStore) reap(cutoff time.Time) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	n := 0
	for id, s := range ms.sessions {
		if s.lastActive.Before(cutoff) {
			delete(ms.sessions, id)
			n++
		}
	}

	return n
}

func (ms *memoryStore) reaperLoop() {
	ticker := time.NewTicker(ms.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ms.done:
			return
		case <-ticker.C:
			ms.reap(time.Now().Add(-ms.idleTimeout))
		}
	}
}
