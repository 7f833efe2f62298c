/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	ctx := context.Background()

	st, err := s.Get(ctx, "unknown")
	if err != nil {
		t.Fatalf("Get(unknown) error = %v", err)
	}
	if len(st.Players) != 0 || len(st.Scores) != 0 {
		t.Fatalf("Get(unknown) = %+v, want empty state", st)
	}

	st.AddPlayer("Anna")
	st.AddPlayer("Ben")
	_ = st.SetScore("Anna", "Kniffel", "0")
	_ = st.SetScore("Anna", "Chance", "23")

	if err := s.Set(ctx, "a", st); err != nil {
		t.Fatalf("Set error = %v", err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if !slices.Equal(got.Players, []string{"Anna", "Ben"}) {
		t.Fatalf("players = %q", got.Players)
	}
	if v, ok := got.Scores["Anna"].Lookup("Kniffel"); !ok || v != 0 {
		t.Fatalf("struck Kniffel = (%d, %t), want (0, true)", v, ok)
	}
	if v, ok := got.Scores["Anna"].Lookup("Chance"); !ok || v != 23 {
		t.Fatalf("Chance = (%d, %t), want (23, true)", v, ok)
	}
	if _, ok := got.Scores["Anna"].Lookup("Einser"); ok {
		t.Fatal("unset category came back set")
	}

	other, err := s.Get(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	if len(other.Players) != 0 {
		t.Fatalf("session b sees %q", other.Players)
	}

	got.RemovePlayer("Anna")
	if err := s.Set(ctx, "a", got); err != nil {
		t.Fatal(err)
	}

	last, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(last.Players, []string{"Ben"}) {
		t.Fatalf("last write lost: players = %q", last.Players)
	}
	if _, ok := last.Scores["Anna"]; ok {
		t.Fatal("removed player's sheet persisted")
	}
}

func TestMemoryStore(t *testing.T) {
	s := newMemoryStore(0)
	defer s.Close()

	exerciseStore(t, s)
}

func TestMemoryStore_CopiesState(t *testing.T) {
	s := newMemoryStore(0)
	defer s.Close()

	ctx := context.Background()

	var st State
	st.AddPlayer("Anna")
	_ = s.Set(ctx, "a", st)

	st.Players[0] = "Zoe"

	got, _ := s.Get(ctx, "a")
	got.AddPlayer("Ben")

	again, _ := s.Get(ctx, "a")
	if !slices.Equal(again.Players, []string{"Anna"}) {
		t.Fatalf("stored state was mutated through a caller: %q", again.Players)
	}
}

func TestMemoryStore_Reap(t *testing.T) {
	s := newMemoryStore(0)
	defer s.Close()

	ctx := context.Background()

	var st State
	st.AddPlayer("Anna")
	_ = s.Set(ctx, "old", st)

	if n := s.reap(time.Now().Add(-time.Minute)); n != 0 {
		t.Fatalf("reaped %d fresh sessions", n)
	}
	if n := s.reap(time.Now().Add(time.Minute)); n != 1 {
		t.Fatalf("reaped %d sessions, want 1", n)
	}

	got, _ := s.Get(ctx, "old")
	if len(got.Players) != 0 {
		t.Fatal("reaped session is still readable")
	}
}

func TestMemoryStore_ReaperLoop(t *testing.T) {
	s := newMemoryStore(20 * time.Millisecond)
	defer s.Close()

	ctx := context.Background()

	var st State
	st.AddPlayer("Anna")
	_ = s.Set(ctx, "idle", st)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.RLock()
		_, ok := s.sessions["idle"]
		s.mu.RUnlock()

		if !ok {
			return
		}

		time.Sleep(10 * time.Millisecond)
	}

	t.Fatal("idle session was never reaped")
}

func newTestSQLStore(t *testing.T) *sqlStore {
	t.Helper()

	s, err := newSQLStore("sqlite", filepath.Join(t.TempDir(), "sessions.db"), 0)
	if err != nil {
		t.Fatalf("newSQLStore error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestSQLStore(t *testing.T) {
	exerciseStore(t, newTestSQLStore(t))
}

func TestSQLStore_Reap(t *testing.T) {
	s := newTestSQLStore(t)
	ctx := context.Background()

	var st State
	st.AddPlayer("Anna")
	if err := s.Set(ctx, "old", st); err != nil {
		t.Fatal(err)
	}

	n, err := s.reap(ctx, time.Now().Add(-time.Hour))
	if err != nil || n != 0 {
		t.Fatalf("reap(past) = (%d, %v), want (0, nil)", n, err)
	}

	n, err = s.reap(ctx, time.Now().Add(time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("reap(future) = (%d, %v), want (1, nil)", n, err)
	}

	got, err := s.Get(ctx, "old")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Players) != 0 {
		t.Fatal("reaped session is still readable")
	}
}

func TestNewStore(t *testing.T) {
	s, err := newStore(&Config{store: "memory"})
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = newStore(&Config{store: "sqlite", database: filepath.Join(t.TempDir(), "k.db")})
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	if _, err := newStore(&Config{store: "redis"}); err == nil {
		t.Fatal("expected an error for an unknown store")
	}
}
