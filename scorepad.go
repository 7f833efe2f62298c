/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"fmt"
)

const (
	actionAddPlayer    = "add_player"
	actionDeletePlayer = "delete_player"
	actionSetScore     = "set_score"
	actionResetScores  = "reset_scores"
)

// Action is a single mutation requested by a client, over either transport.
type Action struct {
	Type     string `json:"type"`
	Player   string `json:"player,omitempty"`
	Category string `json:"category,omitempty"`
	Value    string `json:"value,omitempty"`
}

// Scorepad applies actions to session state held in a Store.
type Scorepad struct {
	cfg   *Config
	store Store
}

func newScorepad(cfg *Config, store Store) *Scorepad {
	return &Scorepad{cfg: cfg, store: store}
}

func (sp *Scorepad) Scoreboard(ctx context.Context, sessionID string) (Scoreboard, error) {
	st, err := sp.store.Get(ctx, sessionID)
	if err != nil {
		return Scoreboard{}, err
	}

	return Render(st), nil
}

func (sp *Scorepad) AddPlayer(ctx context.Context, sessionID, name string) (Scoreboard, error) {
	return sp.Apply(ctx, sessionID, Action{Type: actionAddPlayer, Player: name})
}

func (sp *Scorepad) RemovePlayer(ctx context.Context, sessionID, name string) (Scoreboard, error) {
	return sp.Apply(ctx, sessionID, Action{Type: actionDeletePlayer, Player: name})
}

func (sp *Scorepad) SetScore(ctx context.Context, sessionID, player, category, value string) (Scoreboard, error) {
	return sp.Apply(ctx, sessionID, Action{Type: actionSetScore, Player: player, Category: category, Value: value})
}

func (sp *Scorepad) ResetScores(ctx context.Context, sessionID string) (Scoreboard, error) {
	return sp.Apply(ctx, sessionID, Action{Type: actionResetScores})
}

// Apply reads the session, applies a, writes the session back and renders
// the result. Rejected input leaves the state untouched.
func (sp *Scorepad) Apply(ctx context.Context, sessionID string, a Action) (Scoreboard, error) {
	st, err := sp.store.Get(ctx, sessionID)
	if err != nil {
		return Scoreboard{}, err
	}

	changed := true

	switch a.Type {
	case actionAddPlayer:
		if !st.AddPlayer(a.Player) {
			changed = false
			logf(sp.cfg, "SCORE: Ignored player %q", a.Player)
		}
	case actionDeletePlayer:
		changed = st.RemovePlayer(a.Player)
	case actionSetScore:
		err := st.SetScore(a.Player, a.Category, a.Value)
		if errors.Is(err, ErrInvalidScore) {
			changed = false
			logf(sp.cfg, "SCORE: Ignored %q for %q/%q: %v", a.Value, a.Player, a.Category, err)
		}
	case actionResetScores:
		st.ResetScores()
	default:
		return Scoreboard{}, fmt.Errorf("unknown action %q", a.Type)
	}

	if changed {
		if err := sp.store.Set(ctx, sessionID, st); err != nil {
			return Scoreboard{}, err
		}
	}

	return Render(st), nil
}
