/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	bonusThreshold int = 63
	bonusPoints    int = 35

	// Largest free-entry value accepted; no real category comes close.
	maxScore float64 = 10000
)

var ErrInvalidScore = errors.New("invalid score value")

// Category is one line of the Kniffel block. Fixed is the constant awarded
// for fixed-choice categories and zero for free-entry ones.
type Category struct {
	Name        string
	Description string
	Upper       bool
	Fixed       int
}

func (c Category) IsFixed() bool {
	return c.Fixed > 0
}

// Canonical order; display and missing-category lists follow it.
var categories = []Category{
	{Name: "Einser", Description: "Zähle nur die Einser", Upper: true},
	{Name: "Zweier", Description: "Zähle nur die Zweier", Upper: true},
	{Name: "Dreier", Description: "Zähle nur die Dreier", Upper: true},
	{Name: "Vierer", Description: "Zähle nur die Vierer", Upper: true},
	{Name: "Fünfer", Description: "Zähle nur die Fünfer", Upper: true},
	{Name: "Sechser", Description: "Zähle nur die Sechser", Upper: true},
	{Name: "Dreierpasch", Description: "Drei gleiche Augen, Summe aller Augen zählen"},
	{Name: "Viererpasch", Description: "Vier gleiche Augen, Summe aller Augen zählen"},
	{Name: "Full House", Description: "3 gleiche Augen und 2 gleiche Augen, 25 Punkte", Fixed: 25},
	{Name: "Kleine Straße", Description: "4 aufeinanderfolgende Augen, 30 Punkte", Fixed: 30},
	{Name: "Große Straße", Description: "5 aufeinanderfolgende Augen, 40 Punkte", Fixed: 40},
	{Name: "Kniffel", Description: "5 gleiche Augen, 50 Punkte", Fixed: 50},
	{Name: "Chance", Description: "Summe aller Augen"},
}

func categoryByName(name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}

	return Category{}, false
}

// Sheet maps category names to recorded points. A missing key means the
// category has not been played yet; a zero means it was struck.
type Sheet map[string]int

func (s Sheet) Lookup(category string) (int, bool) {
	v, ok := s[category]

	return v, ok
}

func (s Sheet) clone() Sheet {
	if s == nil {
		return nil
	}

	c := make(Sheet, len(s))
	for k, v := range s {
		c[k] = v
	}

	return c
}

// Totals returns the upper-section sum, the bonus and the grand total.
func Totals(s Sheet) (upper, bonus, total int) {
	lower := 0

	for _, c := range categories {
		v, _ := s.Lookup(c.Name)
		if c.Upper {
			upper += v
		} else {
			lower += v
		}
	}

	if upper >= bonusThreshold {
		bonus = bonusPoints
	}

	return upper, bonus, upper + bonus + lower
}

// State is everything a single browser session owns.
type State struct {
	Players []string         `json:"players"`
	Scores  map[string]Sheet `json:"scores"`
}

func (st State) clone() State {
	c := State{
		Players: append([]string(nil), st.Players...),
		Scores:  make(map[string]Sheet, len(st.Scores)),
	}

	for p, s := range st.Scores {
		c.Scores[p] = s.clone()
	}

	return c
}

func (st *State) hasPlayer(name string) bool {
	for _, p := range st.Players {
		if p == name {
			return true
		}
	}

	return false
}

// AddPlayer appends the trimmed name unless it is empty or already taken.
func (st *State) AddPlayer(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || st.hasPlayer(name) {
		return false
	}

	st.Players = append(st.Players, name)

	return true
}

// RemovePlayer drops the player and their whole sheet.
func (st *State) RemovePlayer(name string) bool {
	idx := -1
	for i, p := range st.Players {
		if p == name {
			idx = i
			break
		}
	}

	if idx == -1 {
		return false
	}

	st.Players = append(st.Players[:idx], st.Players[idx+1:]...)
	delete(st.Scores, name)

	return true
}

// SetScore records raw form input for one cell. An empty value clears the
// cell. Unknown players and categories are ignored.
func (st *State) SetScore(player, category, raw string) error {
	c, ok := categoryByName(category)
	if !ok || !st.hasPlayer(player) {
		return nil
	}

	if st.Scores == nil {
		st.Scores = make(map[string]Sheet)
	}

	sheet := st.Scores[player]
	if sheet == nil {
		sheet = make(Sheet)
		st.Scores[player] = sheet
	}

	if raw == "" {
		delete(sheet, c.Name)

		return nil
	}

	v, err := parseScore(c, raw)
	if err != nil {
		return err
	}

	sheet[c.Name] = v

	return nil
}

// ResetScores clears every sheet but keeps the players and their order.
func (st *State) ResetScores() {
	st.Scores = make(map[string]Sheet, len(st.Players))

	for _, p := range st.Players {
		st.Scores[p] = Sheet{}
	}
}

func parseScore(c Category, raw string) (int, error) {
	if c.IsFixed() {
		if raw == "0" {
			return 0, nil
		}

		return c.Fixed, nil
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidScore
	}

	f = math.Trunc(f)
	if f < 0 || f > maxScore {
		return 0, ErrInvalidScore
	}

	return int(f), nil
}
