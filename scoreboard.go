/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	_ "embed"
	"html/template"
	"strconv"
)

// Cell is one player's entry for one category.
type Cell struct {
	Player   string
	Category Category
	Value    int
	Set      bool
}

// Input returns the form value the cell currently holds, or "" when unset.
func (c Cell) Input() string {
	if !c.Set {
		return ""
	}

	return strconv.Itoa(c.Value)
}

func (c Cell) Achieved() bool {
	return c.Set && c.Category.IsFixed() && c.Value == c.Category.Fixed
}

func (c Cell) Struck() bool {
	return c.Set && c.Value == 0
}

type Row struct {
	Category Category
	Cells    []Cell
}

type SummaryRow struct {
	Label  string
	Values []int
}

// Scoreboard is the display structure for one session.
type Scoreboard struct {
	Players []string
	Missing [][]string
	Rows    []Row
	Summary []SummaryRow
}

func (b Scoreboard) Empty() bool {
	return len(b.Players) == 0
}

// Render builds the scoreboard for st. It never modifies st.
func Render(st State) Scoreboard {
	b := Scoreboard{
		Players: append([]string(nil), st.Players...),
	}

	if b.Empty() {
		return b
	}

	b.Missing = make([][]string, len(b.Players))
	for i, p := range b.Players {
		missing := []string{}
		for _, c := range categories {
			if _, ok := st.Scores[p].Lookup(c.Name); !ok {
				missing = append(missing, c.Name)
			}
		}
		b.Missing[i] = missing
	}

	b.Rows = make([]Row, 0, len(categories))
	for _, c := range categories {
		row := Row{Category: c, Cells: make([]Cell, len(b.Players))}
		for i, p := range b.Players {
			v, ok := st.Scores[p].Lookup(c.Name)
			row.Cells[i] = Cell{Player: p, Category: c, Value: v, Set: ok}
		}
		b.Rows = append(b.Rows, row)
	}

	upper := SummaryRow{Label: "Oberer Teil Summe", Values: make([]int, len(b.Players))}
	bonus := SummaryRow{Label: "Bonus (bei 63 oder mehr)", Values: make([]int, len(b.Players))}
	total := SummaryRow{Label: "Gesamtsumme", Values: make([]int, len(b.Players))}

	for i, p := range b.Players {
		upper.Values[i], bonus.Values[i], total.Values[i] = Totals(st.Scores[p])
	}

	b.Summary = []SummaryRow{upper, bonus, total}

	return b
}

//go:embed kniffel/fragment.html
var fragmentHTML string

var fragmentTemplate = template.Must(template.New("fragment").Parse(fragmentHTML))

type fragmentData struct {
	Board Scoreboard
}

// renderFragment writes the #score-table-container element for b.
func renderFragment(b Scoreboard) ([]byte, error) {
	var buf bytes.Buffer

	err := fragmentTemplate.Execute(&buf, fragmentData{Board: b})
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
