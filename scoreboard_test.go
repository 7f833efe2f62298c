/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func categoryNames() []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}

	return names
}

func scenarioState(t *testing.T) State {
	t.Helper()

	var st State
	st.AddPlayer("Anna")
	st.AddPlayer("Ben")

	for name, v := range map[string]string{
		"Einser": "5", "Zweier": "10", "Dreier": "15",
		"Vierer": "16", "Fünfer": "20", "Sechser": "6",
		"Full House": "25", "Kniffel": "50", "Große Straße": "0",
	} {
		if err := st.SetScore("Anna", name, v); err != nil {
			t.Fatalf("SetScore(%q, %q): %v", name, v, err)
		}
	}

	return st
}

func TestRender_Empty(t *testing.T) {
	b := Render(State{})
	if !b.Empty() {
		t.Fatal("expected an empty scoreboard")
	}
	if len(b.Rows) != 0 || len(b.Summary) != 0 {
		t.Fatalf("empty scoreboard has rows: %+v", b)
	}
}

func TestRender_Scenario(t *testing.T) {
	st := scenarioState(t)
	b := Render(st)

	if !slices.Equal(b.Players, []string{"Anna", "Ben"}) {
		t.Fatalf("players = %q", b.Players)
	}
	if len(b.Rows) != len(categories) {
		t.Fatalf("rows = %d, want %d", len(b.Rows), len(categories))
	}

	wantAnnaMissing := []string{"Dreierpasch", "Viererpasch", "Kleine Straße", "Chance"}
	if !slices.Equal(b.Missing[0], wantAnnaMissing) {
		t.Errorf("Anna missing = %q, want %q", b.Missing[0], wantAnnaMissing)
	}
	if !slices.Equal(b.Missing[1], categoryNames()) {
		t.Errorf("Ben missing = %q, want every category in order", b.Missing[1])
	}

	want := []SummaryRow{
		{Label: "Oberer Teil Summe", Values: []int{72, 0}},
		{Label: "Bonus (bei 63 oder mehr)", Values: []int{35, 0}},
		{Label: "Gesamtsumme", Values: []int{182, 0}},
	}
	for i, row := range want {
		if b.Summary[i].Label != row.Label || !slices.Equal(b.Summary[i].Values, row.Values) {
			t.Errorf("summary[%d] = %+v, want %+v", i, b.Summary[i], row)
		}
	}

	for _, row := range b.Rows {
		if row.Category.Name != "Große Straße" {
			continue
		}
		anna := row.Cells[0]
		if !anna.Set || !anna.Struck() || anna.Achieved() || anna.Input() != "0" {
			t.Errorf("struck cell = %+v", anna)
		}
		if ben := row.Cells[1]; ben.Set || ben.Input() != "" {
			t.Errorf("unset cell = %+v", ben)
		}
	}
}

func TestRender_DoesNotShareState(t *testing.T) {
	st := scenarioState(t)
	b := Render(st)
	b.Players[0] = "Zoe"

	if st.Players[0] != "Anna" {
		t.Fatal("Render leaked the players slice")
	}
}

func parseFragment(t *testing.T, html []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fragment: %v", err)
	}

	return doc
}

func TestRenderFragment_Empty(t *testing.T) {
	html, err := renderFragment(Render(State{}))
	if err != nil {
		t.Fatal(err)
	}

	doc := parseFragment(t, html)

	if doc.Find("#score-table-container").Length() != 1 {
		t.Fatal("missing container")
	}
	if doc.Find("table").Length() != 0 {
		t.Fatal("empty scoreboard should not render a table")
	}
	if got := strings.TrimSpace(doc.Find("#score-table").Text()); got != "Füge Spieler hinzu, um das Spiel zu beginnen." {
		t.Fatalf("hint = %q", got)
	}
	if doc.Find("#reset-scores").Length() != 0 {
		t.Fatal("reset button shown without players")
	}
}

func TestRenderFragment_Table(t *testing.T) {
	html, err := renderFragment(Render(scenarioState(t)))
	if err != nil {
		t.Fatal(err)
	}

	doc := parseFragment(t, html)

	var headers []string
	doc.Find("thead .player span").Each(func(_ int, s *goquery.Selection) {
		headers = append(headers, s.Text())
	})
	if !slices.Equal(headers, []string{"Anna", "Ben"}) {
		t.Fatalf("headers = %q", headers)
	}

	if n := doc.Find("tr.category").Length(); n != len(categories) {
		t.Fatalf("category rows = %d, want %d", n, len(categories))
	}

	benChips := doc.Find("tr.missing td").Eq(2).Find(".chip")
	if benChips.Length() != len(categories) {
		t.Fatalf("Ben missing chips = %d", benChips.Length())
	}

	fullHouse := doc.Find(`select[data-player="Anna"][data-category="Full House"]`)
	if fullHouse.Length() != 1 {
		t.Fatal("Full House should render a selector")
	}
	if v, _ := fullHouse.Find("option[selected]").Attr("value"); v != "25" {
		t.Fatalf("Full House selected = %q, want 25", v)
	}
	if v, _ := doc.Find(`select[data-player="Anna"][data-category="Große Straße"] option[selected]`).Attr("value"); v != "0" {
		t.Fatalf("Große Straße selected = %q, want 0", v)
	}

	einser := doc.Find(`input[data-player="Anna"][data-category="Einser"]`)
	if v, _ := einser.Attr("value"); v != "5" {
		t.Fatalf("Einser input = %q, want 5", v)
	}
	if typ, _ := einser.Attr("type"); typ != "number" {
		t.Fatalf("Einser input type = %q", typ)
	}

	var totals []string
	doc.Find("tr.summary").Last().Find("td").Each(func(_ int, s *goquery.Selection) {
		totals = append(totals, strings.TrimSpace(s.Text()))
	})
	if !slices.Equal(totals, []string{"Gesamtsumme", "182", "0"}) {
		t.Fatalf("grand total row = %q", totals)
	}

	if doc.Find("#reset-scores").Length() != 1 {
		t.Fatal("reset button missing")
	}
}

func TestRenderFragment_EscapesNames(t *testing.T) {
	var st State
	st.AddPlayer(`<script>alert("x")</script>`)

	html, err := renderFragment(Render(st))
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Contains(html, []byte("<script>")) {
		t.Fatal("player name was not escaped")
	}

	doc := parseFragment(t, html)
	if got := doc.Find("thead .player span").Text(); got != `<script>alert("x")</script>` {
		t.Fatalf("header text = %q", got)
	}
}
