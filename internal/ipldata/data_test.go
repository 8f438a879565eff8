// Package ipldata_test tests the reference data catalog.
package ipldata_test

import (
	"testing"

	"github.com/vamshik/iplbot/internal/ipldata"
)

func TestFindPlayer(t *testing.T) {
	t.Parallel()

	catalog := ipldata.NewCatalog()

	tests := []struct {
		name     string
		query    string
		wantName string
		wantNil  bool
	}{
		{name: "exact match", query: "virat kohli", wantName: "Virat Kohli"},
		{name: "case insensitive", query: "Virat Kohli", wantName: "Virat Kohli"},
		{name: "partial match", query: "kohli", wantName: "Virat Kohli"},
		{name: "dhoni partial", query: "dhoni", wantName: "MS Dhoni"},
		{name: "unknown player", query: "sachin tendulkar", wantNil: true},
		{name: "empty query", query: "", wantNil: true},
		{name: "whitespace query", query: "   ", wantNil: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := catalog.FindPlayer(tc.query)
			if tc.wantNil {
				if got != nil {
					t.Fatalf("FindPlayer(%q) = %+v, want nil", tc.query, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("FindPlayer(%q) = nil, want %q", tc.query, tc.wantName)
			}
			if got.Name != tc.wantName {
				t.Errorf("FindPlayer(%q).Name = %q, want %q", tc.query, got.Name, tc.wantName)
			}
		})
	}
}

func TestFindTeam(t *testing.T) {
	t.Parallel()

	catalog := ipldata.NewCatalog()

	tests := []struct {
		name     string
		query    string
		wantName string
		wantNil  bool
	}{
		{name: "short name", query: "csk", wantName: "CSK"},
		{name: "uppercase short name", query: "MI", wantName: "MI"},
		{name: "full name substring", query: "chennai", wantName: "CSK"},
		{name: "unknown team", query: "gujarat", wantNil: true},
		{name: "empty", query: "", wantNil: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := catalog.FindTeam(tc.query)
			if tc.wantNil {
				if got != nil {
					t.Fatalf("FindTeam(%q) = %+v, want nil", tc.query, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("FindTeam(%q) = nil, want %q", tc.query, tc.wantName)
			}
			if got.Name != tc.wantName {
				t.Errorf("FindTeam(%q).Name = %q, want %q", tc.query, got.Name, tc.wantName)
			}
		})
	}
}

func TestFindMatch(t *testing.T) {
	t.Parallel()

	catalog := ipldata.NewCatalog()

	t.Run("direct order", func(t *testing.T) {
		t.Parallel()
		m := catalog.FindMatch("csk", "mi")
		if m == nil {
			t.Fatal("FindMatch(csk, mi) = nil, want match")
		}
		if m.Team1 != "CSK" || m.Team2 != "MI" {
			t.Errorf("got %s vs %s, want CSK vs MI", m.Team1, m.Team2)
		}
	})

	t.Run("reversed order", func(t *testing.T) {
		t.Parallel()
		m := catalog.FindMatch("mi", "csk")
		if m == nil {
			t.Fatal("FindMatch(mi, csk) = nil, want match")
		}
		if m.Team1 != "CSK" || m.Team2 != "MI" {
			t.Errorf("got %s vs %s, want CSK vs MI", m.Team1, m.Team2)
		}
	})

	t.Run("unknown fixture", func(t *testing.T) {
		t.Parallel()
		if m := catalog.FindMatch("csk", "gujarat"); m != nil {
			t.Fatalf("FindMatch(csk, gujarat) = %+v, want nil", m)
		}
	})

	t.Run("empty team", func(t *testing.T) {
		t.Parallel()
		if m := catalog.FindMatch("", "mi"); m != nil {
			t.Fatalf("FindMatch with empty team = %+v, want nil", m)
		}
	})
}

func TestStats(t *testing.T) {
	t.Parallel()

	stats := ipldata.NewCatalog().Stats()
	if stats.TotalMatches <= 0 {
		t.Errorf("TotalMatches = %d, want > 0", stats.TotalMatches)
	}
	if stats.MostRunsPlayer == "" || stats.MostWicketsPlayer == "" {
		t.Error("season stats missing player records")
	}
}
