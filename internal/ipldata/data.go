// Package ipldata holds the bundled IPL reference dataset: teams,
// players, and matches keyed by normalized name. The catalog is
// read-only after construction; user-facing mutation goes through the
// storage tier, never through this package.
package ipldata

import (
	"strings"
)

// Team describes an IPL franchise.
type Team struct {
	Name          string
	FullName      string
	HomeGround    string
	Captain       string
	Championships string
}

// Player describes an IPL player with career aggregates.
type Player struct {
	Name    string
	Team    string
	Role    string
	Matches string
	Runs    string
	Wickets string
}

// Match describes a single fixture and its result.
type Match struct {
	Team1  string
	Team2  string
	Date   string
	Venue  string
	Result string
}

// SeasonStats summarizes league-wide records.
type SeasonStats struct {
	TotalMatches       int
	MostWinsTeam       string
	MostWinsCount      int
	HighestScoreTeam   string
	HighestScore       int
	MostRunsPlayer     string
	MostRuns           int
	MostWicketsPlayer  string
	MostWickets        int
}

// Catalog is the explicitly-owned reference dataset. Construct it once
// at startup and pass it by reference to whatever needs lookups.
type Catalog struct {
	teams   map[string]Team
	players map[string]Player
	matches map[string]Match
	stats   SeasonStats
}

// NewCatalog returns a catalog populated with the bundled sample data.
func NewCatalog() *Catalog {
	return &Catalog{
		teams: map[string]Team{
			"csk": {Name: "CSK", FullName: "Chennai Super Kings", HomeGround: "M. A. Chidambaram Stadium", Captain: "MS Dhoni", Championships: "5"},
			"mi":  {Name: "MI", FullName: "Mumbai Indians", HomeGround: "Wankhede Stadium", Captain: "Rohit Sharma", Championships: "5"},
			"rcb": {Name: "RCB", FullName: "Royal Challengers Bangalore", HomeGround: "M. Chinnaswamy Stadium", Captain: "Faf du Plessis", Championships: "0"},
			"kkr": {Name: "KKR", FullName: "Kolkata Knight Riders", HomeGround: "Eden Gardens", Captain: "Shreyas Iyer", Championships: "2"},
		},
		players: map[string]Player{
			"virat kohli":    {Name: "Virat Kohli", Team: "RCB", Role: "Batsman", Matches: "223", Runs: "6624", Wickets: "4"},
			"ms dhoni":       {Name: "MS Dhoni", Team: "CSK", Role: "Wicket-keeper Batsman", Matches: "220", Runs: "4978", Wickets: "0"},
			"rohit sharma":   {Name: "Rohit Sharma", Team: "MI", Role: "Batsman", Matches: "218", Runs: "5611", Wickets: "15"},
			"jasprit bumrah": {Name: "Jasprit Bumrah", Team: "MI", Role: "Bowler", Matches: "120", Runs: "56", Wickets: "145"},
		},
		matches: map[string]Match{
			"csk vs mi":  {Team1: "CSK", Team2: "MI", Date: "2023-05-06", Venue: "M. A. Chidambaram Stadium", Result: "CSK won by 7 wickets"},
			"rcb vs kkr": {Team1: "RCB", Team2: "KKR", Date: "2023-05-10", Venue: "M. Chinnaswamy Stadium", Result: "KKR won by 21 runs"},
			"mi vs rcb":  {Team1: "MI", Team2: "RCB", Date: "2023-05-14", Venue: "Wankhede Stadium", Result: "RCB won by 8 wickets"},
			"kkr vs csk": {Team1: "KKR", Team2: "CSK", Date: "2023-05-18", Venue: "Eden Gardens", Result: "CSK won by 3 runs"},
		},
		stats: SeasonStats{
			TotalMatches:      60,
			MostWinsTeam:      "CSK",
			MostWinsCount:     30,
			HighestScoreTeam:  "RCB",
			HighestScore:      263,
			MostRunsPlayer:    "Virat Kohli",
			MostRuns:          6624,
			MostWicketsPlayer: "Jasprit Bumrah",
			MostWickets:       145,
		},
	}
}

// FindPlayer looks up a player by normalized name, trying an exact key
// match first and then a partial match. Returns nil if nothing matches.
func (c *Catalog) FindPlayer(name string) *Player {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return nil
	}
	if p, ok := c.players[q]; ok {
		return &p
	}
	for key, p := range c.players {
		if strings.Contains(key, q) {
			return &p
		}
	}
	return nil
}

// FindTeam looks up a team by short name, catalog key, or a substring
// of its full name. Returns nil if nothing matches.
func (c *Catalog) FindTeam(name string) *Team {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return nil
	}
	for key, t := range c.teams {
		if q == key || q == strings.ToLower(t.Name) || strings.Contains(strings.ToLower(t.FullName), q) {
			return &t
		}
	}
	return nil
}

// FindMatch looks up a fixture between two teams, in either order.
// Returns nil if the fixture is not in the catalog.
func (c *Catalog) FindMatch(team1, team2 string) *Match {
	t1 := strings.ToLower(strings.TrimSpace(team1))
	t2 := strings.ToLower(strings.TrimSpace(team2))
	if t1 == "" || t2 == "" {
		return nil
	}
	if m, ok := c.matches[t1+" vs "+t2]; ok {
		return &m
	}
	for _, m := range c.matches {
		m1 := strings.ToLower(m.Team1)
		m2 := strings.ToLower(m.Team2)
		if (strings.Contains(m1, t1) && strings.Contains(m2, t2)) ||
			(strings.Contains(m2, t1) && strings.Contains(m1, t2)) {
			return &m
		}
	}
	return nil
}

// Stats returns the bundled season statistics.
func (c *Catalog) Stats() SeasonStats {
	return c.stats
}
