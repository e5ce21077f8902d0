package domain

// Domain contains the football-data models rendered by the dashboard.
// JSON tags follow the football-data.org v4 wire names.

type Competition struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Emblem string `json:"emblem"`
}

type Season struct {
	ID              int    `json:"id"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	CurrentMatchday *int   `json:"currentMatchday"`
}

type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
	Crest     string `json:"crest"`
	Logo      string `json:"logo,omitempty"`
}

type TableRow struct {
	Position       int    `json:"position"`
	Team           Team   `json:"team"`
	PlayedGames    int    `json:"playedGames"`
	Form           string `json:"form"`
	Won            int    `json:"won"`
	Draw           int    `json:"draw"`
	Lost           int    `json:"lost"`
	Points         int    `json:"points"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
}

type StandingGroup struct {
	Stage string     `json:"stage"`
	Type  string     `json:"type"`
	Group string     `json:"group"`
	Table []TableRow `json:"table"`
}

// Standings is the /competitions/{code}/standings payload.
type Standings struct {
	Competition Competition     `json:"competition"`
	Season      Season          `json:"season"`
	Standings   []StandingGroup `json:"standings"`
}

// Total returns the overall league table, or the first table when no TOTAL group exists.
func (s Standings) Total() []TableRow {
	for _, g := range s.Standings {
		if g.Type == "TOTAL" {
			return g.Table
		}
	}
	if len(s.Standings) > 0 {
		return s.Standings[0].Table
	}
	return nil
}

type ScorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type Score struct {
	Winner   string    `json:"winner"`
	FullTime ScorePair `json:"fullTime"`
}

type Match struct {
	ID       int    `json:"id"`
	UTCDate  string `json:"utcDate"`
	Status   string `json:"status"`
	Matchday int    `json:"matchday"`
	HomeTeam Team   `json:"homeTeam"`
	AwayTeam Team   `json:"awayTeam"`
	Score    Score  `json:"score"`

	// DateTimeFormat holds the display date and time, e.g. ["16 Aug", "19.00"].
	DateTimeFormat []string `json:"dateTimeFormat,omitempty"`
}

// MatchList is the /competitions/{code}/matches payload.
type MatchList struct {
	Competition Competition `json:"competition"`
	Matches     []Match     `json:"matches"`
}

// TeamLogo maps a club to its logo image.
type TeamLogo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}
