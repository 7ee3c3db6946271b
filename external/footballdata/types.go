package footballdata

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/sports-sync/external/fetch"
	"github.com/riskibarqy/sports-sync/internal/usecase"
)

type area struct {
	Name string `json:"name"`
}

type season struct {
	StartDate string `json:"startDate"`
}

// year is the start year of the season, the value the API accepts as
// its season filter.
func (s season) year() any {
	if len(s.StartDate) < 4 {
		return nil
	}
	return s.StartDate[:4]
}

type competition struct {
	ID            any    `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	Type          string `json:"type"`
	Emblem        string `json:"emblem"`
	Area          area   `json:"area"`
	CurrentSeason season `json:"currentSeason"`
}

type team struct {
	ID      any    `json:"id"`
	Name    string `json:"name"`
	TLA     string `json:"tla"`
	Crest   string `json:"crest"`
	Founded any    `json:"founded"`
	Venue   string `json:"venue"`
	Area    area   `json:"area"`
}

type scorePair struct {
	Home any `json:"home"`
	Away any `json:"away"`
}

type matchItem struct {
	ID       any    `json:"id"`
	UTCDate  string `json:"utcDate"`
	Status   string `json:"status"`
	Matchday any    `json:"matchday"`
	Stage    string `json:"stage"`
	Venue    string `json:"venue"`
	HomeTeam struct {
		ID   any    `json:"id"`
		Name string `json:"name"`
	} `json:"homeTeam"`
	AwayTeam struct {
		ID   any    `json:"id"`
		Name string `json:"name"`
	} `json:"awayTeam"`
	Score struct {
		FullTime scorePair `json:"fullTime"`
		HalfTime scorePair `json:"halfTime"`
	} `json:"score"`
	Referees []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"referees"`
}

func (m matchItem) referee() string {
	for _, ref := range m.Referees {
		if ref.Type == "" || ref.Type == "REFEREE" {
			return ref.Name
		}
	}
	return ""
}

func (m matchItem) round() string {
	if m.Matchday != nil {
		return fmt.Sprintf("Matchday %v", m.Matchday)
	}
	return strings.ReplaceAll(m.Stage, "_", " ")
}

type standingTable struct {
	Stage string       `json:"stage"`
	Type  string       `json:"type"`
	Group string       `json:"group"`
	Table []tableEntry `json:"table"`
}

type tableEntry struct {
	Position any `json:"position"`
	Team     struct {
		ID   any    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	PlayedGames  any    `json:"playedGames"`
	Form         string `json:"form"`
	Won          any    `json:"won"`
	Draw         any    `json:"draw"`
	Lost         any    `json:"lost"`
	Points       any    `json:"points"`
	GoalsFor     any    `json:"goalsFor"`
	GoalsAgainst any    `json:"goalsAgainst"`
}

func (e tableEntry) record() usecase.RawStandingRecord {
	return usecase.RawStandingRecord{
		Played:       e.PlayedGames,
		Won:          e.Won,
		Drawn:        e.Draw,
		Lost:         e.Lost,
		GoalsFor:     e.GoalsFor,
		GoalsAgainst: e.GoalsAgainst,
	}
}

// mergeStandingTables keys rows by team. Only tables of the first TOTAL
// table's group are used, so cup groups do not collide.
func mergeStandingTables(tables []standingTable) []usecase.RawStanding {
	group, found := "", false
	for _, table := range tables {
		if table.Type == "TOTAL" {
			group, found = table.Group, true
			break
		}
	}
	if !found {
		return []usecase.RawStanding{}
	}

	var out []usecase.RawStanding
	index := map[string]int{}
	for _, table := range tables {
		if table.Type != "TOTAL" || table.Group != group {
			continue
		}
		for _, entry := range table.Table {
			id := fetch.IDString(entry.Team.ID)
			index[id] = len(out)
			out = append(out, usecase.RawStanding{
				TeamExternalID: id,
				TeamName:       entry.Team.Name,
				Position:       entry.Position,
				Points:         entry.Points,
				Form:           entry.Form,
				Overall:        entry.record(),
			})
		}
		break
	}
	for _, table := range tables {
		if table.Group != group || (table.Type != "HOME" && table.Type != "AWAY") {
			continue
		}
		for _, entry := range table.Table {
			i, ok := index[fetch.IDString(entry.Team.ID)]
			if !ok {
				continue
			}
			if table.Type == "HOME" {
				out[i].Home = entry.record()
			} else {
				out[i].Away = entry.record()
			}
		}
	}
	if out == nil {
		return []usecase.RawStanding{}
	}
	return out
}
