package apifootball

import (
	"github.com/riskibarqy/sports-sync/external/fetch"
	"github.com/riskibarqy/sports-sync/internal/usecase"
)

type leagueItem struct {
	League struct {
		ID   any    `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
		Logo string `json:"logo"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
	} `json:"country"`
	Seasons []struct {
		Year    any  `json:"year"`
		Current bool `json:"current"`
	} `json:"seasons"`
}

// currentSeason is the year flagged current, else the last listed one.
func (l leagueItem) currentSeason() any {
	for _, season := range l.Seasons {
		if season.Current {
			return season.Year
		}
	}
	if n := len(l.Seasons); n > 0 {
		return l.Seasons[n-1].Year
	}
	return nil
}

type teamItem struct {
	Team struct {
		ID      any    `json:"id"`
		Name    string `json:"name"`
		Code    string `json:"code"`
		Country string `json:"country"`
		Founded any    `json:"founded"`
		Logo    string `json:"logo"`
	} `json:"team"`
	Venue struct {
		Name     string `json:"name"`
		City     string `json:"city"`
		Capacity any    `json:"capacity"`
	} `json:"venue"`
}

type scorePair struct {
	Home any `json:"home"`
	Away any `json:"away"`
}

type fixtureTeam struct {
	ID   any    `json:"id"`
	Name string `json:"name"`
}

type fixtureItem struct {
	Fixture struct {
		ID      any    `json:"id"`
		Date    string `json:"date"`
		Referee string `json:"referee"`
		Status  struct {
			Short string `json:"short"`
		} `json:"status"`
		Venue struct {
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
	} `json:"fixture"`
	League struct {
		Round string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home fixtureTeam `json:"home"`
		Away fixtureTeam `json:"away"`
	} `json:"teams"`
	Goals scorePair `json:"goals"`
	Score struct {
		Halftime scorePair `json:"halftime"`
	} `json:"score"`
}

type statisticsItem struct {
	Team       fixtureTeam `json:"team"`
	Statistics []struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	} `json:"statistics"`
}

func (s statisticsItem) raw() usecase.RawTeamStatistics {
	values := make(map[string]any, len(s.Statistics))
	for _, stat := range s.Statistics {
		if stat.Type == "" {
			continue
		}
		values[stat.Type] = stat.Value
	}
	return usecase.RawTeamStatistics{
		TeamExternalID: fetch.IDString(s.Team.ID),
		Values:         values,
	}
}

type standingsItem struct {
	League struct {
		ID        any              `json:"id"`
		Season    any              `json:"season"`
		Standings [][]standingItem `json:"standings"`
	} `json:"league"`
}

type standingSplit struct {
	Played any `json:"played"`
	Win    any `json:"win"`
	Draw   any `json:"draw"`
	Lose   any `json:"lose"`
	Goals  struct {
		For     any `json:"for"`
		Against any `json:"against"`
	} `json:"goals"`
}

func (s standingSplit) raw() usecase.RawStandingRecord {
	return usecase.RawStandingRecord{
		Played:       s.Played,
		Won:          s.Win,
		Drawn:        s.Draw,
		Lost:         s.Lose,
		GoalsFor:     s.Goals.For,
		GoalsAgainst: s.Goals.Against,
	}
}

type standingItem struct {
	Rank   any           `json:"rank"`
	Team   fixtureTeam   `json:"team"`
	Points any           `json:"points"`
	Form   string        `json:"form"`
	All    standingSplit `json:"all"`
	Home   standingSplit `json:"home"`
	Away   standingSplit `json:"away"`
	Update string        `json:"update"`
}

func (s standingItem) raw() usecase.RawStanding {
	return usecase.RawStanding{
		TeamExternalID: fetch.IDString(s.Team.ID),
		TeamName:       s.Team.Name,
		Position:       s.Rank,
		Points:         s.Points,
		Form:           s.Form,
		Overall:        s.All.raw(),
		Home:           s.Home.raw(),
		Away:           s.Away.raw(),
		UpdatedAt:      s.Update,
	}
}

type accountStatus struct {
	Account struct {
		Firstname string `json:"firstname"`
		Lastname  string `json:"lastname"`
	} `json:"account"`
	Subscription struct {
		Plan   string `json:"plan"`
		End    string `json:"end"`
		Active bool   `json:"active"`
	} `json:"subscription"`
	Requests struct {
		Current  any `json:"current"`
		LimitDay any `json:"limit_day"`
	} `json:"requests"`
}

func (a accountStatus) summary() map[string]any {
	return map[string]any{
		"plan":               a.Subscription.Plan,
		"subscription_end":   a.Subscription.End,
		"subscription_live":  a.Subscription.Active,
		"requests_today":     a.Requests.Current,
		"requests_limit_day": a.Requests.LimitDay,
	}
}
