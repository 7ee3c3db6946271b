package usecase

import (
	"bytes"
	"reflect"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/sports-sync/internal/domain/league"
	"github.com/riskibarqy/sports-sync/internal/domain/match"
	"github.com/riskibarqy/sports-sync/internal/domain/standing"
	"github.com/riskibarqy/sports-sync/internal/domain/team"
)

// The diff helpers compare only fields the source owns. Identity and
// bookkeeping columns (ids, timestamps) are never part of a diff.

func leagueChanges(stored, incoming league.League) []string {
	var changed []string
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}
	add("name", stored.Name != incoming.Name)
	add("country", stored.Country != incoming.Country)
	add("tier", stored.Tier != incoming.Tier)
	add("logo_url", stored.LogoURL != incoming.LogoURL)
	add("type", stored.Type != incoming.Type)
	add("is_active", stored.IsActive != incoming.IsActive)
	return changed
}

func mergeLeague(stored, incoming league.League) league.League {
	out := stored
	out.Name = incoming.Name
	out.Country = incoming.Country
	out.Tier = incoming.Tier
	out.LogoURL = incoming.LogoURL
	out.Type = incoming.Type
	out.IsActive = incoming.IsActive
	return out
}

func teamChanges(stored, incoming team.Team) []string {
	var changed []string
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}
	add("name", stored.Name != incoming.Name)
	add("code", stored.Code != incoming.Code)
	add("country", stored.Country != incoming.Country)
	add("founded_year", !intPtrEqual(stored.FoundedYear, incoming.FoundedYear))
	add("logo_url", stored.LogoURL != incoming.LogoURL)
	add("venue", stored.Venue != incoming.Venue)
	add("venue_city", stored.VenueCity != incoming.VenueCity)
	add("venue_capacity", !intPtrEqual(stored.VenueCapacity, incoming.VenueCapacity))
	add("is_active", stored.IsActive != incoming.IsActive)
	return changed
}

func mergeTeam(stored, incoming team.Team) team.Team {
	out := stored
	out.Name = incoming.Name
	out.Code = incoming.Code
	out.Country = incoming.Country
	out.FoundedYear = incoming.FoundedYear
	out.LogoURL = incoming.LogoURL
	out.Venue = incoming.Venue
	out.VenueCity = incoming.VenueCity
	out.VenueCapacity = incoming.VenueCapacity
	out.IsActive = incoming.IsActive
	return out
}

// standingChanges ignores SourceUpdatedAt, which moves on every provider
// refresh even when the table row is the same.
func standingChanges(stored, incoming standing.Standing) []string {
	var changed []string
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}
	add("season", stored.Season != incoming.Season)
	add("position", stored.Position != incoming.Position)
	add("points", stored.Points != incoming.Points)
	add("form", stored.Form != incoming.Form)
	add("overall", stored.Overall != incoming.Overall)
	add("home", stored.Home != incoming.Home)
	add("away", stored.Away != incoming.Away)
	return changed
}

func mergeStanding(stored, incoming standing.Standing) standing.Standing {
	out := stored
	out.Season = incoming.Season
	out.Position = incoming.Position
	out.Points = incoming.Points
	out.Form = incoming.Form
	out.Overall = incoming.Overall
	out.Home = incoming.Home
	out.Away = incoming.Away
	out.SourceUpdatedAt = incoming.SourceUpdatedAt
	return out
}

// mergeMatch applies incoming onto stored. Status, kickoff and scores
// follow the status transition; a rejected transition keeps the stored
// values because the payload is stale.
func mergeMatch(stored, incoming match.Match) (match.Match, match.Transition) {
	transition := match.ReconcileStatus(stored, incoming)

	out := stored
	out.LeagueID = incoming.LeagueID
	out.HomeTeamID = incoming.HomeTeamID
	out.AwayTeamID = incoming.AwayTeamID
	out.Venue = incoming.Venue
	out.Referee = incoming.Referee
	out.Round = incoming.Round
	if incoming.Statistics != nil {
		out.Statistics = incoming.Statistics
	}
	if transition.Accepted {
		out.Status = transition.To
		out.ScheduledAt = incoming.ScheduledAt
		out.HomeScore, out.AwayScore = incoming.HomeScore, incoming.AwayScore
		out.HalftimeHome, out.HalftimeAway = incoming.HalftimeHome, incoming.HalftimeAway
	}
	if out.Status == match.StatusScheduled {
		out.HomeScore, out.AwayScore = nil, nil
		out.HalftimeHome, out.HalftimeAway = nil, nil
	}
	return out, transition
}

func matchChanges(stored, merged match.Match) []string {
	var changed []string
	add := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}
	add("league_id", stored.LeagueID != merged.LeagueID)
	add("home_team_id", stored.HomeTeamID != merged.HomeTeamID)
	add("away_team_id", stored.AwayTeamID != merged.AwayTeamID)
	add("scheduled_at", !stored.ScheduledAt.Equal(merged.ScheduledAt))
	add("status", stored.Status != merged.Status)
	add("home_score", !intPtrEqual(stored.HomeScore, merged.HomeScore))
	add("away_score", !intPtrEqual(stored.AwayScore, merged.AwayScore))
	add("halftime_home", !intPtrEqual(stored.HalftimeHome, merged.HalftimeHome))
	add("halftime_away", !intPtrEqual(stored.HalftimeAway, merged.HalftimeAway))
	add("venue", stored.Venue != merged.Venue)
	add("referee", stored.Referee != merged.Referee)
	add("round", stored.Round != merged.Round)
	add("statistics", !jsonEqual(stored.Statistics, merged.Statistics))
	return changed
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// jsonEqual compares documents semantically, since the store may return
// JSON with different key order or spacing than was written.
func jsonEqual(a, b []byte) bool {
	if bytes.Equal(a, b) {
		return true
	}
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	var left, right any
	if err := sonic.Unmarshal(a, &left); err != nil {
		return false
	}
	if err := sonic.Unmarshal(b, &right); err != nil {
		return false
	}
	return reflect.DeepEqual(left, right)
}
