package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/sports-sync/internal/domain/league"
	"github.com/riskibarqy/sports-sync/internal/domain/match"
	"github.com/riskibarqy/sports-sync/internal/domain/standing"
	"github.com/riskibarqy/sports-sync/internal/domain/team"
)

// externalStatuses maps provider status vocabularies onto match statuses.
// Keys are upper-cased before lookup.
var externalStatuses = map[string]string{
	"TBD":         match.StatusScheduled,
	"NS":          match.StatusScheduled,
	"NOT STARTED": match.StatusScheduled,
	"SCHEDULED":   match.StatusScheduled,
	"TIMED":       match.StatusScheduled,

	"1H":      match.StatusLive,
	"HT":      match.StatusLive,
	"2H":      match.StatusLive,
	"ET":      match.StatusLive,
	"BT":      match.StatusLive,
	"P":       match.StatusLive,
	"LIVE":    match.StatusLive,
	"INT":     match.StatusLive,
	"IN_PLAY": match.StatusLive,
	"PAUSED":  match.StatusLive,

	"FT":       match.StatusFinished,
	"AET":      match.StatusFinished,
	"PEN":      match.StatusFinished,
	"AWD":      match.StatusFinished,
	"WO":       match.StatusFinished,
	"FINISHED": match.StatusFinished,
	"AWARDED":  match.StatusFinished,

	"PST":       match.StatusPostponed,
	"SUSP":      match.StatusPostponed,
	"POSTPONED": match.StatusPostponed,
	"SUSPENDED": match.StatusPostponed,

	"CANC":      match.StatusCancelled,
	"ABD":       match.StatusCancelled,
	"CANCELLED": match.StatusCancelled,
}

// statisticKeys maps provider statistic labels onto stored keys.
var statisticKeys = map[string]string{
	"ball possession":  "possession",
	"total shots":      "shots",
	"shots on goal":    "shots_on_target",
	"shots off goal":   "shots_off_target",
	"blocked shots":    "shots_blocked",
	"total passes":     "passes",
	"passes accurate":  "passes_accurate",
	"passes %":         "pass_accuracy",
	"fouls":            "fouls",
	"yellow cards":     "yellow_cards",
	"red cards":        "red_cards",
	"corner kicks":     "corners",
	"offsides":         "offsides",
	"goalkeeper saves": "saves",
	"expected_goals":   "expected_goals",
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

func NormalizeMatchStatus(external string) (string, error) {
	key := strings.ToUpper(strings.TrimSpace(external))
	if key == "" {
		return "", fmt.Errorf("%w: match status is required", ErrDataParsing)
	}
	if status, ok := externalStatuses[key]; ok {
		return status, nil
	}
	return "", fmt.Errorf("%w: unknown match status %q", ErrDataParsing, external)
}

func NormalizeLeague(raw RawLeague, sportID int64) (league.League, error) {
	externalID := strings.TrimSpace(raw.ExternalID)
	name := strings.TrimSpace(raw.Name)
	if externalID == "" {
		return league.League{}, fmt.Errorf("%w: league external id is required", ErrDataParsing)
	}
	if name == "" {
		return league.League{}, fmt.Errorf("%w: league %s: name is required", ErrDataParsing, externalID)
	}

	season, err := coerceString(raw.Season)
	if err != nil {
		return league.League{}, fmt.Errorf("%w: league %s: season: %v", ErrDataParsing, externalID, err)
	}
	tier, err := coerceInt(raw.Tier)
	if err != nil {
		return league.League{}, fmt.Errorf("%w: league %s: tier: %v", ErrDataParsing, externalID, err)
	}

	out := league.League{
		SportID:    sportID,
		ExternalID: externalID,
		Name:       name,
		Country:    strings.TrimSpace(raw.Country),
		Season:     season,
		LogoURL:    strings.TrimSpace(raw.LogoURL),
		Type:       strings.TrimSpace(raw.Type),
		IsActive:   true,
	}
	if tier != nil {
		out.Tier = *tier
	}
	if err := out.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrDataParsing, err)
	}
	return out, nil
}

func NormalizeTeam(raw RawTeam, sportID int64) (team.Team, error) {
	externalID := strings.TrimSpace(raw.ExternalID)
	name := strings.TrimSpace(raw.Name)
	if externalID == "" {
		return team.Team{}, fmt.Errorf("%w: team external id is required", ErrDataParsing)
	}
	if name == "" {
		return team.Team{}, fmt.Errorf("%w: team %s: name is required", ErrDataParsing, externalID)
	}

	founded, err := coerceInt(raw.Founded)
	if err != nil {
		return team.Team{}, fmt.Errorf("%w: team %s: founded: %v", ErrDataParsing, externalID, err)
	}
	capacity, err := coerceInt(raw.VenueCapacity)
	if err != nil {
		return team.Team{}, fmt.Errorf("%w: team %s: venue capacity: %v", ErrDataParsing, externalID, err)
	}

	out := team.Team{
		SportID:       sportID,
		ExternalID:    externalID,
		Name:          name,
		Code:          strings.ToUpper(strings.TrimSpace(raw.Code)),
		Country:       strings.TrimSpace(raw.Country),
		FoundedYear:   founded,
		LogoURL:       strings.TrimSpace(raw.LogoURL),
		Venue:         strings.TrimSpace(raw.Venue),
		VenueCity:     strings.TrimSpace(raw.VenueCity),
		VenueCapacity: capacity,
		IsActive:      true,
	}
	if out.FoundedYear != nil && *out.FoundedYear <= 0 {
		out.FoundedYear = nil
	}
	if err := out.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrDataParsing, err)
	}
	return out, nil
}

func NormalizeMatch(raw RawMatch, leagueID, homeTeamID, awayTeamID int64) (match.Match, error) {
	externalID := strings.TrimSpace(raw.ExternalID)
	if externalID == "" {
		return match.Match{}, fmt.Errorf("%w: match external id is required", ErrDataParsing)
	}

	kickoff, err := parseTimestamp(raw.Kickoff)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: match %s: kickoff: %v", ErrDataParsing, externalID, err)
	}
	status, err := NormalizeMatchStatus(raw.Status)
	if err != nil {
		return match.Match{}, fmt.Errorf("match %s: %w", externalID, err)
	}

	scores := make([]*int, 4)
	for i, v := range []any{raw.HomeScore, raw.AwayScore, raw.HalftimeHome, raw.HalftimeAway} {
		scores[i], err = coerceInt(v)
		if err != nil {
			return match.Match{}, fmt.Errorf("%w: match %s: score: %v", ErrDataParsing, externalID, err)
		}
	}

	out := match.Match{
		ExternalID:   externalID,
		LeagueID:     leagueID,
		HomeTeamID:   homeTeamID,
		AwayTeamID:   awayTeamID,
		ScheduledAt:  kickoff,
		Status:       status,
		HomeScore:    scores[0],
		AwayScore:    scores[1],
		HalftimeHome: scores[2],
		HalftimeAway: scores[3],
		Venue:        joinVenue(raw.Venue, raw.VenueCity),
		Referee:      strings.TrimSpace(raw.Referee),
		Round:        strings.TrimSpace(raw.Round),
	}
	if status == match.StatusScheduled {
		out.HomeScore, out.AwayScore = nil, nil
		out.HalftimeHome, out.HalftimeAway = nil, nil
	}
	if err := out.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrDataParsing, err)
	}
	return out, nil
}

// NormalizeStanding converts one table row. Form keeps the first
// standing.FormLength results; separators and unknown letters are dropped.
func NormalizeStanding(raw RawStanding, leagueID, teamID int64, season string) (standing.Standing, error) {
	label := strings.TrimSpace(raw.TeamExternalID)
	if label == "" {
		return standing.Standing{}, fmt.Errorf("%w: standing team external id is required", ErrDataParsing)
	}

	position, err := coerceInt(raw.Position)
	if err != nil {
		return standing.Standing{}, fmt.Errorf("%w: standing %s: position: %v", ErrDataParsing, label, err)
	}
	if position == nil {
		return standing.Standing{}, fmt.Errorf("%w: standing %s: position is required", ErrDataParsing, label)
	}
	points, err := coerceInt(raw.Points)
	if err != nil {
		return standing.Standing{}, fmt.Errorf("%w: standing %s: points: %v", ErrDataParsing, label, err)
	}

	out := standing.Standing{
		LeagueID: leagueID,
		TeamID:   teamID,
		Season:   season,
		Position: *position,
		Form:     normalizeForm(raw.Form),
	}
	if points != nil {
		out.Points = *points
	}
	for _, part := range []struct {
		name string
		raw  RawStandingRecord
		dst  *standing.Record
	}{
		{"overall", raw.Overall, &out.Overall},
		{"home", raw.Home, &out.Home},
		{"away", raw.Away, &out.Away},
	} {
		if *part.dst, err = normalizeStandingRecord(part.raw); err != nil {
			return standing.Standing{}, fmt.Errorf("%w: standing %s: %s: %v", ErrDataParsing, label, part.name, err)
		}
	}
	if updated := strings.TrimSpace(raw.UpdatedAt); updated != "" {
		if ts, err := parseTimestamp(updated); err == nil {
			out.SourceUpdatedAt = &ts
		}
	}

	if err := out.Validate(); err != nil {
		return standing.Standing{}, fmt.Errorf("%w: %v", ErrDataParsing, err)
	}
	return out, nil
}

func normalizeStandingRecord(raw RawStandingRecord) (standing.Record, error) {
	var out standing.Record
	fields := []struct {
		value any
		dst   *int
	}{
		{raw.Played, &out.Played},
		{raw.Won, &out.Won},
		{raw.Drawn, &out.Drawn},
		{raw.Lost, &out.Lost},
		{raw.GoalsFor, &out.GoalsFor},
		{raw.GoalsAgainst, &out.GoalsAgainst},
	}
	for _, f := range fields {
		n, err := coerceInt(f.value)
		if err != nil {
			return standing.Record{}, err
		}
		if n != nil {
			*f.dst = *n
		}
	}
	return out, nil
}

func normalizeForm(value string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(value) {
		if b.Len() == standing.FormLength {
			break
		}
		switch r {
		case 'W', 'D', 'L':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeStatistics renders both sides' statistics as canonical JSON
// (sorted keys, float values) so equal inputs always produce equal bytes.
func NormalizeStatistics(raw RawMatchStatistics) ([]byte, error) {
	if strings.TrimSpace(raw.MatchExternalID) == "" {
		return nil, fmt.Errorf("%w: statistics match external id is required", ErrDataParsing)
	}
	if len(raw.Home.Values) == 0 && len(raw.Away.Values) == 0 {
		return nil, fmt.Errorf("%w: match %s: statistics are empty", ErrDataParsing, raw.MatchExternalID)
	}

	doc := map[string]any{
		"home": normalizeTeamStatistics(raw.Home.Values),
		"away": normalizeTeamStatistics(raw.Away.Values),
	}
	out, err := sonic.ConfigStd.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: match %s: encode statistics: %v", ErrDataParsing, raw.MatchExternalID, err)
	}
	return out, nil
}

func normalizeTeamStatistics(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for label, value := range values {
		key, ok := statisticKeys[strings.ToLower(strings.TrimSpace(label))]
		if !ok {
			continue
		}
		if number, ok := coerceFloat(value); ok {
			out[key] = number
		}
	}
	return out
}

func coerceInt(value any) (*int, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case int:
		return &v, nil
	case int64:
		n := int(v)
		return &n, nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("%v is not an integer", v)
		}
		n := int(v)
		return &n, nil
	case *int:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", v)
		}
		return &n, nil
	case fmt.Stringer:
		return coerceInt(v.String())
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
}

func coerceFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(v), "%")
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func coerceString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	default:
		n, err := coerceInt(value)
		if err != nil {
			return "", err
		}
		if n == nil {
			return "", nil
		}
		return strconv.Itoa(*n), nil
	}
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("timestamp is required")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", value)
}

func joinVenue(name, city string) string {
	name, city = strings.TrimSpace(name), strings.TrimSpace(city)
	switch {
	case name == "":
		return city
	case city == "" || strings.Contains(name, city):
		return name
	default:
		return name + ", " + city
	}
}
