package standing

import (
	"fmt"
	"strings"
	"time"
)

// FormLength is how many recent results a standing keeps.
const FormLength = 5

// Record counts a team's results over one slice of a season.
type Record struct {
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
}

func (r Record) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

func (r Record) validate(label string) error {
	for _, v := range []int{r.Played, r.Won, r.Drawn, r.Lost, r.GoalsFor, r.GoalsAgainst} {
		if v < 0 {
			return fmt.Errorf("standing %s counts must be >= 0", label)
		}
	}
	if r.Won+r.Drawn+r.Lost > r.Played {
		return fmt.Errorf("standing %s results exceed matches played", label)
	}
	return nil
}

// Standing is one team's league table row and season statistics. LeagueID
// points at the league row of one season, so (LeagueID, TeamID) is the
// natural key.
type Standing struct {
	ID              int64
	LeagueID        int64
	TeamID          int64
	Season          string
	Position        int
	Points          int
	Form            string
	Overall         Record
	Home            Record
	Away            Record
	SourceUpdatedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s Standing) GoalDifference() int {
	return s.Overall.GoalDifference()
}

func (s Standing) Validate() error {
	if s.LeagueID <= 0 {
		return fmt.Errorf("standing league id is required")
	}
	if s.TeamID <= 0 {
		return fmt.Errorf("standing team id is required")
	}
	if strings.TrimSpace(s.Season) == "" {
		return fmt.Errorf("standing season is required")
	}
	if s.Position <= 0 {
		return fmt.Errorf("standing position must be > 0")
	}
	if len(s.Form) > FormLength || strings.Trim(s.Form, "WDL") != "" {
		return fmt.Errorf("standing form %q must be up to %d of W, D or L", s.Form, FormLength)
	}
	if err := s.Overall.validate("overall"); err != nil {
		return err
	}
	if err := s.Home.validate("home"); err != nil {
		return err
	}
	return s.Away.validate("away")
}
