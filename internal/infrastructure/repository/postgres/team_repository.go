package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-sync/internal/domain/team"
	qb "github.com/riskibarqy/sports-sync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByNaturalKey(ctx context.Context, sportID int64, externalID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("sport_id", sportID),
			qb.Eq("external_id", externalID),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by natural key query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team sport_id=%d external_id=%s: %w", sportID, externalID, err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID int64, season string) ([]team.Team, error) {
	query, args, err := qb.Select("t.*").
		From("teams t JOIN team_league_memberships m ON m.team_id = t.id").
		Where(
			qb.Eq("m.league_id", leagueID),
			qb.Eq("m.season", season),
		).
		OrderBy("t.name", "t.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by league query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by league: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) (team.Team, bool, error) {
	query, args, err := qb.InsertModel("teams", newTeamInsertModel(item),
		`ON CONFLICT (sport_id, external_id) DO NOTHING RETURNING *`)
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build insert team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("insert team external_id=%s: %w", item.ExternalID, err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) error {
	query, args, err := qb.Update("teams").
		Set("name", item.Name).
		Set("code", item.Code).
		Set("country", item.Country).
		Set("founded_year", item.FoundedYear).
		Set("logo_url", item.LogoURL).
		Set("venue", item.Venue).
		Set("venue_city", item.VenueCity).
		Set("venue_capacity", item.VenueCapacity).
		Set("is_active", item.IsActive).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update team id=%d: %w", item.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("team id=%d not found", item.ID)
	}
	return nil
}

func (r *TeamRepository) UpsertMembership(ctx context.Context, item team.Membership) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx upsert membership: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("team_league_memberships", membershipInsertModel{
		LeagueID:  item.LeagueID,
		TeamID:    item.TeamID,
		Season:    item.Season,
		IsCurrent: item.IsCurrent,
	}, `ON CONFLICT (league_id, team_id, season) DO UPDATE SET
    is_current = EXCLUDED.is_current,
    updated_at = NOW()
WHERE team_league_memberships.is_current IS DISTINCT FROM EXCLUDED.is_current`)
	if err != nil {
		return false, fmt.Errorf("build upsert membership query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("upsert membership league_id=%d team_id=%d season=%s: %w", item.LeagueID, item.TeamID, item.Season, err)
	}
	affected, _ := res.RowsAffected()
	changed := affected > 0

	if item.IsCurrent {
		clearQuery, clearArgs, err := clearCurrentMembershipsQuery(item)
		if err != nil {
			return false, fmt.Errorf("build clear current memberships query: %w", err)
		}
		res, err := tx.ExecContext(ctx, clearQuery, clearArgs...)
		if err != nil {
			return false, fmt.Errorf("clear current memberships team_id=%d: %w", item.TeamID, err)
		}
		if cleared, _ := res.RowsAffected(); cleared > 0 {
			changed = true
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit upsert membership tx: %w", err)
	}
	return changed, nil
}

// clearCurrentMembershipsQuery unflags the team's other memberships in any
// season row of the same competition (same sport and external id).
func clearCurrentMembershipsQuery(item team.Membership) (string, []any, error) {
	return qb.Update("team_league_memberships").
		Set("is_current", false).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("team_id", item.TeamID),
			qb.Eq("is_current", true),
			qb.Expr(`league_id IN (
    SELECT sibling.id FROM leagues sibling
    JOIN leagues current ON current.sport_id = sibling.sport_id AND current.external_id = sibling.external_id
    WHERE current.id = ?)`, item.LeagueID),
			qb.Expr("(league_id, season) <> (?, ?)", item.LeagueID, item.Season),
		).
		ToSQL()
}
