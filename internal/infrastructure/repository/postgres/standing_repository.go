package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-sync/internal/domain/standing"
	qb "github.com/riskibarqy/sports-sync/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) GetByNaturalKey(ctx context.Context, leagueID, teamID int64) (standing.Standing, bool, error) {
	query, args, err := qb.Select("*").From("league_standings").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("team_id", teamID),
		).
		ToSQL()
	if err != nil {
		return standing.Standing{}, false, fmt.Errorf("build get standing query: %w", err)
	}

	var row standingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return standing.Standing{}, false, nil
		}
		return standing.Standing{}, false, fmt.Errorf("get standing league_id=%d team_id=%d: %w", leagueID, teamID, err)
	}
	return row.toDomain(), true, nil
}

func (r *StandingRepository) ListByLeague(ctx context.Context, leagueID int64) ([]standing.Standing, error) {
	query, args, err := qb.Select("*").From("league_standings").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("position", "points DESC", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings league_id=%d: %w", leagueID, err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *StandingRepository) Create(ctx context.Context, item standing.Standing) (standing.Standing, bool, error) {
	query, args, err := qb.InsertModel("league_standings", newStandingInsertModel(item),
		`ON CONFLICT (league_id, team_id) DO NOTHING RETURNING *`)
	if err != nil {
		return standing.Standing{}, false, fmt.Errorf("build insert standing query: %w", err)
	}

	var row standingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return standing.Standing{}, false, nil
		}
		return standing.Standing{}, false, fmt.Errorf("insert standing league_id=%d team_id=%d: %w", item.LeagueID, item.TeamID, err)
	}
	return row.toDomain(), true, nil
}

func (r *StandingRepository) Update(ctx context.Context, item standing.Standing) error {
	query, args, err := standingUpdateQuery(item)
	if err != nil {
		return fmt.Errorf("build update standing query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update standing id=%d: %w", item.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("standing id=%d not found", item.ID)
	}
	return nil
}

func standingUpdateQuery(item standing.Standing) (string, []any, error) {
	model := standingUpdateModel{
		standingInsertModel: newStandingInsertModel(item),
		UpdatedAt:           time.Now().UTC(),
	}
	return qb.UpdateModel("league_standings", model,
		[]qb.Condition{qb.Eq("id", item.ID)},
		"league_id", "team_id", "season")
}
