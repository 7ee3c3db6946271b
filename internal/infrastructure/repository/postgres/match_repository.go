package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-sync/internal/domain/match"
	qb "github.com/riskibarqy/sports-sync/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}
	return r.getOne(ctx, query, args, fmt.Sprintf("get match id=%d", id))
}

func (r *MatchRepository) GetByExternalID(ctx context.Context, externalID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").Where(qb.Eq("external_id", externalID)).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by external id query: %w", err)
	}
	return r.getOne(ctx, query, args, "get match external_id="+externalID)
}

// ListByLeague returns matches with from <= scheduled_at < to. A zero bound
// is open.
func (r *MatchRepository) ListByLeague(ctx context.Context, leagueID int64, from, to time.Time) ([]match.Match, error) {
	builder := qb.Select("*").From("matches").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("scheduled_at", "id")
	if !from.IsZero() {
		builder.Where(qb.Gte("scheduled_at", from.UTC()))
	}
	if !to.IsZero() {
		builder.Where(qb.Lt("scheduled_at", to.UTC()))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by league query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by league: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) (match.Match, bool, error) {
	query, args, err := qb.InsertModel("matches", newMatchInsertModel(item),
		`ON CONFLICT (external_id) DO NOTHING RETURNING *`)
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build insert match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("insert match external_id=%s: %w", item.ExternalID, err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) Update(ctx context.Context, item match.Match) error {
	query, args, err := qb.Update("matches").
		Set("league_id", item.LeagueID).
		Set("home_team_id", item.HomeTeamID).
		Set("away_team_id", item.AwayTeamID).
		Set("scheduled_at", item.ScheduledAt.UTC()).
		Set("status", item.Status).
		Set("home_score", item.HomeScore).
		Set("away_score", item.AwayScore).
		Set("halftime_home", item.HalftimeHome).
		Set("halftime_away", item.HalftimeAway).
		Set("venue", item.Venue).
		Set("referee", item.Referee).
		Set("round", item.Round).
		Set("statistics", nullableJSON(item.Statistics)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match id=%d: %w", item.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("match id=%d not found", item.ID)
	}
	return nil
}

func (r *MatchRepository) getOne(ctx context.Context, query string, args []any, op string) (match.Match, bool, error) {
	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return row.toDomain(), true, nil
}
