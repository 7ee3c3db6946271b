package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-sync/internal/domain/league"
	qb "github.com/riskibarqy/sports-sync/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context, filter league.Filter) ([]league.League, error) {
	builder := qb.Select("*").From("leagues").OrderBy("id")
	if filter.SportID > 0 {
		builder.Where(qb.Eq("sport_id", filter.SportID))
	}
	if filter.ActiveOnly {
		builder.Where(qb.Eq("is_active", true))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *LeagueRepository) GetByNaturalKey(ctx context.Context, key league.NaturalKey) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("sport_id", key.SportID),
			qb.Eq("external_id", key.ExternalID),
			qb.Eq("season", key.Season),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by natural key query: %w", err)
	}
	return r.getOne(ctx, query, args, "get league by natural key")
}

func (r *LeagueRepository) GetLatestByExternalID(ctx context.Context, externalID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("external_id", externalID),
			qb.Eq("is_active", true),
		).
		OrderBy("season DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get latest league query: %w", err)
	}
	return r.getOne(ctx, query, args, "get latest league by external id")
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) (league.League, bool, error) {
	query, args, err := qb.InsertModel("leagues", newLeagueInsertModel(item),
		`ON CONFLICT (sport_id, external_id, season) DO NOTHING RETURNING *`)
	if err != nil {
		return league.League{}, false, fmt.Errorf("build insert league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("insert league external_id=%s season=%s: %w", item.ExternalID, item.Season, err)
	}
	return row.toDomain(), true, nil
}

func (r *LeagueRepository) Update(ctx context.Context, item league.League) error {
	query, args, err := qb.Update("leagues").
		Set("name", item.Name).
		Set("country", item.Country).
		Set("season", item.Season).
		Set("tier", item.Tier).
		Set("logo_url", item.LogoURL).
		Set("type", item.Type).
		Set("is_active", item.IsActive).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update league query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update league id=%d: %w", item.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("league id=%d not found", item.ID)
	}
	return nil
}

func (r *LeagueRepository) getOne(ctx context.Context, query string, args []any, op string) (league.League, bool, error) {
	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return row.toDomain(), true, nil
}
