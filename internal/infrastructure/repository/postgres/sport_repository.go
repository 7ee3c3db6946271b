package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-sync/internal/domain/sport"
	qb "github.com/riskibarqy/sports-sync/internal/platform/querybuilder"
)

type sportTableModel struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Slug     string `db:"slug"`
	IsActive bool   `db:"is_active"`
}

type SportRepository struct {
	db *sqlx.DB
}

func NewSportRepository(db *sqlx.DB) *SportRepository {
	return &SportRepository{db: db}
}

func (r *SportRepository) GetByID(ctx context.Context, id int64) (sport.Sport, bool, error) {
	query, args, err := qb.Select(qb.Columns(sportTableModel{})...).From("sports").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return sport.Sport{}, false, fmt.Errorf("build get sport query: %w", err)
	}

	var row sportTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return sport.Sport{}, false, nil
		}
		return sport.Sport{}, false, fmt.Errorf("get sport id=%d: %w", id, err)
	}
	return sport.Sport{ID: row.ID, Name: row.Name, Slug: row.Slug, IsActive: row.IsActive}, true, nil
}
