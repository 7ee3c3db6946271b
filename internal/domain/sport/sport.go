package sport

import "context"

const FootballID int64 = 1

type Sport struct {
	ID       int64
	Name     string
	Slug     string
	IsActive bool
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (Sport, bool, error)
}
