package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/milescape/server/internal/domain/upcoming"
	"github.com/milescape/server/internal/observability"
)

type UpcomingMarathonsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUpcomingMarathonsRepo(pool *pgxpool.Pool, prom *observability.Prom) *UpcomingMarathonsRepo {
	return &UpcomingMarathonsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *UpcomingMarathonsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (repo *UpcomingMarathonsRepo) List(ctx context.Context) (out []upcoming.UpcomingMarathon, err error) {
	var rows pgx.Rows

	err = repo.observe("upcoming_marathons.list", func() error {
		rows, err = repo.pool.Query(ctx,
			`SELECT id, title, start_reg_date, end_reg_date, marathon_start_date, location, distance, description, image, created_at
			 FROM upcoming_marathons
			 ORDER BY marathon_start_date ASC`)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	out = make([]upcoming.UpcomingMarathon, 0)

	for rows.Next() {
		var u upcoming.UpcomingMarathon

		e := rows.Scan(&u.ID, &u.Title, &u.StartRegDate, &u.EndRegDate, &u.MarathonStartDate,
			&u.Location, &u.Distance, &u.Description, &u.Image, &u.CreatedAt)

		if e != nil {
			err = e
			return
		}
		out = append(out, u)
	}

	err = rows.Err()

	return
}
