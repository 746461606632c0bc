package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/milescape/server/internal/domain/marathon"
	"github.com/milescape/server/internal/observability"
)

const marathonColumns = `id, title, start_reg_date, end_reg_date, marathon_start_date, location, distance, description, image, organizer_email, total_registrations, created_at`

type MarathonsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewMarathonsRepo(pool *pgxpool.Pool, prom *observability.Prom) *MarathonsRepo {
	return &MarathonsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *MarathonsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (repo *MarathonsRepo) Create(ctx context.Context, req marathon.CreateMarathonRequest) (marathon.Marathon, error) {
	m := marathon.NewFromCreateRequest(req)

	err := repo.observe("marathons.create", func() error {
		_, e := repo.pool.Exec(ctx,
			`INSERT INTO marathons(`+marathonColumns+`)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			m.ID, m.Title, m.StartRegDate, m.EndRegDate, m.MarathonStartDate,
			m.Location, m.Distance, m.Description, m.Image, m.OrganizerEmail,
			m.TotalRegistrations, m.CreatedAt)
		return e
	})

	if err != nil {
		return marathon.Marathon{}, err
	}

	return m, nil
}

// ListAll returns every marathon. sort is "asc", "desc" or "" and orders by
// creation time; an empty sort keeps whatever order the store hands back.
func (repo *MarathonsRepo) ListAll(ctx context.Context, sort string) ([]marathon.Marathon, error) {
	query := `SELECT ` + marathonColumns + ` FROM marathons`

	switch sort {
	case "asc":
		query += " ORDER BY created_at ASC"
	case "desc":
		query += " ORDER BY created_at DESC"
	}

	return repo.list(ctx, "marathons.list_all", query)
}

// ListFeatured caps the result for the home page rail.
func (repo *MarathonsRepo) ListFeatured(ctx context.Context, limit int) ([]marathon.Marathon, error) {
	return repo.list(ctx, "marathons.list_featured",
		`SELECT `+marathonColumns+` FROM marathons LIMIT $1`, limit)
}

func (repo *MarathonsRepo) ListByOrganizer(ctx context.Context, email string) ([]marathon.Marathon, error) {
	return repo.list(ctx, "marathons.list_by_organizer",
		`SELECT `+marathonColumns+` FROM marathons WHERE organizer_email = $1`, email)
}

func (repo *MarathonsRepo) list(ctx context.Context, op, query string, args ...interface{}) (out []marathon.Marathon, err error) {
	var rows pgx.Rows

	err = repo.observe(op, func() error {
		rows, err = repo.pool.Query(ctx, query, args...)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	out = make([]marathon.Marathon, 0)

	for rows.Next() {
		var m marathon.Marathon

		e := rows.Scan(&m.ID, &m.Title, &m.StartRegDate, &m.EndRegDate, &m.MarathonStartDate,
			&m.Location, &m.Distance, &m.Description, &m.Image, &m.OrganizerEmail,
			&m.TotalRegistrations, &m.CreatedAt)

		if e != nil {
			err = e
			return
		}
		out = append(out, m)
	}

	err = rows.Err()

	return
}

func (repo *MarathonsRepo) GetByID(ctx context.Context, id string) (marathon.Marathon, error) {
	var m marathon.Marathon

	err := repo.observe("marathons.get_by_id", func() error {
		return repo.pool.QueryRow(ctx,
			`SELECT `+marathonColumns+` FROM marathons WHERE id = $1`, id,
		).Scan(&m.ID, &m.Title, &m.StartRegDate, &m.EndRegDate, &m.MarathonStartDate,
			&m.Location, &m.Distance, &m.Description, &m.Image, &m.OrganizerEmail,
			&m.TotalRegistrations, &m.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return marathon.Marathon{}, marathon.ErrNotFound
		}
		return marathon.Marathon{}, err
	}

	return m, nil
}

// Upsert overwrites the updatable fields of the marathon with the given id,
// creating the row when it does not exist yet. On the insert path the
// organizer stays empty and the counter starts at zero.
func (repo *MarathonsRepo) Upsert(ctx context.Context, id string, req marathon.UpdateMarathonRequest) (res UpdateResult, err error) {
	err = repo.observe("marathons.upsert.update", func() error {
		tag, e := repo.pool.Exec(ctx,
			`UPDATE marathons
				SET title = $2,
						start_reg_date = $3,
						end_reg_date = $4,
						marathon_start_date = $5,
						location = $6,
						distance = $7,
						description = $8,
						image = $9
			WHERE id = $1`,
			id, req.Title, req.StartRegDate, req.EndRegDate, req.MarathonStartDate,
			req.Location, req.Distance, req.Description, req.Image)

		if e != nil {
			return e
		}

		res.MatchedCount = tag.RowsAffected()
		res.ModifiedCount = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return
	}

	if res.MatchedCount > 0 {
		return
	}

	// no match: create the document under the caller-supplied id
	err = repo.observe("marathons.upsert.insert", func() error {
		_, e := repo.pool.Exec(ctx,
			`INSERT INTO marathons(`+marathonColumns+`)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,'',0,NOW())`,
			id, req.Title, req.StartRegDate, req.EndRegDate, req.MarathonStartDate,
			req.Location, req.Distance, req.Description, req.Image)
		return e
	})

	if err != nil {
		return
	}

	upserted := id
	res.UpsertedID = &upserted
	return
}

func (repo *MarathonsRepo) Delete(ctx context.Context, id string) (res DeleteResult, err error) {
	err = repo.observe("marathons.delete", func() error {
		tag, e := repo.pool.Exec(ctx, `DELETE FROM marathons WHERE id = $1`, id)

		if e != nil {
			return e
		}

		res.DeletedCount = tag.RowsAffected()
		return nil
	})

	return
}

// IncrementRegistrations bumps the registration counter by one in a single
// statement, so concurrent registrations never lose an increment.
func (repo *MarathonsRepo) IncrementRegistrations(ctx context.Context, id string) error {
	return repo.observe("marathons.increment_registrations", func() error {
		_, err := repo.pool.Exec(ctx,
			`UPDATE marathons SET total_registrations = total_registrations + 1 WHERE id = $1`, id)
		return err
	})
}
