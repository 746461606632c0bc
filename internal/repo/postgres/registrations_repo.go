package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/milescape/server/internal/domain/registration"
	"github.com/milescape/server/internal/observability"
)

const registrationColumns = `id, email, first_name, last_name, phone, additional_info, marathon_id, marathon_title, location, created_at`

type RegistrationsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewRegistrationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *RegistrationsRepo {
	return &RegistrationsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *RegistrationsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Create inserts a registration unless the applicant already has one for the
// same marathon. The existence check and the insert are two statements with
// no lock between them, matching the behavior the frontend was built against;
// two simultaneous identical requests can in principle both pass the check.
func (repo *RegistrationsRepo) Create(ctx context.Context, req registration.CreateRegistrationRequest) (reg registration.Registration, err error) {
	var exists bool

	err = repo.observe("registrations.create.duplicate_check", func() error {
		return repo.pool.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM registrations
			WHERE email = $1 AND marathon_id = $2
		)`, req.Email, req.MarathonID).Scan(&exists)
	})

	if err != nil {
		return
	}

	if exists {
		err = registration.ErrAlreadyRegistered
		return
	}

	reg = registration.NewFromCreateRequest(req)

	err = repo.observe("registrations.create.insert", func() error {
		_, e := repo.pool.Exec(ctx,
			`INSERT INTO registrations(`+registrationColumns+`)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			reg.ID, reg.Email, reg.FirstName, reg.LastName, reg.Phone,
			reg.AdditionalInfo, reg.MarathonID, reg.MarathonTitle, reg.Location,
			reg.CreatedAt)
		return e
	})

	if err != nil {
		reg = registration.Registration{}
		return
	}

	return
}

// List returns the applicant's registrations. Search is a case-insensitive
// substring match on the denormalized marathon title; an empty search matches
// everything. Location, when present, is an exact match.
func (repo *RegistrationsRepo) List(ctx context.Context, filter registration.ListFilter) (regs []registration.Registration, err error) {
	query := `SELECT ` + registrationColumns + `
		FROM registrations
		WHERE email = $1
		  AND marathon_title ILIKE '%' || $2 || '%'`

	args := []interface{}{filter.Email, filter.Search}

	if filter.Location != "" {
		query += ` AND location = $3`
		args = append(args, filter.Location)
	}

	var rows pgx.Rows

	err = repo.observe("registrations.list", func() error {
		rows, err = repo.pool.Query(ctx, query, args...)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	regs = make([]registration.Registration, 0)

	for rows.Next() {
		var r registration.Registration

		e := rows.Scan(&r.ID, &r.Email, &r.FirstName, &r.LastName, &r.Phone,
			&r.AdditionalInfo, &r.MarathonID, &r.MarathonTitle, &r.Location, &r.CreatedAt)

		if e != nil {
			err = e
			return
		}
		regs = append(regs, r)
	}

	err = rows.Err()

	return
}

func (repo *RegistrationsRepo) GetByID(ctx context.Context, id string) (registration.Registration, error) {
	var r registration.Registration

	err := repo.observe("registrations.get_by_id", func() error {
		return repo.pool.QueryRow(ctx,
			`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id,
		).Scan(&r.ID, &r.Email, &r.FirstName, &r.LastName, &r.Phone,
			&r.AdditionalInfo, &r.MarathonID, &r.MarathonTitle, &r.Location, &r.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return registration.Registration{}, registration.ErrNotFound
		}
		return registration.Registration{}, err
	}

	return r, nil
}

// Upsert overwrites the applicant-editable fields of the registration with
// the given id, creating the row when it does not exist yet.
func (repo *RegistrationsRepo) Upsert(ctx context.Context, id string, req registration.UpdateRegistrationRequest) (res UpdateResult, err error) {
	err = repo.observe("registrations.upsert.update", func() error {
		tag, e := repo.pool.Exec(ctx,
			`UPDATE registrations
				SET email = $2,
						first_name = $3,
						last_name = $4,
						phone = $5,
						additional_info = $6
			WHERE id = $1`,
			id, req.Email, req.FirstName, req.LastName, req.Phone, req.AdditionalInfo)

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

	err = repo.observe("registrations.upsert.insert", func() error {
		_, e := repo.pool.Exec(ctx,
			`INSERT INTO registrations(`+registrationColumns+`)
			 VALUES($1,$2,$3,$4,$5,$6,'','','',NOW())`,
			id, req.Email, req.FirstName, req.LastName, req.Phone, req.AdditionalInfo)
		return e
	})

	if err != nil {
		return
	}

	upserted := id
	res.UpsertedID = &upserted
	return
}

func (repo *RegistrationsRepo) Delete(ctx context.Context, id string) (res DeleteResult, err error) {
	err = repo.observe("registrations.delete", func() error {
		tag, e := repo.pool.Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)

		if e != nil {
			return e
		}

		res.DeletedCount = tag.RowsAffected()
		return nil
	})

	return
}
