package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"petkeep/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (id, owner_id, name, owner_name, image_url, age, notes, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?)
	`,
		p.ID, p.OwnerID, p.Name, p.OwnerName, p.ImageURL, p.Age, p.Notes,
		p.CreatedAt.UnixMilli(), p.UpdatedAt.UnixMilli(),
	)
	if isUniqueViolation(err) {
		return pets.ErrDuplicate
	}
	return err
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, owner_name, image_url, age, notes, created_at, updated_at
		FROM pets
		WHERE id = ?
	`, id)

	p, err := scanPet(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, owner_name, image_url, age, notes, created_at, updated_at
		FROM pets
		WHERE owner_id = ?
		ORDER BY created_at ASC, id ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET name = ?, owner_name = ?, image_url = ?, age = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`,
		p.Name, p.OwnerName, p.ImageURL, p.Age, p.Notes, p.UpdatedAt.UnixMilli(), p.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func scanPet(scan func(dest ...any) error) (pets.Pet, error) {
	var p pets.Pet
	var created, updated int64
	if err := scan(
		&p.ID, &p.OwnerID, &p.Name, &p.OwnerName, &p.ImageURL, &p.Age, &p.Notes, &created, &updated,
	); err != nil {
		return pets.Pet{}, err
	}
	p.CreatedAt = time.UnixMilli(created).UTC()
	p.UpdatedAt = time.UnixMilli(updated).UTC()
	return p, nil
}

// isUniqueViolation matches on the error text; the driver does not export
// typed constraint errors.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
