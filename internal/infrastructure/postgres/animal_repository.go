package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stray2stay/api/internal/domain/entity"
	"github.com/stray2stay/api/internal/domain/repository"
)

type AnimalRepository struct {
	pool *pgxpool.Pool
}

func NewAnimalRepository(pool *pgxpool.Pool) *AnimalRepository {
	return &AnimalRepository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const animalColumns = `id, type, name, breed, age, gender, size, color, description,
	special_notes, medical_needs, photos, address, lat, lng, city, state,
	current_location, status, urgent, needs_foster, poster_id,
	COALESCE(adopter_id::text, ''), adoption_date, created_at, updated_at`

func scanAnimal(row pgx.Row) (*entity.Animal, error) {
	a := &entity.Animal{}
	err := row.Scan(&a.ID, &a.Type, &a.Name, &a.Breed, &a.Age, &a.Gender, &a.Size,
		&a.Color, &a.Description, &a.SpecialNotes, &a.MedicalNeeds, &a.Photos,
		&a.Location.Address, &a.Location.Coordinates.Lat, &a.Location.Coordinates.Lng,
		&a.Location.City, &a.Location.State, &a.CurrentLocation, &a.Status,
		&a.Urgent, &a.NeedsFoster, &a.PosterID, &a.AdopterID, &a.AdoptionDate,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AnimalRepository) Create(ctx context.Context, a *entity.Animal) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO animals (type, name, breed, age, gender, size, color, description,
			special_notes, medical_needs, photos, address, lat, lng, city, state,
			current_location, urgent, needs_foster, poster_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, status, created_at, updated_at
	`, a.Type, a.Name, a.Breed, a.Age, a.Gender, a.Size, a.Color, a.Description,
		a.SpecialNotes, a.MedicalNeeds, a.Photos,
		a.Location.Address, a.Location.Coordinates.Lat, a.Location.Coordinates.Lng,
		a.Location.City, a.Location.State, a.CurrentLocation,
		a.Urgent, a.NeedsFoster, a.PosterID)

	return row.Scan(&a.ID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AnimalRepository) GetByID(ctx context.Context, id string) (*entity.Animal, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id)
	return scanAnimal(row)
}

func (r *AnimalRepository) Update(ctx context.Context, a *entity.Animal) error {
	a.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE animals
		SET type = $1, name = $2, breed = $3, age = $4, gender = $5, size = $6,
		    color = $7, description = $8, special_notes = $9, medical_needs = $10,
		    photos = $11, address = $12, lat = $13, lng = $14, city = $15, state = $16,
		    current_location = $17, urgent = $18, needs_foster = $19, updated_at = $20
		WHERE id = $21
	`, a.Type, a.Name, a.Breed, a.Age, a.Gender, a.Size, a.Color, a.Description,
		a.SpecialNotes, a.MedicalNeeds, a.Photos,
		a.Location.Address, a.Location.Coordinates.Lat, a.Location.Coordinates.Lng,
		a.Location.City, a.Location.State, a.CurrentLocation,
		a.Urgent, a.NeedsFoster, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AnimalRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func buildListWhere(f repository.ListFilter) (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Urgent != nil {
		add("urgent = $%d", *f.Urgent)
	}
	if f.NeedsFoster != nil {
		add("needs_foster = $%d", *f.NeedsFoster)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *AnimalRepository) List(ctx context.Context, f repository.ListFilter, offset, limit int) ([]entity.Animal, int, error) {
	where, args := buildListWhere(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM animals`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + animalColumns + ` FROM animals` + where +
		fmt.Sprintf(` ORDER BY urgent DESC, created_at DESC OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	return r.queryAnimals(ctx, query, args, total)
}

func (r *AnimalRepository) ListByPoster(ctx context.Context, posterID string, offset, limit int) ([]entity.Animal, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM animals WHERE poster_id = $1`, posterID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + animalColumns + ` FROM animals WHERE poster_id = $1
		ORDER BY created_at DESC OFFSET $2 LIMIT $3`
	return r.queryAnimals(ctx, query, []any{posterID, offset, limit}, total)
}

func (r *AnimalRepository) ListAdoptedBy(ctx context.Context, adopterID string, offset, limit int) ([]entity.Animal, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM animals WHERE adopter_id = $1 AND status = 'adopted'`, adopterID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + animalColumns + ` FROM animals WHERE adopter_id = $1 AND status = 'adopted'
		ORDER BY adoption_date DESC OFFSET $2 LIMIT $3`
	return r.queryAnimals(ctx, query, []any{adopterID, offset, limit}, total)
}

func (r *AnimalRepository) queryAnimals(ctx context.Context, query string, args []any, total int) ([]entity.Animal, int, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	animals := make([]entity.Animal, 0, 16)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, 0, err
		}
		animals = append(animals, *a)
	}
	return animals, total, rows.Err()
}

func (r *AnimalRepository) AddInterest(ctx context.Context, in *entity.Interest) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO animal_interests (animal_id, user_id, message, contact_info)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, in.AnimalID, in.UserID, in.Message, in.ContactInfo)
	if err := row.Scan(&in.ID, &in.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *AnimalRepository) ListInterests(ctx context.Context, animalID string) ([]entity.Interest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, animal_id, user_id, message, contact_info, created_at
		FROM animal_interests
		WHERE animal_id = $1
		ORDER BY created_at ASC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interests := make([]entity.Interest, 0, 8)
	for rows.Next() {
		var in entity.Interest
		if err := rows.Scan(&in.ID, &in.AnimalID, &in.UserID, &in.Message, &in.ContactInfo, &in.CreatedAt); err != nil {
			return nil, err
		}
		interests = append(interests, in)
	}
	return interests, rows.Err()
}

// ConfirmAdoption commits the adoption in one transaction. The guarded
// UPDATE on status keeps the operation idempotent: a second confirmation,
// from either the direct mark-adopted path or a completed adoption request,
// sees zero rows and reports ErrAlreadyAdopted without touching the
// adopter's counter again.
func (r *AnimalRepository) ConfirmAdoption(ctx context.Context, animalID, adopterID string, when time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := tx.Exec(ctx, `
		UPDATE animals
		SET status = 'adopted', adopter_id = $1, adoption_date = $2, updated_at = $2
		WHERE id = $3 AND status <> 'adopted'
	`, adopterID, when, animalID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM animals WHERE id = $1)`, animalID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrAlreadyAdopted
	}

	res, err = tx.Exec(ctx, `
		UPDATE users SET animals_adopted = animals_adopted + 1, updated_at = now()
		WHERE id = $1
	`, adopterID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *AnimalRepository) MapPins(ctx context.Context, f repository.MapFilter, limit int) ([]repository.MapPin, error) {
	where, args := buildListWhere(repository.ListFilter{Type: f.Type, Status: f.Status})
	query := `SELECT id, type, status, name, photos, address, lat, lng, city, state, urgent, needs_foster
		FROM animals` + where + fmt.Sprintf(` LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pins := make([]repository.MapPin, 0, 64)
	for rows.Next() {
		var p repository.MapPin
		if err := rows.Scan(&p.ID, &p.Type, &p.Status, &p.Name, &p.Photos,
			&p.Location.Address, &p.Location.Coordinates.Lat, &p.Location.Coordinates.Lng,
			&p.Location.City, &p.Location.State, &p.Urgent, &p.NeedsFoster); err != nil {
			return nil, err
		}
		pins = append(pins, p)
	}
	return pins, rows.Err()
}

var _ repository.AnimalRepository = (*AnimalRepository)(nil)
