package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edushare/edushare-api/internal/models"
)

const lecturerColumns = `id, first_name, last_name, email, phone, office, department, title, bio, office_hours, created_at, updated_at`

type lecturerRow struct {
	ID          string    `db:"id"`
	FirstName   string    `db:"first_name"`
	LastName    string    `db:"last_name"`
	Email       string    `db:"email"`
	Phone       string    `db:"phone"`
	Office      string    `db:"office"`
	Department  string    `db:"department"`
	Title       string    `db:"title"`
	Bio         string    `db:"bio"`
	OfficeHours []byte    `db:"office_hours"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r lecturerRow) toModel() (*models.LecturerProfile, error) {
	profile := &models.LecturerProfile{
		ID:         r.ID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Office:     r.Office,
		Department: r.Department,
		Title:      r.Title,
		Bio:        r.Bio,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if len(r.OfficeHours) > 0 {
		if err := json.Unmarshal(r.OfficeHours, &profile.OfficeHours); err != nil {
			return nil, fmt.Errorf("decode office hours: %w", err)
		}
	}
	return profile, nil
}

// LecturerRepository manages the lecturer profile collection.
type LecturerRepository struct {
	db *sqlx.DB
}

// NewLecturerRepository constructs a LecturerRepository.
func NewLecturerRepository(db *sqlx.DB) *LecturerRepository {
	return &LecturerRepository{db: db}
}

// GetByID fetches a profile by its caller-chosen key.
func (r *LecturerRepository) GetByID(ctx context.Context, id string) (*models.LecturerProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM lecturers WHERE id = $1", lecturerColumns)
	var row lecturerRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return row.toModel()
}

// GetMain returns the oldest profile, encoding the single-lecturer
// assumption without a uniqueness constraint in the store. Returns nil when
// the collection is empty.
func (r *LecturerRepository) GetMain(ctx context.Context) (*models.LecturerProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM lecturers ORDER BY created_at ASC LIMIT 1", lecturerColumns)
	var row lecturerRow
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get main lecturer: %w", err)
	}
	return row.toModel()
}

// Create inserts a new profile stamping both timestamps.
func (r *LecturerRepository) Create(ctx context.Context, profile *models.LecturerProfile) error {
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	hours, err := json.Marshal(profile.OfficeHours)
	if err != nil {
		return fmt.Errorf("encode office hours: %w", err)
	}
	const query = `INSERT INTO lecturers
	(id, first_name, last_name, email, phone, office, department, title, bio, office_hours, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.FirstName, profile.LastName, profile.Email, profile.Phone,
		profile.Office, profile.Department, profile.Title, profile.Bio, hours,
		profile.CreatedAt, profile.UpdatedAt); err != nil {
		return fmt.Errorf("create lecturer: %w", err)
	}
	return nil
}

// Update modifies an existing profile. Only updated_at is refreshed; the
// creation timestamp is immutable.
func (r *LecturerRepository) Update(ctx context.Context, profile *models.LecturerProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	hours, err := json.Marshal(profile.OfficeHours)
	if err != nil {
		return fmt.Errorf("encode office hours: %w", err)
	}
	const query = `UPDATE lecturers SET first_name = $2, last_name = $3, email = $4, phone = $5,
	office = $6, department = $7, title = $8, bio = $9, office_hours = $10, updated_at = $11
	WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.FirstName, profile.LastName, profile.Email, profile.Phone,
		profile.Office, profile.Department, profile.Title, profile.Bio, hours, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update lecturer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check lecturer update rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
