package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edushare/edushare-api/internal/models"
)

type studentRow struct {
	Email        string         `db:"email"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	MatricNumber string         `db:"matric_number"`
	Department   string         `db:"department"`
	Level        string         `db:"level"`
	PhoneNumber  sql.NullString `db:"phone_number"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r studentRow) toModel() models.StudentInfo {
	info := models.StudentInfo{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		MatricNumber: r.MatricNumber,
		Department:   r.Department,
		Level:        r.Level,
		CreatedAt:    r.CreatedAt,
	}
	if r.PhoneNumber.Valid {
		phone := r.PhoneNumber.String
		info.PhoneNumber = &phone
	}
	return info
}

// StudentRepository manages student identity records keyed by email.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// GetByEmail fetches a student by normalized email.
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.StudentInfo, error) {
	const query = `SELECT email, first_name, last_name, matric_number, department, level, phone_number, created_at
	FROM students WHERE email = $1`
	var row studentRow
	if err := r.db.GetContext(ctx, &row, query, models.NormalizeEmail(email)); err != nil {
		return nil, err
	}
	info := row.toModel()
	return &info, nil
}

// Create inserts a new student record stamping the creation timestamp.
func (r *StudentRepository) Create(ctx context.Context, info *models.StudentInfo) error {
	info.Email = models.NormalizeEmail(info.Email)
	if info.CreatedAt.IsZero() {
		info.CreatedAt = time.Now().UTC()
	}
	var phone sql.NullString
	if info.PhoneNumber != nil && *info.PhoneNumber != "" {
		phone = sql.NullString{String: *info.PhoneNumber, Valid: true}
	}
	const query = `INSERT INTO students
	(email, first_name, last_name, matric_number, department, level, phone_number, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, query,
		info.Email, info.FirstName, info.LastName, info.MatricNumber,
		info.Department, info.Level, phone, info.CreatedAt); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Count returns the number of registered students.
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM students"); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}
