package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edushare/edushare-api/internal/models"
)

func TestStudentRepositoryGetByEmailNormalizes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"email", "first_name", "last_name", "matric_number", "department", "level", "phone_number", "created_at"}).
		AddRow("ada@student.edu", "Ada", "Obi", "CSC/2021/001", "Computer Science", "300 Level", nil, time.Now().UTC())
	mock.ExpectQuery("SELECT email, first_name, last_name").
		WithArgs("ada@student.edu").
		WillReturnRows(rows)

	info, err := repo.GetByEmail(context.Background(), "  ADA@Student.EDU ")
	require.NoError(t, err)
	assert.Equal(t, "ada@student.edu", info.Email)
	assert.Nil(t, info.PhoneNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryGetByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT email, first_name, last_name").
		WithArgs("missing@student.edu").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@student.edu")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs("ada@student.edu", "Ada", "Obi", "CSC/2021/001", "Computer Science", "300 Level",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	info := &models.StudentInfo{
		FirstName:    "Ada",
		LastName:     "Obi",
		Email:        " ADA@student.edu",
		MatricNumber: "CSC/2021/001",
		Department:   "Computer Science",
		Level:        "300 Level",
	}
	require.NoError(t, repo.Create(context.Background(), info))
	assert.Equal(t, "ada@student.edu", info.Email)
	assert.False(t, info.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
