package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edushare/edushare-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var contentTestColumns = []string{
	"id", "title", "description", "course_title", "course_description", "category", "tags",
	"content_type", "visibility", "file_name", "file_size", "download_url",
	"video_url", "video_duration", "video_thumbnail", "upload_date", "downloads", "views", "uploaded_by",
}

func pdfRow(id string) []driverValue {
	return []driverValue{
		id, "Syllabus", "Course outline", "CSC 101", "Intro", "lectures", "{intro,notes}",
		"pdf", "public", "syllabus.pdf", int64(2048), "/files/pdfs/1_syllabus.pdf",
		nil, nil, nil, time.Now().UTC(), int64(0), int64(0), "admin@admin.com",
	}
}

type driverValue = driver.Value

func TestContentRepositoryListUnprivilegedFiltersInQuery(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	query := fmt.Sprintf("SELECT %s FROM content WHERE visibility = $1 ORDER BY upload_date DESC", contentColumns)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(models.VisibilityPublic).
		WillReturnRows(sqlmock.NewRows(contentTestColumns).AddRow(pdfRow("c1")...))

	items, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.ContentTypePDF, items[0].Type)
	require.NotNil(t, items[0].File)
	assert.Nil(t, items[0].Video)
	assert.Equal(t, "syllabus.pdf", items[0].File.FileName)
	assert.Equal(t, []string{"intro", "notes"}, items[0].Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryListPrivilegedSeesAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	query := fmt.Sprintf("SELECT %s FROM content ORDER BY upload_date DESC", contentColumns)
	rows := sqlmock.NewRows(contentTestColumns).
		AddRow(pdfRow("c1")...).
		AddRow("c2", "Lecture 2", "", "CSC 101", "", "lectures", "{}",
			"video", "lecturer_only", nil, nil, nil,
			"https://videos.example.com/lec2", int64(600), "https://videos.example.com/lec2.jpg",
			time.Now().UTC(), int64(3), int64(9), "admin@admin.com")
	mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(rows)

	items, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[1].Video)
	assert.Nil(t, items[1].File)
	assert.Equal(t, int64(600), items[1].Video.DurationSeconds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryCreateResetsCounters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	mock.ExpectExec("INSERT INTO content").WillReturnResult(sqlmock.NewResult(1, 1))

	item := &models.ContentItem{
		Title:      "Syllabus",
		Type:       models.ContentTypePDF,
		Visibility: models.VisibilityPublic,
		File:       &models.FileAttachment{FileName: "syllabus.pdf", FileSize: 2048, DownloadURL: "/files/pdfs/1_syllabus.pdf"},
		Downloads:  99,
		Views:      99,
		UploadedBy: "admin@admin.com",
	}
	require.NoError(t, repo.Create(context.Background(), item))
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, int64(0), item.Downloads)
	assert.Equal(t, int64(0), item.Views)
	assert.False(t, item.UploadDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryIncrementDownloadsIsAtomicUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE content SET downloads = downloads + 1 WHERE id = $1")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementDownloads(context.Background(), "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryIncrementViewsMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE content SET views = views + 1 WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.IncrementViews(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM content WHERE id = $1")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryStatistics(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) AS total").
		WillReturnRows(sqlmock.NewRows([]string{"total", "downloads", "views", "public_count", "restricted_count"}).
			AddRow(int64(3), int64(12), int64(40), int64(2), int64(1)))
	mock.ExpectQuery("SELECT content_type, COUNT\\(\\*\\) AS count FROM content GROUP BY content_type").
		WillReturnRows(sqlmock.NewRows([]string{"content_type", "count"}).
			AddRow("pdf", int64(2)).
			AddRow("video", int64(1)))

	stats, err := repo.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalContent)
	assert.Equal(t, int64(12), stats.TotalDownloads)
	assert.Equal(t, int64(2), stats.ContentByType[models.ContentTypePDF])
	assert.Equal(t, int64(1), stats.RestrictedContent)
	assert.NoError(t, mock.ExpectationsWereMet())
}
