package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edushare/edushare-api/internal/models"
)

type downloadRow struct {
	ID           string         `db:"id"`
	ContentID    string         `db:"content_id"`
	ContentTitle string         `db:"content_title"`
	ContentType  string         `db:"content_type"`
	StudentInfo  []byte         `db:"student_info"`
	DownloadDate time.Time      `db:"download_date"`
	IPAddress    sql.NullString `db:"ip_address"`
}

func (r downloadRow) toModel() (models.DownloadRecord, error) {
	record := models.DownloadRecord{
		ID:           r.ID,
		ContentID:    r.ContentID,
		ContentTitle: r.ContentTitle,
		ContentType:  models.ContentType(r.ContentType),
		DownloadDate: r.DownloadDate,
	}
	if r.IPAddress.Valid {
		ip := r.IPAddress.String
		record.IPAddress = &ip
	}
	if len(r.StudentInfo) > 0 {
		if err := json.Unmarshal(r.StudentInfo, &record.Student); err != nil {
			return record, fmt.Errorf("decode student snapshot: %w", err)
		}
	}
	return record, nil
}

// DownloadRepository manages the append-only download audit log.
type DownloadRepository struct {
	db *sqlx.DB
}

// NewDownloadRepository constructs a DownloadRepository.
func NewDownloadRepository(db *sqlx.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Create inserts one immutable download record. There is no update path.
func (r *DownloadRepository) Create(ctx context.Context, record *models.DownloadRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.DownloadDate.IsZero() {
		record.DownloadDate = time.Now().UTC()
	}
	snapshot, err := json.Marshal(record.Student)
	if err != nil {
		return fmt.Errorf("encode student snapshot: %w", err)
	}
	var ip sql.NullString
	if record.IPAddress != nil && *record.IPAddress != "" {
		ip = sql.NullString{String: *record.IPAddress, Valid: true}
	}
	const query = `INSERT INTO downloads
	(id, content_id, content_title, content_type, student_info, download_date, ip_address)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query,
		record.ID, record.ContentID, record.ContentTitle, string(record.ContentType),
		snapshot, record.DownloadDate, ip); err != nil {
		return fmt.Errorf("create download record: %w", err)
	}
	return nil
}

// List returns the newest download records. The limit is applied in the
// query, not by slicing a fully fetched result; non-positive limits fall
// back to 50 and oversized ones are capped at 500.
func (r *DownloadRepository) List(ctx context.Context, limit int) ([]models.DownloadRecord, error) {
	if limit <= 0 {
		limit = 50
	} else if limit > 500 {
		limit = 500
	}
	const query = `SELECT id, content_id, content_title, content_type, student_info, download_date, ip_address
	FROM downloads ORDER BY download_date DESC LIMIT $1`
	var rows []downloadRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	records := make([]models.DownloadRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toModel()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
