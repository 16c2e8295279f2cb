package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/edushare/edushare-api/internal/models"
)

const contentColumns = `id, title, description, course_title, course_description, category, tags,
       content_type, visibility, file_name, file_size, download_url,
       video_url, video_duration, video_thumbnail, upload_date, downloads, views, uploaded_by`

// contentRow is the flat table shape of a content item. The attachment
// variant is folded back into the model on scan.
type contentRow struct {
	ID                string         `db:"id"`
	Title             string         `db:"title"`
	Description       string         `db:"description"`
	CourseTitle       string         `db:"course_title"`
	CourseDescription string         `db:"course_description"`
	Category          string         `db:"category"`
	Tags              pq.StringArray `db:"tags"`
	ContentType       string         `db:"content_type"`
	Visibility        string         `db:"visibility"`
	FileName          sql.NullString `db:"file_name"`
	FileSize          sql.NullInt64  `db:"file_size"`
	DownloadURL       sql.NullString `db:"download_url"`
	VideoURL          sql.NullString `db:"video_url"`
	VideoDuration     sql.NullInt64  `db:"video_duration"`
	VideoThumbnail    sql.NullString `db:"video_thumbnail"`
	UploadDate        time.Time      `db:"upload_date"`
	Downloads         int64          `db:"downloads"`
	Views             int64          `db:"views"`
	UploadedBy        string         `db:"uploaded_by"`
}

func (r contentRow) toModel() models.ContentItem {
	item := models.ContentItem{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		CourseTitle:       r.CourseTitle,
		CourseDescription: r.CourseDescription,
		Category:          r.Category,
		Tags:              []string(r.Tags),
		Type:              models.ContentType(r.ContentType),
		Visibility:        models.Visibility(r.Visibility),
		UploadDate:        r.UploadDate,
		Downloads:         r.Downloads,
		Views:             r.Views,
		UploadedBy:        r.UploadedBy,
	}
	if item.Type.HasFile() {
		item.File = &models.FileAttachment{
			FileName:    r.FileName.String,
			FileSize:    r.FileSize.Int64,
			DownloadURL: r.DownloadURL.String,
		}
	} else if item.Type == models.ContentTypeVideo {
		item.Video = &models.VideoAttachment{
			URL:             r.VideoURL.String,
			DurationSeconds: r.VideoDuration.Int64,
			ThumbnailURL:    r.VideoThumbnail.String,
		}
	}
	return item
}

func fromModel(item *models.ContentItem) contentRow {
	row := contentRow{
		ID:                item.ID,
		Title:             item.Title,
		Description:       item.Description,
		CourseTitle:       item.CourseTitle,
		CourseDescription: item.CourseDescription,
		Category:          item.Category,
		Tags:              pq.StringArray(item.Tags),
		ContentType:       string(item.Type),
		Visibility:        string(item.Visibility),
		UploadDate:        item.UploadDate,
		Downloads:         item.Downloads,
		Views:             item.Views,
		UploadedBy:        item.UploadedBy,
	}
	if item.File != nil {
		row.FileName = sql.NullString{String: item.File.FileName, Valid: true}
		row.FileSize = sql.NullInt64{Int64: item.File.FileSize, Valid: true}
		row.DownloadURL = sql.NullString{String: item.File.DownloadURL, Valid: true}
	}
	if item.Video != nil {
		row.VideoURL = sql.NullString{String: item.Video.URL, Valid: true}
		row.VideoDuration = sql.NullInt64{Int64: item.Video.DurationSeconds, Valid: true}
		row.VideoThumbnail = sql.NullString{String: item.Video.ThumbnailURL, Valid: true}
	}
	return row
}

// ContentRepository manages persistence for content records.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository constructs a ContentRepository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// List returns content ordered by upload time descending. Unprivileged
// callers get the visibility predicate applied in the query itself so
// restricted rows never leave the store.
func (r *ContentRepository) List(ctx context.Context, privileged bool) ([]models.ContentItem, error) {
	query := fmt.Sprintf("SELECT %s FROM content", contentColumns)
	args := []interface{}{}
	if !privileged {
		query += " WHERE visibility = $1"
		args = append(args, models.VisibilityPublic)
	}
	query += " ORDER BY upload_date DESC"

	var rows []contentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	items := make([]models.ContentItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}

// GetByID fetches one content row.
func (r *ContentRepository) GetByID(ctx context.Context, id string) (*models.ContentItem, error) {
	query := fmt.Sprintf("SELECT %s FROM content WHERE id = $1", contentColumns)
	var row contentRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	item := row.toModel()
	return &item, nil
}

// Create inserts a new content record. Counters always start at zero.
func (r *ContentRepository) Create(ctx context.Context, item *models.ContentItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.UploadDate.IsZero() {
		item.UploadDate = time.Now().UTC()
	}
	item.Downloads = 0
	item.Views = 0
	row := fromModel(item)
	const query = `INSERT INTO content
	(id, title, description, course_title, course_description, category, tags,
	 content_type, visibility, file_name, file_size, download_url,
	 video_url, video_duration, video_thumbnail, upload_date, downloads, views, uploaded_by)
	VALUES (:id, :title, :description, :course_title, :course_description, :category, :tags,
	 :content_type, :visibility, :file_name, :file_size, :download_url,
	 :video_url, :video_duration, :video_thumbnail, :upload_date, :downloads, :views, :uploaded_by)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	return nil
}

// IncrementDownloads bumps the download counter by one atomically in the
// store. The repository never reads, adds and writes back.
func (r *ContentRepository) IncrementDownloads(ctx context.Context, id string) error {
	return r.increment(ctx, id, "downloads")
}

// IncrementViews bumps the view counter by one atomically in the store.
func (r *ContentRepository) IncrementViews(ctx context.Context, id string) error {
	return r.increment(ctx, id, "views")
}

func (r *ContentRepository) increment(ctx context.Context, id, column string) error {
	query := fmt.Sprintf("UPDATE content SET %s = %s + 1 WHERE id = $1", column, column)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment %s: %w", column, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s increment rows: %w", column, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a content row.
func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM content WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check content delete rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Statistics aggregates counters over all content rows.
func (r *ContentRepository) Statistics(ctx context.Context) (*models.ContentStatistics, error) {
	const totalsQuery = `SELECT COUNT(*) AS total,
       COALESCE(SUM(downloads), 0) AS downloads,
       COALESCE(SUM(views), 0) AS views,
       COUNT(*) FILTER (WHERE visibility = 'public') AS public_count,
       COUNT(*) FILTER (WHERE visibility = 'lecturer_only') AS restricted_count
       FROM content`
	var totals struct {
		Total           int64 `db:"total"`
		Downloads       int64 `db:"downloads"`
		Views           int64 `db:"views"`
		PublicCount     int64 `db:"public_count"`
		RestrictedCount int64 `db:"restricted_count"`
	}
	if err := r.db.GetContext(ctx, &totals, totalsQuery); err != nil {
		return nil, fmt.Errorf("content totals: %w", err)
	}

	const byTypeQuery = `SELECT content_type, COUNT(*) AS count FROM content GROUP BY content_type`
	var typeRows []struct {
		ContentType string `db:"content_type"`
		Count       int64  `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &typeRows, byTypeQuery); err != nil {
		return nil, fmt.Errorf("content counts by type: %w", err)
	}

	stats := &models.ContentStatistics{
		TotalContent:      totals.Total,
		TotalDownloads:    totals.Downloads,
		TotalViews:        totals.Views,
		ContentByType:     make(map[models.ContentType]int64, len(typeRows)),
		PublicContent:     totals.PublicCount,
		RestrictedContent: totals.RestrictedCount,
		GeneratedAt:       time.Now().UTC(),
	}
	for _, row := range typeRows {
		stats.ContentByType[models.ContentType(row.ContentType)] = row.Count
	}
	return stats, nil
}
