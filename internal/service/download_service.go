package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edushare/edushare-api/internal/dto"
	"github.com/edushare/edushare-api/internal/models"
	appErrors "github.com/edushare/edushare-api/pkg/errors"
	"github.com/edushare/edushare-api/pkg/export"
	"github.com/edushare/edushare-api/pkg/retry"
)

// StudentStore persists student identity records keyed by email.
type StudentStore interface {
	GetByEmail(ctx context.Context, email string) (*models.StudentInfo, error)
	Create(ctx context.Context, info *models.StudentInfo) error
}

// DownloadStore is the append-only audit log surface.
type DownloadStore interface {
	Create(ctx context.Context, record *models.DownloadRecord) error
	List(ctx context.Context, limit int) ([]models.DownloadRecord, error)
}

// ContentReader is the read-side of the content store the download flow needs.
type ContentReader interface {
	GetByID(ctx context.Context, id string) (*models.ContentItem, error)
	IncrementDownloads(ctx context.Context, id string) error
}

// DownloadService records student downloads and serves the audit trail.
type DownloadService struct {
	downloads DownloadStore
	students  StudentStore
	content   ContentReader
	notifier  ChangeNotifier
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	retryOpts retry.Options
	logger    *zap.Logger
}

// NewDownloadService wires the download service. The notifier may be nil.
func NewDownloadService(
	downloads DownloadStore,
	students StudentStore,
	content ContentReader,
	notifier ChangeNotifier,
	validate *validator.Validate,
	retryOpts retry.Options,
	logger *zap.Logger,
) *DownloadService {
	return &DownloadService{
		downloads: downloads,
		students:  students,
		content:   content,
		notifier:  notifier,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		retryOpts: retryOpts,
		logger:    logger,
	}
}

// RecordStudentDownload runs the gating sequence for a file download:
// register the student if unseen, append the audit record, then bump the
// counter best effort. A counter failure never fails an already-recorded
// download.
func (s *DownloadService) RecordStudentDownload(ctx context.Context, contentID string, req dto.RecordDownloadRequest, ipAddress string) (*dto.RecordDownloadResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student details")
	}
	if !models.ValidDepartment(req.Department) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown department")
	}
	if !models.ValidLevel(req.Level) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown level")
	}

	item, err := retry.DoValue(ctx, func(ctx context.Context) (*models.ContentItem, error) {
		return s.content.GetByID(ctx, contentID)
	}, s.retryOpts)
	if err != nil {
		if appErrors.IsPermanent(err) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "content store unavailable")
	}

	student := models.StudentInfo{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        models.NormalizeEmail(req.Email),
		MatricNumber: strings.TrimSpace(req.MatricNumber),
		Department:   req.Department,
		Level:        req.Level,
	}
	if phone := strings.TrimSpace(req.PhoneNumber); phone != "" {
		student.PhoneNumber = &phone
	}

	if err := s.ensureStudent(ctx, &student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to register student")
	}

	record := &models.DownloadRecord{
		ContentID:    item.ID,
		ContentTitle: item.Title,
		ContentType:  item.Type,
		Student:      student,
	}
	if ipAddress != "" {
		record.IPAddress = &ipAddress
	}
	if err := retry.Do(ctx, func(ctx context.Context) error {
		return s.downloads.Create(ctx, record)
	}, s.retryOpts); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to record download")
	}

	if err := s.content.IncrementDownloads(ctx, item.ID); err != nil {
		s.logger.Warn("download counter increment failed", zap.String("content_id", item.ID), zap.Error(err))
	} else if s.notifier != nil {
		s.notifier.ContentChanged(ctx)
	}

	s.logger.Info("download recorded",
		zap.String("content_id", item.ID),
		zap.String("student_email", student.Email),
	)

	resp := &dto.RecordDownloadResponse{DownloadID: record.ID}
	if item.File != nil {
		resp.DownloadURL = item.File.DownloadURL
	}
	return resp, nil
}

// ensureStudent registers the student on first sight. Existing records are
// left untouched so the first submission wins; the caller keeps working
// with the submitted details either way.
func (s *DownloadService) ensureStudent(ctx context.Context, student *models.StudentInfo) error {
	_, err := retry.DoValue(ctx, func(ctx context.Context) (*models.StudentInfo, error) {
		return s.students.GetByEmail(ctx, student.Email)
	}, s.retryOpts)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return retry.Do(ctx, func(ctx context.Context) error {
		return s.students.Create(ctx, student)
	}, s.retryOpts)
}

// GetStudent fetches a registered student by email.
func (s *DownloadService) GetStudent(ctx context.Context, email string) (*models.StudentInfo, error) {
	info, err := retry.DoValue(ctx, func(ctx context.Context) (*models.StudentInfo, error) {
		return s.students.GetByEmail(ctx, email)
	}, s.retryOpts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "student store unavailable")
	}
	return info, nil
}

// List returns the newest download records up to limit.
func (s *DownloadService) List(ctx context.Context, limit int) ([]models.DownloadRecord, error) {
	records, err := retry.DoValue(ctx, func(ctx context.Context) ([]models.DownloadRecord, error) {
		return s.downloads.List(ctx, limit)
	}, s.retryOpts)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "download log unavailable")
	}
	return records, nil
}

// Export renders the download log as csv or pdf bytes plus a content type.
func (s *DownloadService) Export(ctx context.Context, format string, limit int) ([]byte, string, error) {
	records, err := s.List(ctx, limit)
	if err != nil {
		return nil, "", err
	}
	data := downloadDataset(records)

	switch strings.ToLower(format) {
	case "csv", "":
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "csv export failed")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(data, "Download Log")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "pdf export failed")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format: %s", format))
	}
}

func downloadDataset(records []models.DownloadRecord) export.Dataset {
	headers := []string{"Date", "Content", "Type", "Student", "Email", "Matric No", "Department", "Level"}
	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, map[string]string{
			"Date":       record.DownloadDate.Format("2006-01-02 15:04"),
			"Content":    record.ContentTitle,
			"Type":       string(record.ContentType),
			"Student":    record.Student.FirstName + " " + record.Student.LastName,
			"Email":      record.Student.Email,
			"Matric No":  record.Student.MatricNumber,
			"Department": record.Student.Department,
			"Level":      record.Student.Level,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
