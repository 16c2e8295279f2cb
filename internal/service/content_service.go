package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edushare/edushare-api/internal/dto"
	"github.com/edushare/edushare-api/internal/models"
	appErrors "github.com/edushare/edushare-api/pkg/errors"
	"github.com/edushare/edushare-api/pkg/retry"
)

const statsCacheKey = "content:statistics"

// ContentStore is the persistence surface the content service drives.
type ContentStore interface {
	List(ctx context.Context, privileged bool) ([]models.ContentItem, error)
	GetByID(ctx context.Context, id string) (*models.ContentItem, error)
	Create(ctx context.Context, item *models.ContentItem) error
	IncrementDownloads(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context) (*models.ContentStatistics, error)
}

// StudentCounter exposes the student head count used by statistics.
type StudentCounter interface {
	Count(ctx context.Context) (int64, error)
}

// FileStore persists uploaded blobs and resolves their public URLs.
type FileStore interface {
	Save(relPath string, r io.Reader) (string, error)
	DeleteByURL(url string) error
}

// StatsCache caches rendered statistics payloads.
type StatsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ChangeNotifier is told whenever the content collection changes so live
// subscribers can be resynced.
type ChangeNotifier interface {
	ContentChanged(ctx context.Context)
}

// ContentService implements the lecturer and student content operations.
type ContentService struct {
	store     ContentStore
	students  StudentCounter
	files     FileStore
	cache     StatsCache
	notifier  ChangeNotifier
	validator *validator.Validate
	retryOpts retry.Options
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewContentService wires the content service.
func NewContentService(
	store ContentStore,
	students StudentCounter,
	files FileStore,
	cache StatsCache,
	notifier ChangeNotifier,
	validate *validator.Validate,
	retryOpts retry.Options,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ContentService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ContentService{
		store:     store,
		students:  students,
		files:     files,
		cache:     cache,
		notifier:  notifier,
		validator: validate,
		retryOpts: retryOpts,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// List returns content visible to the caller, newest first. Store outages
// degrade to an empty listing so browsing never hard-fails; the failure is
// logged and reported through the error for callers that care.
func (s *ContentService) List(ctx context.Context, privileged bool) ([]models.ContentItem, error) {
	items, err := retry.DoValue(ctx, func(ctx context.Context) ([]models.ContentItem, error) {
		return s.store.List(ctx, privileged)
	}, s.retryOpts)
	if err != nil {
		if appErrors.IsPermanent(err) {
			return nil, err
		}
		s.logger.Error("content listing degraded to empty", zap.Error(err))
		return []models.ContentItem{}, nil
	}
	return items, nil
}

// ListByType narrows the visible listing to one content kind. Kinds
// outside the known set match nothing and yield an empty listing.
func (s *ContentService) ListByType(ctx context.Context, privileged bool, contentType models.ContentType) ([]models.ContentItem, error) {
	items, err := s.List(ctx, privileged)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.ContentItem, 0, len(items))
	for _, item := range items {
		if item.Type == contentType {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// Get fetches one content item. Restricted items are hidden from
// unprivileged callers as if they did not exist.
func (s *ContentService) Get(ctx context.Context, id string, privileged bool) (*models.ContentItem, error) {
	item, err := retry.DoValue(ctx, func(ctx context.Context) (*models.ContentItem, error) {
		return s.store.GetByID(ctx, id)
	}, s.retryOpts)
	if err != nil {
		if appErrors.IsPermanent(err) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "content store unavailable")
	}
	if item.Visibility == models.VisibilityLecturerOnly && !privileged {
		return nil, appErrors.ErrNotFound
	}
	return item, nil
}

// Upload stores the blob first, then the record, and rolls the blob back if
// the record insert fails so no orphaned file survives a partial upload.
func (s *ContentService) Upload(ctx context.Context, req dto.UploadContentRequest, file io.Reader, fileName string, fileSize int64, uploadedBy string) (*models.ContentItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid upload payload")
	}

	item := &models.ContentItem{
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		CourseTitle:       req.CourseTitle,
		CourseDescription: req.CourseDescription,
		Category:          req.Category,
		Tags:              req.Tags,
		Type:              req.ContentType,
		Visibility:        req.Visibility,
		UploadedBy:        uploadedBy,
	}

	switch {
	case req.ContentType.HasFile():
		if file == nil || fileName == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "file upload required for this content type")
		}
		relPath := fmt.Sprintf("%s/%d_%s", req.ContentType.UploadFolder(), time.Now().UnixMilli(), sanitizeFileName(fileName))
		url, err := s.files.Save(relPath, file)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
		}
		item.File = &models.FileAttachment{FileName: fileName, FileSize: fileSize, DownloadURL: url}
	case req.ContentType == models.ContentTypeVideo:
		if strings.TrimSpace(req.VideoURL) == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "video URL required for video content")
		}
		item.Video = &models.VideoAttachment{
			URL:             req.VideoURL,
			DurationSeconds: req.VideoDuration,
			ThumbnailURL:    req.VideoThumbnail,
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown content type")
	}

	if !item.Validate() {
		return nil, appErrors.ErrValidation
	}

	if err := retry.Do(ctx, func(ctx context.Context) error {
		return s.store.Create(ctx, item)
	}, s.retryOpts); err != nil {
		if item.File != nil {
			if delErr := s.files.DeleteByURL(item.File.DownloadURL); delErr != nil {
				s.logger.Error("failed to roll back stored file", zap.String("url", item.File.DownloadURL), zap.Error(delErr))
			}
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to save content")
	}

	s.logger.Info("content uploaded",
		zap.String("content_id", item.ID),
		zap.String("content_type", string(item.Type)),
		zap.String("visibility", string(item.Visibility)),
	)
	s.invalidateStats(ctx)
	s.notifyChanged(ctx)
	return item, nil
}

// Delete removes the record first and the blob second. Either failure
// surfaces: a dangling blob is recoverable, a dangling record is not.
func (s *ContentService) Delete(ctx context.Context, id string) error {
	item, err := retry.DoValue(ctx, func(ctx context.Context) (*models.ContentItem, error) {
		return s.store.GetByID(ctx, id)
	}, s.retryOpts)
	if err != nil {
		if appErrors.IsPermanent(err) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "content store unavailable")
	}

	if err := retry.Do(ctx, func(ctx context.Context) error {
		return s.store.Delete(ctx, id)
	}, s.retryOpts); err != nil {
		if appErrors.IsPermanent(err) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to delete content")
	}

	if item.File != nil {
		if err := s.files.DeleteByURL(item.File.DownloadURL); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "content record deleted but file removal failed")
		}
	}

	s.logger.Info("content deleted", zap.String("content_id", id))
	s.invalidateStats(ctx)
	s.notifyChanged(ctx)
	return nil
}

// IncrementViews bumps the view counter. Best effort: a single attempt, and
// failures are logged rather than surfaced so reads never break over a
// counter. A successful bump counts as a content change, so live
// subscribers pick up the new figure.
func (s *ContentService) IncrementViews(ctx context.Context, id string) {
	if err := s.store.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("view counter increment failed", zap.String("content_id", id), zap.Error(err))
		return
	}
	s.notifyChanged(ctx)
}

// IncrementDownloads bumps the download counter, best effort like views.
func (s *ContentService) IncrementDownloads(ctx context.Context, id string) {
	if err := s.store.IncrementDownloads(ctx, id); err != nil {
		s.logger.Warn("download counter increment failed", zap.String("content_id", id), zap.Error(err))
		return
	}
	s.notifyChanged(ctx)
}

// Statistics aggregates dashboard figures, served from cache when warm.
func (s *ContentService) Statistics(ctx context.Context) (*models.ContentStatistics, error) {
	var cached models.ContentStatistics
	if err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil {
		return &cached, nil
	}

	stats, err := retry.DoValue(ctx, func(ctx context.Context) (*models.ContentStatistics, error) {
		return s.store.Statistics(ctx)
	}, s.retryOpts)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "statistics unavailable")
	}

	students, err := s.students.Count(ctx)
	if err != nil {
		s.logger.Warn("student count unavailable for statistics", zap.Error(err))
	} else {
		stats.TotalStudents = students
	}
	stats.GeneratedAt = time.Now().UTC()

	if err := s.cache.Set(ctx, statsCacheKey, stats, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache statistics", zap.Error(err))
	}
	return stats, nil
}

func (s *ContentService) invalidateStats(ctx context.Context) {
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate statistics cache", zap.Error(err))
	}
}

func (s *ContentService) notifyChanged(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.ContentChanged(ctx)
	}
}

func sanitizeFileName(name string) string {
	base := filepath.Base(name)
	replacer := strings.NewReplacer(" ", "_", "#", "_", "?", "_", "%", "_")
	return replacer.Replace(base)
}
