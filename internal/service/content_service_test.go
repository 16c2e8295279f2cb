package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edushare/edushare-api/internal/dto"
	"github.com/edushare/edushare-api/internal/models"
	appErrors "github.com/edushare/edushare-api/pkg/errors"
	"github.com/edushare/edushare-api/pkg/retry"
)

var testRetryOpts = retry.Options{MaxAttempts: 3, BaseDelay: time.Millisecond}

type stubContentStore struct {
	items     []models.ContentItem
	listErr   error
	listCalls int

	getItem *models.ContentItem
	getErr  error

	createErr   error
	createCalls int
	created     *models.ContentItem

	deleteErr   error
	deleteCalls int

	incViewsErr     error
	incViewsCalls   int
	incDownloadsErr error

	stats    *models.ContentStatistics
	statsErr error
}

func (s *stubContentStore) List(_ context.Context, _ bool) ([]models.ContentItem, error) {
	s.listCalls++
	return s.items, s.listErr
}

func (s *stubContentStore) GetByID(_ context.Context, _ string) (*models.ContentItem, error) {
	return s.getItem, s.getErr
}

func (s *stubContentStore) Create(_ context.Context, item *models.ContentItem) error {
	s.createCalls++
	if s.createErr != nil {
		return s.createErr
	}
	item.ID = "generated"
	s.created = item
	return nil
}

func (s *stubContentStore) IncrementDownloads(_ context.Context, _ string) error {
	return s.incDownloadsErr
}

func (s *stubContentStore) IncrementViews(_ context.Context, _ string) error {
	s.incViewsCalls++
	return s.incViewsErr
}

func (s *stubContentStore) Delete(_ context.Context, _ string) error {
	s.deleteCalls++
	return s.deleteErr
}

func (s *stubContentStore) Statistics(_ context.Context) (*models.ContentStatistics, error) {
	return s.stats, s.statsErr
}

type stubStudentCounter struct {
	count int64
	err   error
}

func (s *stubStudentCounter) Count(_ context.Context) (int64, error) { return s.count, s.err }

type stubFileStore struct {
	savedPaths []string
	saveErr    error
	deleted    []string
	deleteErr  error
}

func (s *stubFileStore) Save(relPath string, _ io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.savedPaths = append(s.savedPaths, relPath)
	return "/files/" + relPath, nil
}

func (s *stubFileStore) DeleteByURL(url string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, url)
	return nil
}

type stubStatsCache struct {
	cached  *models.ContentStatistics
	sets    int
	deletes int
}

func (s *stubStatsCache) Get(_ context.Context, _ string, dest interface{}) error {
	if s.cached == nil {
		return appErrors.ErrCacheMiss
	}
	*dest.(*models.ContentStatistics) = *s.cached
	return nil
}

func (s *stubStatsCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	s.sets++
	return nil
}

func (s *stubStatsCache) Delete(_ context.Context, _ string) error {
	s.deletes++
	return nil
}

type stubNotifier struct {
	notified int
}

func (s *stubNotifier) ContentChanged(_ context.Context) { s.notified++ }

func newContentService(store *stubContentStore, files *stubFileStore, cache *stubStatsCache, notifier *stubNotifier) *ContentService {
	return NewContentService(store, &stubStudentCounter{count: 7}, files, cache, notifier, validator.New(), testRetryOpts, time.Minute, zap.NewNop())
}

func TestContentServiceListDegradesToEmptyOnOutage(t *testing.T) {
	store := &stubContentStore{listErr: appErrors.ErrUnavailable}
	svc := newContentService(store, &stubFileStore{}, &stubStatsCache{}, &stubNotifier{})

	items, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 3, store.listCalls)
}

func TestContentServiceListFailsFastOnDenied(t *testing.T) {
	store := &stubContentStore{listErr: appErrors.ErrForbidden}
	svc := newContentService(store, &stubFileStore{}, &stubStatsCache{}, &stubNotifier{})

	_, err := svc.List(context.Background(), false)
	require.Error(t, err)
	assert.Equal(t, 1, store.listCalls)
}

func TestContentServiceListByType(t *testing.T) {
	store := &stubContentStore{items: []models.ContentItem{
		{ID: "a", Type: models.ContentTypePDF},
		{ID: "b", Type: models.ContentTypeVideo},
		{ID: "c", Type: models.ContentTypePDF},
	}}
	svc := newContentService(store, &stubFileStore{}, &stubStatsCache{}, &stubNotifier{})

	items, err := svc.ListByType(context.Background(), true, models.ContentTypePDF)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
}

func TestContentServiceListByTypeUnknownKindYieldsEmpty(t *testing.T) {
	store := &stubContentStore{items: []models.ContentItem{
		{ID: "a", Type: models.ContentTypePDF},
	}}
	svc := newContentService(store, &stubFileStore{}, &stubStatsCache{}, &stubNotifier{})

	items, err := svc.ListByType(context.Background(), true, models.ContentType("podcast"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestContentServiceGetHidesRestrictedFromAnonymous(t *testing.T) {
	store := &stubContentStore{getItem: &models.ContentItem{ID: "c1", Visibility: models.VisibilityLecturerOnly}}
	svc := newContentService(store, &stubFileStore{}, &stubStatsCache{}, &stubNotifier{})

	_, err := svc.Get(context.Background(), "c1", false)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	item, err := svc.Get(context.Background(), "c1", true)
	require.NoError(t, err)
	assert.Equal(t, "c1", item.ID)
}

func TestContentServiceUploadVideoRequiresURL(t *testing.T) {
	svc := newContentService(&stubContentStore{}, &stubFileStore{}, &stubStatsCache{}, &stubNotifier{})

	_, err := svc.Upload(context.Background(), dto.UploadContentRequest{
		Title:       "Lecture 1",
		ContentType: models.ContentTypeVideo,
		Visibility:  models.VisibilityPublic,
	}, nil, "", 0, "admin@admin.com")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestContentServiceUploadStoresFileAndNotifies(t *testing.T) {
	store := &stubContentStore{}
	files := &stubFileStore{}
	cache := &stubStatsCache{}
	notifier := &stubNotifier{}
	svc := newContentService(store, files, cache, notifier)

	item, err := svc.Upload(context.Background(), dto.UploadContentRequest{
		Title:       "Syllabus",
		ContentType: models.ContentTypePDF,
		Visibility:  models.VisibilityPublic,
	}, bytes.NewReader([]byte("pdf-bytes")), "course outline.pdf", 9, "admin@admin.com")
	require.NoError(t, err)
	require.NotNil(t, item.File)
	assert.True(t, strings.HasPrefix(item.File.DownloadURL, "/files/pdfs/"))
	assert.Contains(t, item.File.DownloadURL, "course_outline.pdf")
	assert.Equal(t, "course outline.pdf", item.File.FileName)
	assert.Equal(t, 1, notifier.notified)
	assert.Equal(t, 1, cache.deletes)
}

func TestContentServiceUploadRollsBackBlobOnInsertFailure(t *testing.T) {
	store := &stubContentStore{createErr: appErrors.ErrValidation}
	files := &stubFileStore{}
	notifier := &stubNotifier{}
	svc := newContentService(store, files, &stubStatsCache{}, notifier)

	_, err := svc.Upload(context.Background(), dto.UploadContentRequest{
		Title:       "Syllabus",
		ContentType: models.ContentTypePDF,
		Visibility:  models.VisibilityPublic,
	}, bytes.NewReader([]byte("pdf-bytes")), "syllabus.pdf", 9, "admin@admin.com")
	require.Error(t, err)
	require.Len(t, files.deleted, 1)
	assert.Equal(t, 0, notifier.notified)
}

func TestContentServiceDeleteRemovesRecordThenBlob(t *testing.T) {
	store := &stubContentStore{getItem: &models.ContentItem{
		ID:   "c1",
		Type: models.ContentTypePDF,
		File: &models.FileAttachment{DownloadURL: "/files/pdfs/1_syllabus.pdf"},
	}}
	files := &stubFileStore{}
	notifier := &stubNotifier{}
	svc := newContentService(store, files, &stubStatsCache{}, notifier)

	require.NoError(t, svc.Delete(context.Background(), "c1"))
	assert.Equal(t, 1, store.deleteCalls)
	assert.Equal(t, []string{"/files/pdfs/1_syllabus.pdf"}, files.deleted)
	assert.Equal(t, 1, notifier.notified)
}

func TestContentServiceDeleteSurfacesBlobFailure(t *testing.T) {
	store := &stubContentStore{getItem: &models.ContentItem{
		ID:   "c1",
		Type: models.ContentTypePDF,
		File: &models.FileAttachment{DownloadURL: "/files/pdfs/1_syllabus.pdf"},
	}}
	files := &stubFileStore{deleteErr: appErrors.ErrInternal}
	svc := newContentService(store, files, &stubStatsCache{}, &stubNotifier{})

	err := svc.Delete(context.Background(), "c1")
	require.Error(t, err)
	assert.Equal(t, 1, store.deleteCalls)
}

func TestContentServiceIncrementViewsIsBestEffort(t *testing.T) {
	store := &stubContentStore{incViewsErr: appErrors.ErrUnavailable}
	notifier := &stubNotifier{}
	svc := newContentService(store, &stubFileStore{}, &stubStatsCache{}, notifier)

	svc.IncrementViews(context.Background(), "c1")
	assert.Equal(t, 1, store.incViewsCalls)
	assert.Equal(t, 0, notifier.notified)
}

func TestContentServiceCounterBumpsNotifyFeed(t *testing.T) {
	store := &stubContentStore{}
	notifier := &stubNotifier{}
	svc := newContentService(store, &stubFileStore{}, &stubStatsCache{}, notifier)

	svc.IncrementViews(context.Background(), "c1")
	assert.Equal(t, 1, notifier.notified)

	svc.IncrementDownloads(context.Background(), "c1")
	assert.Equal(t, 2, notifier.notified)
}

func TestContentServiceStatisticsUsesCache(t *testing.T) {
	cache := &stubStatsCache{cached: &models.ContentStatistics{TotalContent: 42}}
	store := &stubContentStore{statsErr: appErrors.ErrUnavailable}
	svc := newContentService(store, &stubFileStore{}, cache, &stubNotifier{})

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.TotalContent)
}

func TestContentServiceStatisticsComputesAndCaches(t *testing.T) {
	cache := &stubStatsCache{}
	store := &stubContentStore{stats: &models.ContentStatistics{TotalContent: 3, TotalDownloads: 12}}
	svc := newContentService(store, &stubFileStore{}, cache, &stubNotifier{})

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalContent)
	assert.Equal(t, int64(7), stats.TotalStudents)
	assert.False(t, stats.GeneratedAt.IsZero())
	assert.Equal(t, 1, cache.sets)
}
