package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edushare/edushare-api/internal/middleware"
	"github.com/edushare/edushare-api/internal/models"
	"github.com/edushare/edushare-api/internal/service"
	appErrors "github.com/edushare/edushare-api/pkg/errors"
	"github.com/edushare/edushare-api/pkg/retry"
)

type fakeContentStore struct {
	items []models.ContentItem
}

func (s *fakeContentStore) List(_ context.Context, privileged bool) ([]models.ContentItem, error) {
	if privileged {
		return s.items, nil
	}
	visible := make([]models.ContentItem, 0, len(s.items))
	for _, item := range s.items {
		if item.Visibility == models.VisibilityPublic {
			visible = append(visible, item)
		}
	}
	return visible, nil
}

func (s *fakeContentStore) GetByID(_ context.Context, id string) (*models.ContentItem, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, appErrors.ErrNotFound
}

func (s *fakeContentStore) Create(_ context.Context, _ *models.ContentItem) error        { return nil }
func (s *fakeContentStore) IncrementDownloads(_ context.Context, _ string) error         { return nil }
func (s *fakeContentStore) IncrementViews(_ context.Context, _ string) error             { return nil }
func (s *fakeContentStore) Delete(_ context.Context, _ string) error                     { return nil }
func (s *fakeContentStore) Statistics(_ context.Context) (*models.ContentStatistics, error) {
	return &models.ContentStatistics{}, nil
}

type fakeCounter struct{}

func (fakeCounter) Count(_ context.Context) (int64, error) { return 0, nil }

type noopCache struct{}

func (noopCache) Get(_ context.Context, _ string, _ interface{}) error { return appErrors.ErrCacheMiss }
func (noopCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}
func (noopCache) Delete(_ context.Context, _ string) error { return nil }

func newTestRouter(t *testing.T, store *fakeContentStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	opts := retry.Options{MaxAttempts: 1, BaseDelay: time.Millisecond}
	content := service.NewContentService(store, fakeCounter{}, nil, noopCache{}, nil, validator.New(), opts, time.Minute, zap.NewNop())
	h := NewContentHandler(content, nil, nil, 0)

	verifier := service.NewStaticVerifier("admin@admin.com", "", "edushare@123")
	auth := service.NewAuthService(verifier, "test_secret", time.Hour, "edushare-api", zap.NewNop())

	r := gin.New()
	r.GET("/content", middleware.OptionalJWT(auth), h.List)
	r.GET("/content/:id", middleware.OptionalJWT(auth), h.Get)
	r.POST("/content/:id/views", h.RecordView)
	return r
}

func lecturerToken(t *testing.T) string {
	t.Helper()
	verifier := service.NewStaticVerifier("admin@admin.com", "", "edushare@123")
	auth := service.NewAuthService(verifier, "test_secret", time.Hour, "edushare-api", zap.NewNop())
	resp, err := auth.Login(context.Background(), models.LoginRequest{Email: "admin@admin.com", Password: "edushare@123"})
	require.NoError(t, err)
	return resp.AccessToken
}

func seededStore() *fakeContentStore {
	return &fakeContentStore{items: []models.ContentItem{
		{ID: "pub", Title: "Open Notes", Type: models.ContentTypePDF, Visibility: models.VisibilityPublic},
		{ID: "sec", Title: "Draft Exam", Type: models.ContentTypePDF, Visibility: models.VisibilityLecturerOnly},
	}}
}

func decodeItems(t *testing.T, body []byte) []models.ContentItem {
	t.Helper()
	var envelope struct {
		Data []models.ContentItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Data
}

func TestContentListAnonymousSeesPublicOnly(t *testing.T) {
	router := newTestRouter(t, seededStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/content", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	items := decodeItems(t, w.Body.Bytes())
	require.Len(t, items, 1)
	assert.Equal(t, "pub", items[0].ID)
}

func TestContentListLecturerSeesEverything(t *testing.T) {
	router := newTestRouter(t, seededStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/content", nil)
	req.Header.Set("Authorization", "Bearer "+lecturerToken(t))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeItems(t, w.Body.Bytes()), 2)
}

func TestContentGetHidesRestrictedFromAnonymous(t *testing.T) {
	router := newTestRouter(t, seededStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/content/sec", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContentRecordViewAlwaysNoContent(t *testing.T) {
	router := newTestRouter(t, seededStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/content/pub/views", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
