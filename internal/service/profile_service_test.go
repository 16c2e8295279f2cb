package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edushare/edushare-api/internal/dto"
	"github.com/edushare/edushare-api/internal/models"
	appErrors "github.com/edushare/edushare-api/pkg/errors"
)

type stubLecturerStore struct {
	existing *models.LecturerProfile
	main     *models.LecturerProfile
	mainErr  error

	created *models.LecturerProfile
	updated *models.LecturerProfile
}

func (s *stubLecturerStore) GetByID(_ context.Context, _ string) (*models.LecturerProfile, error) {
	if s.existing == nil {
		return nil, sql.ErrNoRows
	}
	return s.existing, nil
}

func (s *stubLecturerStore) GetMain(_ context.Context) (*models.LecturerProfile, error) {
	return s.main, s.mainErr
}

func (s *stubLecturerStore) Create(_ context.Context, profile *models.LecturerProfile) error {
	s.created = profile
	return nil
}

func (s *stubLecturerStore) Update(_ context.Context, profile *models.LecturerProfile) error {
	s.updated = profile
	return nil
}

func TestProfileServiceUpsertCreatesOnFirstSave(t *testing.T) {
	store := &stubLecturerStore{}
	svc := NewProfileService(store, validator.New(), testRetryOpts, zap.NewNop())

	profile, err := svc.Upsert(context.Background(), dto.UpsertLecturerRequest{
		FirstName: "Grace",
		LastName:  "Eze",
		Email:     "Grace@University.edu",
	})
	require.NoError(t, err)
	assert.Equal(t, MainProfileID, profile.ID)
	assert.Equal(t, "grace@university.edu", profile.Email)
	require.NotNil(t, store.created)
	assert.Nil(t, store.updated)
}

func TestProfileServiceUpsertUpdatesExisting(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &stubLecturerStore{existing: &models.LecturerProfile{ID: MainProfileID, CreatedAt: createdAt}}
	svc := NewProfileService(store, validator.New(), testRetryOpts, zap.NewNop())

	profile, err := svc.Upsert(context.Background(), dto.UpsertLecturerRequest{
		FirstName: "Grace",
		LastName:  "Eze",
		Email:     "grace@university.edu",
	})
	require.NoError(t, err)
	assert.Equal(t, createdAt, profile.CreatedAt)
	require.NotNil(t, store.updated)
	assert.Nil(t, store.created)
}

func TestProfileServiceGetMainEmpty(t *testing.T) {
	svc := NewProfileService(&stubLecturerStore{}, validator.New(), testRetryOpts, zap.NewNop())

	_, err := svc.GetMain(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestProfileServiceGetMainReturnsProfile(t *testing.T) {
	store := &stubLecturerStore{main: &models.LecturerProfile{ID: MainProfileID, FirstName: "Grace"}}
	svc := NewProfileService(store, validator.New(), testRetryOpts, zap.NewNop())

	profile, err := svc.GetMain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Grace", profile.FirstName)
}

func TestProfileServiceGetNotFound(t *testing.T) {
	svc := NewProfileService(&stubLecturerStore{}, validator.New(), testRetryOpts, zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
