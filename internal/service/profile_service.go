package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edushare/edushare-api/internal/dto"
	"github.com/edushare/edushare-api/internal/models"
	appErrors "github.com/edushare/edushare-api/pkg/errors"
	"github.com/edushare/edushare-api/pkg/retry"
)

// MainProfileID is the key the single lecturer profile is stored under.
const MainProfileID = "main"

// LecturerStore is the persistence surface for lecturer profiles.
type LecturerStore interface {
	GetByID(ctx context.Context, id string) (*models.LecturerProfile, error)
	GetMain(ctx context.Context) (*models.LecturerProfile, error)
	Create(ctx context.Context, profile *models.LecturerProfile) error
	Update(ctx context.Context, profile *models.LecturerProfile) error
}

// ProfileService manages the lecturer contact card shown to students.
type ProfileService struct {
	store     LecturerStore
	validator *validator.Validate
	retryOpts retry.Options
	logger    *zap.Logger
}

// NewProfileService wires the profile service.
func NewProfileService(store LecturerStore, validate *validator.Validate, retryOpts retry.Options, logger *zap.Logger) *ProfileService {
	return &ProfileService{store: store, validator: validate, retryOpts: retryOpts, logger: logger}
}

// Get fetches one profile by id.
func (s *ProfileService) Get(ctx context.Context, id string) (*models.LecturerProfile, error) {
	profile, err := retry.DoValue(ctx, func(ctx context.Context) (*models.LecturerProfile, error) {
		return s.store.GetByID(ctx, id)
	}, s.retryOpts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "profile store unavailable")
	}
	return profile, nil
}

// GetMain returns the lecturer profile students see. When no profile exists
// yet the result is a not found error rather than an empty card.
func (s *ProfileService) GetMain(ctx context.Context) (*models.LecturerProfile, error) {
	profile, err := retry.DoValue(ctx, func(ctx context.Context) (*models.LecturerProfile, error) {
		return s.store.GetMain(ctx)
	}, s.retryOpts)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "profile store unavailable")
	}
	if profile == nil {
		return nil, appErrors.ErrNotFound
	}
	return profile, nil
}

// Upsert creates the profile on first save and updates it afterwards.
func (s *ProfileService) Upsert(ctx context.Context, req dto.UpsertLecturerRequest) (*models.LecturerProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	profile := &models.LecturerProfile{
		ID:          MainProfileID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       models.NormalizeEmail(req.Email),
		Phone:       req.Phone,
		Office:      req.Office,
		Department:  req.Department,
		Title:       req.Title,
		Bio:         req.Bio,
		OfficeHours: req.OfficeHours,
	}

	existing, err := retry.DoValue(ctx, func(ctx context.Context) (*models.LecturerProfile, error) {
		return s.store.GetByID(ctx, MainProfileID)
	}, s.retryOpts)
	switch {
	case err == nil:
		profile.CreatedAt = existing.CreatedAt
		err = retry.Do(ctx, func(ctx context.Context) error {
			return s.store.Update(ctx, profile)
		}, s.retryOpts)
	case errors.Is(err, sql.ErrNoRows):
		err = retry.Do(ctx, func(ctx context.Context) error {
			return s.store.Create(ctx, profile)
		}, s.retryOpts)
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "profile store unavailable")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to save profile")
	}

	s.logger.Info("lecturer profile saved", zap.String("profile_id", profile.ID))
	return profile, nil
}
