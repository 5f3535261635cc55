package services

import (
	"context"
	"errors"
	"time"

	"github.com/marcosgeraldo-berkeley/fitness-app/internal/models"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/nutrition"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/repository"
)

var (
	ErrProfileIncomplete  = errors.New("profile incomplete")
	ErrPrivacyNotAccepted = errors.New("privacy policy not accepted")
)

type userProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
	UpdatePartial(ctx context.Context, userID int64, req repository.UpdateProfileInput) (*models.UserProfile, error)
	UpdateTargets(ctx context.Context, userID int64, bmr, tdee, caloricTarget, proteinG, carbsG, fatG float64) (*models.UserProfile, error)
	CompleteOnboarding(ctx context.Context, userID int64) (*models.UserProfile, error)
	AcceptPrivacyPolicy(ctx context.Context, userID int64, acceptedAt time.Time) error
}

type userDeleter interface {
	Delete(ctx context.Context, userID int64) error
}

type ProfileService struct {
	profileRepo userProfileStore
	userRepo    userDeleter
}

func NewProfileService(profileRepo userProfileStore, userRepo userDeleter) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// UpdateProfile applies a partial update and recomputes the stored nutrition
// targets whenever the profile has the measurements to support them. Targets
// are never left stale after a body-stat change.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, req repository.UpdateProfileInput) (*models.UserProfile, error) {
	profile, err := s.profileRepo.UpdatePartial(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return s.recomputeTargets(ctx, profile)
}

func (s *ProfileService) recomputeTargets(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	if profile.Age == nil || profile.Gender == nil || profile.HeightCM == nil || profile.WeightKG == nil {
		return profile, nil
	}

	inputs := nutrition.Inputs{
		Age:      *profile.Age,
		Gender:   *profile.Gender,
		HeightCM: *profile.HeightCM,
		WeightKG: *profile.WeightKG,
	}
	if profile.ActivityLevel != nil {
		inputs.ActivityLevel = nutrition.ActivityLevel(*profile.ActivityLevel)
	}
	if profile.Goal != nil {
		inputs.Goal = nutrition.Goal(*profile.Goal)
	}

	targets, err := nutrition.Calculate(inputs)
	if err != nil {
		return nil, err
	}

	return s.profileRepo.UpdateTargets(ctx, profile.UserID,
		targets.BMR, targets.TDEE, targets.CaloricTarget,
		targets.ProteinG, targets.CarbsG, targets.FatG)
}

func (s *ProfileService) AcceptPrivacyPolicy(ctx context.Context, userID int64) error {
	return s.profileRepo.AcceptPrivacyPolicy(ctx, userID, time.Now())
}

// CompleteOnboarding marks the questionnaire as finished. The core metrics
// and the privacy acceptance must be in place first.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, userID int64) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if profile.Age == nil || profile.Gender == nil || profile.HeightCM == nil ||
		profile.WeightKG == nil || profile.ActivityLevel == nil || profile.Goal == nil {
		return nil, ErrProfileIncomplete
	}
	if !profile.PrivacyAccepted {
		return nil, ErrPrivacyNotAccepted
	}

	return s.profileRepo.CompleteOnboarding(ctx, userID)
}

// DeleteAccount removes the user row; profiles and plans go with it via
// foreign key cascades.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID int64) error {
	return s.userRepo.Delete(ctx, userID)
}
