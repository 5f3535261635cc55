package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/models"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/nutrition"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/repository"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/services"
)

type onboardingProfileService interface {
	UpdateProfile(ctx context.Context, userID int64, req repository.UpdateProfileInput) (*models.UserProfile, error)
	AcceptPrivacyPolicy(ctx context.Context, userID int64) error
	CompleteOnboarding(ctx context.Context, userID int64) (*models.UserProfile, error)
}

// OnboardingHandler persists the questionnaire one step at a time. Each step
// is an independent partial update so the client can save and resume.
type OnboardingHandler struct {
	profileService onboardingProfileService
}

func NewOnboardingHandler(profileService onboardingProfileService) *OnboardingHandler {
	return &OnboardingHandler{profileService: profileService}
}

type basicInfoRequest struct {
	FullName  *string  `json:"full_name"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
	HeightCM  *float64 `json:"height_cm"`
	HeightIn  *float64 `json:"height_in"`
	WeightKG  *float64 `json:"weight_kg"`
	WeightLbs *float64 `json:"weight_lbs"`
}

// BasicInfo accepts metric or imperial measurements; imperial values are
// converted before storage.
func (h *OnboardingHandler) BasicInfo(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req basicInfoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if fieldErr := validateBasicInfoRequest(req); fieldErr != nil {
		return validationFailed(c, fieldErr)
	}

	heightCM := req.HeightCM
	if heightCM == nil {
		converted := nutrition.InchesToCM(*req.HeightIn)
		heightCM = &converted
	}
	weightKG := req.WeightKG
	if weightKG == nil {
		converted := nutrition.LbsToKG(*req.WeightLbs)
		weightKG = &converted
	}
	if *heightCM < 90 || *heightCM > 250 {
		return validationFailed(c, &fieldError{"height_in", "height must convert to between 90 and 250 cm"})
	}
	if *weightKG < 25 || *weightKG > 400 {
		return validationFailed(c, &fieldError{"weight_lbs", "weight must convert to between 25 and 400 kg"})
	}

	return h.update(c, userID, repository.UpdateProfileInput{
		FullName: req.FullName,
		Age:      &req.Age,
		Gender:   &req.Gender,
		HeightCM: heightCM,
		WeightKG: weightKG,
	})
}

func (h *OnboardingHandler) ActivityLevel(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req struct {
		ActivityLevel string `json:"activity_level"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if fieldErr := validateActivityLevel(req.ActivityLevel); fieldErr != nil {
		return validationFailed(c, fieldErr)
	}

	return h.update(c, userID, repository.UpdateProfileInput{ActivityLevel: &req.ActivityLevel})
}

func (h *OnboardingHandler) Goal(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req struct {
		Goal string `json:"goal"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if fieldErr := validateGoal(req.Goal); fieldErr != nil {
		return validationFailed(c, fieldErr)
	}

	return h.update(c, userID, repository.UpdateProfileInput{Goal: &req.Goal})
}

func (h *OnboardingHandler) Equipment(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req struct {
		Equipment []string `json:"equipment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if fieldErr := validateStringList("equipment", req.Equipment); fieldErr != nil {
		return validationFailed(c, fieldErr)
	}

	return h.update(c, userID, repository.UpdateProfileInput{AvailableEquipment: &req.Equipment})
}

func (h *OnboardingHandler) Schedule(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req struct {
		WorkoutDays int `json:"workout_days"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if fieldErr := validateWorkoutDays(req.WorkoutDays); fieldErr != nil {
		return validationFailed(c, fieldErr)
	}

	return h.update(c, userID, repository.UpdateProfileInput{WorkoutDays: &req.WorkoutDays})
}

func (h *OnboardingHandler) Limitations(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req struct {
		Limitations []string `json:"limitations"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if fieldErr := validateStringList("limitations", req.Limitations); fieldErr != nil {
		return validationFailed(c, fieldErr)
	}

	return h.update(c, userID, repository.UpdateProfileInput{PhysicalLimitations: &req.Limitations})
}

func (h *OnboardingHandler) DietaryRestrictions(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req struct {
		DietaryRestrictions []string `json:"dietary_restrictions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if fieldErr := validateStringList("dietary_restrictions", req.DietaryRestrictions); fieldErr != nil {
		return validationFailed(c, fieldErr)
	}

	return h.update(c, userID, repository.UpdateProfileInput{DietaryRestrictions: &req.DietaryRestrictions})
}

func (h *OnboardingHandler) FoodPreferences(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req struct {
		FoodPreferences *string `json:"food_preferences"`
		FoodExclusions  *string `json:"food_exclusions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	return h.update(c, userID, repository.UpdateProfileInput{
		FoodPreferences: req.FoodPreferences,
		FoodExclusions:  req.FoodExclusions,
	})
}

type completeRequest struct {
	PrivacyAccepted bool `json:"privacy_accepted"`
}

// Complete records privacy acceptance and marks onboarding finished. The
// service rejects the completion if required steps are missing.
func (h *OnboardingHandler) Complete(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req completeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.PrivacyAccepted {
		if err := h.profileService.AcceptPrivacyPolicy(c.Context(), userID); err != nil {
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to record privacy acceptance"})
		}
	}

	profile, err := h.profileService.CompleteOnboarding(c.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProfileIncomplete):
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "Profile is missing required onboarding steps"})
		case errors.Is(err, services.ErrPrivacyNotAccepted):
			return c.Status(fiber.StatusForbidden).
				JSON(fiber.Map{"error": "Privacy policy must be accepted"})
		case errors.Is(err, pgx.ErrNoRows):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete onboarding"})
	}

	return c.JSON(fiber.Map{
		"profile":             profile,
		"onboarding_complete": profile.OnboardingComplete,
	})
}

func (h *OnboardingHandler) update(c *fiber.Ctx, userID int64, input repository.UpdateProfileInput) error {
	profile, err := h.profileService.UpdateProfile(c.Context(), userID, input)
	if err != nil {
		var validationErr *nutrition.ValidationError
		if errors.As(err, &validationErr) {
			return validationFailed(c, &fieldError{validationErr.Field, validationErr.Message})
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"profile":             profile,
		"onboarding_complete": profile.OnboardingComplete,
	})
}
