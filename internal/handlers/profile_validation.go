package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

var allowedGenders = map[string]struct{}{
	"male":              {},
	"female":            {},
	"other":             {},
	"prefer_not_to_say": {},
}

var allowedActivityLevels = map[string]struct{}{
	"sedentary":         {},
	"lightly_active":    {},
	"moderately_active": {},
	"very_active":       {},
	"extra_active":      {},
}

var allowedGoals = map[string]struct{}{
	"weight_loss":     {},
	"muscle_gain":     {},
	"maintenance":     {},
	"general_fitness": {},
}

var allowedWorkoutDays = map[int]struct{}{
	1: {},
	3: {},
	5: {},
	7: {},
}

// fieldError names the rejected field so clients can highlight the right
// questionnaire input.
type fieldError struct {
	Field   string
	Message string
}

func validationFailed(c *fiber.Ctx, fieldErr *fieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": fieldErr.Message,
		"field": fieldErr.Field,
	})
}

func validateBasicInfoRequest(req basicInfoRequest) *fieldError {
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return &fieldError{"full_name", "full_name must not be empty"}
	}
	if req.Age < 13 || req.Age > 120 {
		return &fieldError{"age", "age must be between 13 and 120"}
	}
	if _, ok := allowedGenders[strings.TrimSpace(req.Gender)]; !ok {
		return &fieldError{"gender", "gender must be one of: male, female, other, prefer_not_to_say"}
	}
	if req.HeightCM == nil && req.HeightIn == nil {
		return &fieldError{"height_cm", "height_cm or height_in is required"}
	}
	if req.HeightCM != nil && (*req.HeightCM < 90 || *req.HeightCM > 250) {
		return &fieldError{"height_cm", "height_cm must be between 90 and 250"}
	}
	if req.HeightIn != nil && *req.HeightIn <= 0 {
		return &fieldError{"height_in", "height_in must be greater than 0"}
	}
	if req.WeightKG == nil && req.WeightLbs == nil {
		return &fieldError{"weight_kg", "weight_kg or weight_lbs is required"}
	}
	if req.WeightKG != nil && (*req.WeightKG < 25 || *req.WeightKG > 400) {
		return &fieldError{"weight_kg", "weight_kg must be between 25 and 400"}
	}
	if req.WeightLbs != nil && *req.WeightLbs <= 0 {
		return &fieldError{"weight_lbs", "weight_lbs must be greater than 0"}
	}
	return nil
}

func validateActivityLevel(level string) *fieldError {
	if _, ok := allowedActivityLevels[strings.TrimSpace(level)]; !ok {
		return &fieldError{"activity_level",
			"activity_level must be one of: sedentary, lightly_active, moderately_active, very_active, extra_active"}
	}
	return nil
}

func validateGoal(goal string) *fieldError {
	if _, ok := allowedGoals[strings.TrimSpace(goal)]; !ok {
		return &fieldError{"goal", "goal must be one of: weight_loss, muscle_gain, maintenance, general_fitness"}
	}
	return nil
}

func validateWorkoutDays(days int) *fieldError {
	if _, ok := allowedWorkoutDays[days]; !ok {
		return &fieldError{"workout_days", "workout_days must be one of: 1, 3, 5, 7"}
	}
	return nil
}

func validateStringList(field string, values []string) *fieldError {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return &fieldError{field, field + " must not contain empty values"}
		}
	}
	return nil
}
