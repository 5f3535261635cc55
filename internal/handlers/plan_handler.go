package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/mealapi"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/models"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/services"
)

type planService interface {
	CreateWeeklyPlans(ctx context.Context, userID int64) (*services.WeeklyPlans, error)
	RegenerateWorkoutPlan(ctx context.Context, userID int64) (*models.Plan, error)
	RegenerateMealPlans(ctx context.Context, userID int64) (*services.WeeklyPlans, error)
	GetWorkoutPlan(ctx context.Context, userID int64, week *time.Time) (*models.Plan, error)
	GetMealPlan(ctx context.Context, userID int64, week *time.Time) (*models.Plan, error)
	GetGroceryList(ctx context.Context, userID int64, week *time.Time) (*models.Plan, error)
}

type availabilityReporter interface {
	Available() bool
}

type PlanHandler struct {
	planService planService
	mealStatus  availabilityReporter
}

func NewPlanHandler(planService planService, mealStatus availabilityReporter) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		mealStatus:  mealStatus,
	}
}

// CreatePlans generates this week's workout plan, meal plan and grocery list
// in one shot. A down meal service does not fail the request; the response
// flags that fallback content was stored.
func (h *PlanHandler) CreatePlans(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	plans, err := h.planService.CreateWeeklyPlans(c.Context(), userID)
	if err != nil {
		return h.planError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"workout_plan":  plans.Workout,
		"meal_plan":     plans.Meal,
		"grocery_list":  plans.Grocery,
		"meal_fallback": plans.MealFallback,
	})
}

func (h *PlanHandler) RegenerateWorkoutPlan(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	plan, err := h.planService.RegenerateWorkoutPlan(c.Context(), userID)
	if err != nil {
		return h.planError(c, err)
	}

	return c.JSON(fiber.Map{"workout_plan": plan})
}

// RegenerateMealPlans refuses outright when the meal service is known to be
// down; regenerating into a fallback would overwrite a real stored plan.
func (h *PlanHandler) RegenerateMealPlans(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if h.mealStatus != nil && !h.mealStatus.Available() {
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"error": "Meal planning service is currently unavailable"})
	}

	plans, err := h.planService.RegenerateMealPlans(c.Context(), userID)
	if err != nil {
		return h.planError(c, err)
	}

	return c.JSON(fiber.Map{
		"meal_plan":     plans.Meal,
		"grocery_list":  plans.Grocery,
		"meal_fallback": plans.MealFallback,
	})
}

func (h *PlanHandler) GetWorkoutPlan(c *fiber.Ctx) error {
	return h.getPlan(c, h.planService.GetWorkoutPlan, "workout_plan")
}

func (h *PlanHandler) GetMealPlan(c *fiber.Ctx) error {
	return h.getPlan(c, h.planService.GetMealPlan, "meal_plan")
}

func (h *PlanHandler) GetGroceryList(c *fiber.Ctx) error {
	return h.getPlan(c, h.planService.GetGroceryList, "grocery_list")
}

// ServiceStatus reports cached meal service availability for the frontend
// banner.
func (h *PlanHandler) ServiceStatus(c *fiber.Ctx) error {
	available := true
	if h.mealStatus != nil {
		available = h.mealStatus.Available()
	}
	return c.JSON(fiber.Map{
		"meal_api_available":       available,
		"generation_services_down": !available,
	})
}

func (h *PlanHandler) getPlan(
	c *fiber.Ctx,
	fetch func(ctx context.Context, userID int64, week *time.Time) (*models.Plan, error),
	key string,
) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var week *time.Time
	if raw := c.Query("week"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "week must be formatted YYYY-MM-DD"})
		}
		week = &parsed
	}

	plan, err := fetch(c.Context(), userID, week)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch plan"})
	}

	return c.JSON(fiber.Map{key: plan})
}

func (h *PlanHandler) planError(c *fiber.Ctx, err error) error {
	var validationErr *mealapi.ValidationError
	switch {
	case errors.Is(err, services.ErrProfileIncomplete):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Complete onboarding before generating plans"})
	case errors.Is(err, services.ErrPrivacyNotAccepted):
		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"error": "Privacy policy must be accepted before generating plans"})
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Error()})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate plans"})
}
