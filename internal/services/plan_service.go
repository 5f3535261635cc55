package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/marcosgeraldo-berkeley/fitness-app/internal/mealapi"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/models"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/workout"
)

type planStore interface {
	UpsertWorkoutPlan(ctx context.Context, userID int64, weekDate time.Time, data json.RawMessage) (*models.Plan, error)
	UpsertMealPlan(ctx context.Context, userID int64, weekDate time.Time, data json.RawMessage) (*models.Plan, error)
	UpsertGroceryList(ctx context.Context, userID int64, weekDate time.Time, data json.RawMessage) (*models.Plan, error)
	GetWorkoutPlanForWeek(ctx context.Context, userID int64, weekDate time.Time) (*models.Plan, error)
	GetMealPlanForWeek(ctx context.Context, userID int64, weekDate time.Time) (*models.Plan, error)
	GetGroceryListForWeek(ctx context.Context, userID int64, weekDate time.Time) (*models.Plan, error)
	GetLatestWorkoutPlan(ctx context.Context, userID int64) (*models.Plan, error)
	GetLatestMealPlan(ctx context.Context, userID int64) (*models.Plan, error)
	GetLatestGroceryList(ctx context.Context, userID int64) (*models.Plan, error)
}

type workoutGenerator interface {
	WeeklyPlan(ctx context.Context, profile workout.Profile) (*workout.Plan, error)
}

type mealPlanner interface {
	GenerateMealPlan(ctx context.Context, req mealapi.PlanRequest) (*mealapi.MealPlan, error)
	GenerateGroceryList(ctx context.Context, plan *mealapi.MealPlan) (*mealapi.GroceryList, error)
}

type profileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
}

// PlanService orchestrates weekly plan generation: workouts from the local
// generator, meals and groceries from the meal service with local fallbacks.
type PlanService struct {
	profileRepo profileReader
	planRepo    planStore
	generator   workoutGenerator
	meals       mealPlanner
	now         func() time.Time
}

func NewPlanService(profileRepo profileReader, planRepo planStore, generator workoutGenerator, meals mealPlanner) *PlanService {
	return &PlanService{
		profileRepo: profileRepo,
		planRepo:    planRepo,
		generator:   generator,
		meals:       meals,
		now:         time.Now,
	}
}

// WeeklyPlans bundles the three persisted rows for one generation run.
type WeeklyPlans struct {
	Workout *models.Plan
	Meal    *models.Plan
	Grocery *models.Plan

	// MealFallback is set when the meal service was unreachable and a
	// default plan was stored instead.
	MealFallback bool
}

// CreateWeeklyPlans generates and stores all three plans for the current
// week. The profile must have finished onboarding and accepted the privacy
// policy.
func (s *PlanService) CreateWeeklyPlans(ctx context.Context, userID int64) (*WeeklyPlans, error) {
	profile, err := s.readyProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	weekMonday := mondayOf(s.now())

	result := &WeeklyPlans{}

	result.Workout, err = s.generateWorkout(ctx, profile, weekMonday)
	if err != nil {
		return nil, err
	}

	result.Meal, result.Grocery, result.MealFallback, err = s.generateMeals(ctx, profile, weekMonday)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RegenerateWorkoutPlan rebuilds only the workout plan for the current week.
func (s *PlanService) RegenerateWorkoutPlan(ctx context.Context, userID int64) (*models.Plan, error) {
	profile, err := s.readyProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.generateWorkout(ctx, profile, mondayOf(s.now()))
}

// RegenerateMealPlans rebuilds the meal plan and grocery list for the
// current week.
func (s *PlanService) RegenerateMealPlans(ctx context.Context, userID int64) (*WeeklyPlans, error) {
	profile, err := s.readyProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &WeeklyPlans{}
	result.Meal, result.Grocery, result.MealFallback, err = s.generateMeals(ctx, profile, mondayOf(s.now()))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PlanService) GetWorkoutPlan(ctx context.Context, userID int64, week *time.Time) (*models.Plan, error) {
	if week != nil {
		return s.planRepo.GetWorkoutPlanForWeek(ctx, userID, mondayOf(*week))
	}
	return s.planRepo.GetLatestWorkoutPlan(ctx, userID)
}

func (s *PlanService) GetMealPlan(ctx context.Context, userID int64, week *time.Time) (*models.Plan, error) {
	if week != nil {
		return s.planRepo.GetMealPlanForWeek(ctx, userID, mondayOf(*week))
	}
	return s.planRepo.GetLatestMealPlan(ctx, userID)
}

func (s *PlanService) GetGroceryList(ctx context.Context, userID int64, week *time.Time) (*models.Plan, error) {
	if week != nil {
		return s.planRepo.GetGroceryListForWeek(ctx, userID, mondayOf(*week))
	}
	return s.planRepo.GetLatestGroceryList(ctx, userID)
}

func (s *PlanService) readyProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.OnboardingComplete {
		return nil, ErrProfileIncomplete
	}
	if !profile.PrivacyAccepted {
		return nil, ErrPrivacyNotAccepted
	}
	return profile, nil
}

func (s *PlanService) generateWorkout(ctx context.Context, profile *models.UserProfile, weekMonday time.Time) (*models.Plan, error) {
	workoutProfile := workout.Profile{
		UserID:        profile.UserID,
		PreferredDays: 3,
	}
	if profile.Age != nil {
		workoutProfile.Age = *profile.Age
	}
	if profile.WeightKG != nil {
		workoutProfile.WeightKG = *profile.WeightKG
	}
	if profile.Goal != nil {
		workoutProfile.Goal = *profile.Goal
	}
	if profile.ActivityLevel != nil {
		workoutProfile.ActivityLevel = *profile.ActivityLevel
	}
	if profile.WorkoutDays != nil {
		workoutProfile.PreferredDays = *profile.WorkoutDays
	}
	if profile.PhysicalLimitations != nil {
		workoutProfile.Limitations = *profile.PhysicalLimitations
	}
	if profile.AvailableEquipment != nil {
		workoutProfile.Equipment = *profile.AvailableEquipment
	}

	plan, err := s.generator.WeeklyPlan(ctx, workoutProfile)
	if err != nil {
		return nil, fmt.Errorf("generate workout plan: %w", err)
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return nil, err
	}
	return s.planRepo.UpsertWorkoutPlan(ctx, profile.UserID, weekMonday, data)
}

func (s *PlanService) generateMeals(ctx context.Context, profile *models.UserProfile, weekMonday time.Time) (meal, grocery *models.Plan, fallback bool, err error) {
	calories := 2000
	if profile.CaloricTarget != nil && *profile.CaloricTarget > 0 {
		calories = int(*profile.CaloricTarget)
	}

	req := mealapi.PlanRequest{
		TargetCalories: calories,
		NumDays:        7,
	}
	if profile.DietaryRestrictions != nil {
		req.Dietary = *profile.DietaryRestrictions
	}
	if profile.FoodExclusions != nil {
		req.Exclusions = *profile.FoodExclusions
	}
	if profile.FoodPreferences != nil {
		req.Preferences = *profile.FoodPreferences
	}

	rawPlan, err := s.meals.GenerateMealPlan(ctx, req)
	if err != nil {
		var validationErr *mealapi.ValidationError
		if errors.As(err, &validationErr) {
			return nil, nil, false, validationErr
		}
		log.Printf("Meal service unavailable for user %d, storing default plan: %v", profile.UserID, err)
		rawPlan = nil
		fallback = true
	}

	display := mealapi.FormatForWeek(rawPlan, weekMonday)
	if display == nil {
		display = mealapi.DefaultMealPlan(weekMonday, calories)
		fallback = true
	}

	mealData, err := json.Marshal(display)
	if err != nil {
		return nil, nil, false, err
	}
	meal, err = s.planRepo.UpsertMealPlan(ctx, profile.UserID, weekMonday, mealData)
	if err != nil {
		return nil, nil, false, err
	}

	groceryDisplay := s.buildGrocery(ctx, rawPlan, weekMonday)
	groceryData, err := json.Marshal(groceryDisplay)
	if err != nil {
		return nil, nil, false, err
	}
	grocery, err = s.planRepo.UpsertGroceryList(ctx, profile.UserID, weekMonday, groceryData)
	if err != nil {
		return nil, nil, false, err
	}

	return meal, grocery, fallback, nil
}

// buildGrocery prefers the shopping list service; if that fails it
// categorizes the plan's own ingredients, and with no plan at all it stores
// the static sample.
func (s *PlanService) buildGrocery(ctx context.Context, rawPlan *mealapi.MealPlan, weekMonday time.Time) *mealapi.GroceryDisplay {
	if rawPlan == nil {
		return mealapi.SampleGrocery(weekMonday)
	}

	list, err := s.meals.GenerateGroceryList(ctx, rawPlan)
	if err == nil {
		if display := mealapi.FormatGroceryForWeek(list, weekMonday); display != nil {
			return display
		}
	} else {
		log.Printf("Grocery service unavailable, building list locally: %v", err)
	}

	return mealapi.GroceryFromMeals(rawPlan, weekMonday)
}

// mondayOf normalizes any date to the Monday of its week, the key all plan
// rows are stored under.
func mondayOf(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -daysSinceMonday)
}
