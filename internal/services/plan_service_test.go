package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/marcosgeraldo-berkeley/fitness-app/internal/mealapi"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/models"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/workout"
)

type stubPlanStore struct {
	workoutData json.RawMessage
	mealData    json.RawMessage
	groceryData json.RawMessage
	weekDate    time.Time
}

func (s *stubPlanStore) UpsertWorkoutPlan(ctx context.Context, userID int64, weekDate time.Time, data json.RawMessage) (*models.Plan, error) {
	s.workoutData = data
	s.weekDate = weekDate
	return &models.Plan{UserID: userID, WeekDate: weekDate, Data: data}, nil
}

func (s *stubPlanStore) UpsertMealPlan(ctx context.Context, userID int64, weekDate time.Time, data json.RawMessage) (*models.Plan, error) {
	s.mealData = data
	return &models.Plan{UserID: userID, WeekDate: weekDate, Data: data}, nil
}

func (s *stubPlanStore) UpsertGroceryList(ctx context.Context, userID int64, weekDate time.Time, data json.RawMessage) (*models.Plan, error) {
	s.groceryData = data
	return &models.Plan{UserID: userID, WeekDate: weekDate, Data: data}, nil
}

func (s *stubPlanStore) GetWorkoutPlanForWeek(ctx context.Context, userID int64, weekDate time.Time) (*models.Plan, error) {
	s.weekDate = weekDate
	return &models.Plan{UserID: userID, WeekDate: weekDate}, nil
}

func (s *stubPlanStore) GetMealPlanForWeek(ctx context.Context, userID int64, weekDate time.Time) (*models.Plan, error) {
	s.weekDate = weekDate
	return &models.Plan{UserID: userID, WeekDate: weekDate}, nil
}

func (s *stubPlanStore) GetGroceryListForWeek(ctx context.Context, userID int64, weekDate time.Time) (*models.Plan, error) {
	s.weekDate = weekDate
	return &models.Plan{UserID: userID, WeekDate: weekDate}, nil
}

func (s *stubPlanStore) GetLatestWorkoutPlan(ctx context.Context, userID int64) (*models.Plan, error) {
	return &models.Plan{UserID: userID}, nil
}

func (s *stubPlanStore) GetLatestMealPlan(ctx context.Context, userID int64) (*models.Plan, error) {
	return &models.Plan{UserID: userID}, nil
}

func (s *stubPlanStore) GetLatestGroceryList(ctx context.Context, userID int64) (*models.Plan, error) {
	return &models.Plan{UserID: userID}, nil
}

type stubGenerator struct {
	gotProfile workout.Profile
}

func (s *stubGenerator) WeeklyPlan(ctx context.Context, profile workout.Profile) (*workout.Plan, error) {
	s.gotProfile = profile
	return &workout.Plan{UserID: profile.UserID, DaysPerWeek: 3}, nil
}

type stubMealPlanner struct {
	planErr    error
	groceryErr error
	gotReq     mealapi.PlanRequest
}

func (s *stubMealPlanner) GenerateMealPlan(ctx context.Context, req mealapi.PlanRequest) (*mealapi.MealPlan, error) {
	s.gotReq = req
	if s.planErr != nil {
		return nil, s.planErr
	}
	return &mealapi.MealPlan{DailyPlans: []mealapi.DailyPlan{
		{Day: 1, TargetCalories: float64(req.TargetCalories), Meals: []*mealapi.Meal{
			{MealType: "lunch", Title: "Chicken bowl", Calories: 650,
				Ingredients: []string{"chicken", "rice"}, Quantities: []string{"300", "1"}, Units: []string{"g", "cup"}},
		}},
	}}, nil
}

func (s *stubMealPlanner) GenerateGroceryList(ctx context.Context, plan *mealapi.MealPlan) (*mealapi.GroceryList, error) {
	if s.groceryErr != nil {
		return nil, s.groceryErr
	}
	return &mealapi.GroceryList{ShoppingList: []mealapi.GroceryItem{
		{Category: "Meat and Poultry", Name: "Chicken", Unit: "g", Quantity: 300},
	}}, nil
}

func readyProfileFixture() *models.UserProfile {
	profile := completeProfile()
	profile.OnboardingComplete = true
	profile.CaloricTarget = ptr(2600.0)
	profile.WorkoutDays = ptr(3)
	profile.DietaryRestrictions = ptr([]string{"vegetarian"})
	profile.FoodPreferences = ptr("high protein meals")
	return profile
}

func newPlanService(profile *models.UserProfile, store *stubPlanStore, gen *stubGenerator, meals *stubMealPlanner) *PlanService {
	svc := NewPlanService(&stubProfileRepo{profile: profile}, store, gen, meals)
	svc.now = func() time.Time { return time.Date(2026, 1, 7, 15, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateWeeklyPlans(t *testing.T) {
	store := &stubPlanStore{}
	gen := &stubGenerator{}
	meals := &stubMealPlanner{}
	svc := newPlanService(readyProfileFixture(), store, gen, meals)

	result, err := svc.CreateWeeklyPlans(context.Background(), 1)
	if err != nil {
		t.Fatalf("CreateWeeklyPlans: %v", err)
	}

	if result.Workout == nil || result.Meal == nil || result.Grocery == nil {
		t.Fatalf("expected all three plans, got %+v", result)
	}
	if result.MealFallback {
		t.Errorf("unexpected fallback with a healthy meal service")
	}

	// Wednesday Jan 7 keys to Monday Jan 5.
	wantWeek := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if !store.weekDate.Equal(wantWeek) {
		t.Errorf("week date = %v, want %v", store.weekDate, wantWeek)
	}

	if gen.gotProfile.Age != 30 || gen.gotProfile.Goal != "muscle_gain" || gen.gotProfile.PreferredDays != 3 {
		t.Errorf("generator profile = %+v", gen.gotProfile)
	}
	if meals.gotReq.TargetCalories != 2600 {
		t.Errorf("meal request calories = %d, want 2600", meals.gotReq.TargetCalories)
	}
	if len(meals.gotReq.Dietary) != 1 || meals.gotReq.Dietary[0] != "vegetarian" {
		t.Errorf("meal request dietary = %v", meals.gotReq.Dietary)
	}

	var mealDisplay mealapi.DisplayPlan
	if err := json.Unmarshal(store.mealData, &mealDisplay); err != nil {
		t.Fatalf("stored meal plan is not valid JSON: %v", err)
	}
	if mealDisplay.Fallback {
		t.Errorf("stored meal plan flagged as fallback")
	}
	if mealDisplay.Days[1].Meals[0].Title != "Chicken bowl" {
		t.Errorf("stored meal plan = %+v", mealDisplay.Days[1])
	}

	var groceryDisplay mealapi.GroceryDisplay
	if err := json.Unmarshal(store.groceryData, &groceryDisplay); err != nil {
		t.Fatalf("stored grocery list is not valid JSON: %v", err)
	}
	if len(groceryDisplay.Sections) == 0 {
		t.Errorf("stored grocery list has no sections")
	}
}

func TestCreateWeeklyPlansMealServiceDown(t *testing.T) {
	store := &stubPlanStore{}
	meals := &stubMealPlanner{planErr: mealapi.ErrUnavailable}
	svc := newPlanService(readyProfileFixture(), store, &stubGenerator{}, meals)

	result, err := svc.CreateWeeklyPlans(context.Background(), 1)
	if err != nil {
		t.Fatalf("CreateWeeklyPlans: %v", err)
	}
	if !result.MealFallback {
		t.Errorf("expected fallback flag when the meal service is down")
	}

	var mealDisplay mealapi.DisplayPlan
	if err := json.Unmarshal(store.mealData, &mealDisplay); err != nil {
		t.Fatalf("stored meal plan is not valid JSON: %v", err)
	}
	if !mealDisplay.Fallback || mealDisplay.TotalDays != 7 {
		t.Errorf("expected a 7-day default plan, got %+v", mealDisplay)
	}
	if mealDisplay.Days[1].TargetCalories != 2600 {
		t.Errorf("default plan should use the profile's caloric target, got %v", mealDisplay.Days[1].TargetCalories)
	}

	var groceryDisplay mealapi.GroceryDisplay
	if err := json.Unmarshal(store.groceryData, &groceryDisplay); err != nil {
		t.Fatalf("stored grocery list is not valid JSON: %v", err)
	}
	if !groceryDisplay.Fallback {
		t.Errorf("expected sample grocery list when no meal plan exists")
	}
}

func TestCreateWeeklyPlansGroceryServiceDown(t *testing.T) {
	store := &stubPlanStore{}
	meals := &stubMealPlanner{groceryErr: mealapi.ErrUnavailable}
	svc := newPlanService(readyProfileFixture(), store, &stubGenerator{}, meals)

	result, err := svc.CreateWeeklyPlans(context.Background(), 1)
	if err != nil {
		t.Fatalf("CreateWeeklyPlans: %v", err)
	}
	if result.MealFallback {
		t.Errorf("meal plan itself succeeded, should not be flagged")
	}

	var groceryDisplay mealapi.GroceryDisplay
	if err := json.Unmarshal(store.groceryData, &groceryDisplay); err != nil {
		t.Fatalf("stored grocery list is not valid JSON: %v", err)
	}
	if !groceryDisplay.Fallback {
		t.Errorf("expected locally built grocery list")
	}
	found := false
	for _, section := range groceryDisplay.Sections {
		for _, item := range section.Items {
			if item.Name == "chicken" {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("locally built list should contain plan ingredients, got %+v", groceryDisplay.Sections)
	}
}

func TestCreateWeeklyPlansValidationErrorPropagates(t *testing.T) {
	meals := &stubMealPlanner{planErr: &mealapi.ValidationError{Detail: "target_calories too low"}}
	svc := newPlanService(readyProfileFixture(), &stubPlanStore{}, &stubGenerator{}, meals)

	_, err := svc.CreateWeeklyPlans(context.Background(), 1)
	var validationErr *mealapi.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestCreateWeeklyPlansRequiresCompletedOnboarding(t *testing.T) {
	profile := readyProfileFixture()
	profile.OnboardingComplete = false
	svc := newPlanService(profile, &stubPlanStore{}, &stubGenerator{}, &stubMealPlanner{})

	if _, err := svc.CreateWeeklyPlans(context.Background(), 1); !errors.Is(err, ErrProfileIncomplete) {
		t.Errorf("expected ErrProfileIncomplete, got %v", err)
	}
}

func TestCreateWeeklyPlansRequiresPrivacyAcceptance(t *testing.T) {
	profile := readyProfileFixture()
	profile.PrivacyAccepted = false
	svc := newPlanService(profile, &stubPlanStore{}, &stubGenerator{}, &stubMealPlanner{})

	if _, err := svc.CreateWeeklyPlans(context.Background(), 1); !errors.Is(err, ErrPrivacyNotAccepted) {
		t.Errorf("expected ErrPrivacyNotAccepted, got %v", err)
	}
}

func TestGetPlansByWeekNormalizesToMonday(t *testing.T) {
	store := &stubPlanStore{}
	svc := newPlanService(readyProfileFixture(), store, &stubGenerator{}, &stubMealPlanner{})

	saturday := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	if _, err := svc.GetWorkoutPlan(context.Background(), 1, &saturday); err != nil {
		t.Fatalf("GetWorkoutPlan: %v", err)
	}
	wantWeek := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if !store.weekDate.Equal(wantWeek) {
		t.Errorf("queried week = %v, want %v", store.weekDate, wantWeek)
	}
}

func TestMondayOf(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2026, 1, 5, 10, 30, 0, 0, time.UTC), time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
		{time.Date(2026, 1, 11, 23, 0, 0, 0, time.UTC), time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
		{time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := mondayOf(tt.in); !got.Equal(tt.want) {
			t.Errorf("mondayOf(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
