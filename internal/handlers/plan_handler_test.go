package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/models"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/services"
)

type stubPlanService struct {
	createErr   error
	getErr      error
	gotWeek     *time.Time
	regenerated bool
}

func (s *stubPlanService) CreateWeeklyPlans(_ context.Context, userID int64) (*services.WeeklyPlans, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &services.WeeklyPlans{
		Workout: &models.Plan{UserID: userID},
		Meal:    &models.Plan{UserID: userID},
		Grocery: &models.Plan{UserID: userID},
	}, nil
}

func (s *stubPlanService) RegenerateWorkoutPlan(_ context.Context, userID int64) (*models.Plan, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.regenerated = true
	return &models.Plan{UserID: userID}, nil
}

func (s *stubPlanService) RegenerateMealPlans(_ context.Context, userID int64) (*services.WeeklyPlans, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.regenerated = true
	return &services.WeeklyPlans{
		Meal:    &models.Plan{UserID: userID},
		Grocery: &models.Plan{UserID: userID},
	}, nil
}

func (s *stubPlanService) GetWorkoutPlan(_ context.Context, userID int64, week *time.Time) (*models.Plan, error) {
	s.gotWeek = week
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.Plan{UserID: userID}, nil
}

func (s *stubPlanService) GetMealPlan(_ context.Context, userID int64, week *time.Time) (*models.Plan, error) {
	s.gotWeek = week
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.Plan{UserID: userID}, nil
}

func (s *stubPlanService) GetGroceryList(_ context.Context, userID int64, week *time.Time) (*models.Plan, error) {
	s.gotWeek = week
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.Plan{UserID: userID}, nil
}

type stubStatus struct{ available bool }

func (s *stubStatus) Available() bool { return s.available }

func planApp(service *stubPlanService, status availabilityReporter) *fiber.App {
	handler := NewPlanHandler(service, status)

	app := fiber.New()
	app.Get("/api/service-status", handler.ServiceStatus)
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Post("/api/v1/plans", handler.CreatePlans)
	app.Post("/api/v1/plans/workout/regenerate", handler.RegenerateWorkoutPlan)
	app.Post("/api/v1/plans/meal/regenerate", handler.RegenerateMealPlans)
	app.Get("/api/v1/plans/workout", handler.GetWorkoutPlan)
	app.Get("/api/v1/plans/meal", handler.GetMealPlan)
	app.Get("/api/v1/plans/grocery", handler.GetGroceryList)
	return app
}

func TestCreatePlans(t *testing.T) {
	service := &stubPlanService{}
	app := planApp(service, &stubStatus{available: true})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, key := range []string{"workout_plan", "meal_plan", "grocery_list"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("response missing %s", key)
		}
	}
}

func TestCreatePlansRequiresOnboarding(t *testing.T) {
	service := &stubPlanService{createErr: services.ErrProfileIncomplete}
	app := planApp(service, &stubStatus{available: true})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/plans", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreatePlansRequiresPrivacyAcceptance(t *testing.T) {
	service := &stubPlanService{createErr: services.ErrPrivacyNotAccepted}
	app := planApp(service, &stubStatus{available: true})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/plans", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestRegenerateMealPlansRefusedWhenServiceDown(t *testing.T) {
	service := &stubPlanService{}
	app := planApp(service, &stubStatus{available: false})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/plans/meal/regenerate", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	if service.regenerated {
		t.Errorf("service must not be called when the meal API is down")
	}
}

func TestRegenerateWorkoutPlanIgnoresMealServiceStatus(t *testing.T) {
	service := &stubPlanService{}
	app := planApp(service, &stubStatus{available: false})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/plans/workout/regenerate", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !service.regenerated {
		t.Errorf("workout regeneration should not depend on the meal API")
	}
}

func TestGetWorkoutPlanWeekQuery(t *testing.T) {
	service := &stubPlanService{}
	app := planApp(service, &stubStatus{available: true})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/plans/workout?week=2026-01-05", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.gotWeek == nil || service.gotWeek.Format("2006-01-02") != "2026-01-05" {
		t.Errorf("week not forwarded: %v", service.gotWeek)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/plans/workout?week=notadate", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed week, got %d", resp.StatusCode)
	}
}

func TestGetMealPlanNotFound(t *testing.T) {
	service := &stubPlanService{getErr: pgx.ErrNoRows}
	app := planApp(service, &stubStatus{available: true})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/plans/meal", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestServiceStatus(t *testing.T) {
	app := planApp(&stubPlanService{}, &stubStatus{available: false})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/service-status", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var payload struct {
		MealAPIAvailable       bool `json:"meal_api_available"`
		GenerationServicesDown bool `json:"generation_services_down"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.MealAPIAvailable || !payload.GenerationServicesDown {
		t.Errorf("unexpected status payload: %+v", payload)
	}
}
