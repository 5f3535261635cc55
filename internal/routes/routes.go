package routes

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/config"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/exercises"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/handlers"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/mealapi"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/middleware"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/repository"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/services"
	"github.com/marcosgeraldo-berkeley/fitness-app/internal/workout"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewUserProfileRepository(db)
	planRepo := repository.NewPlanRepository(db)

	catalog, err := exercises.Open(cfg.ExerciseDBPath)
	if err != nil {
		return fmt.Errorf("open exercise catalog: %w", err)
	}
	generator := workout.NewGenerator(catalog)

	mealClient := mealapi.NewClient(cfg.MealAPIBase, cfg.MealAPITimeout)
	mealMonitor := mealapi.NewMonitor(mealClient, cfg.MealAPIStatusInterval)
	go mealMonitor.Run(context.Background())

	profileService := services.NewProfileService(profileRepo, userRepo)
	planService := services.NewPlanService(profileRepo, planRepo, generator, mealClient)

	authHandler := handlers.NewAuthHandler(db, userRepo, profileRepo, cfg.JWTSecret)
	onboardingHandler := handlers.NewOnboardingHandler(profileService)
	profileHandler := handlers.NewProfileHandler(profileService)
	planHandler := handlers.NewPlanHandler(planService, mealMonitor)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	api.Get("/service-status", planHandler.ServiceStatus)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	profile := authProtected.Group("/profile")
	profile.Get("", profileHandler.GetProfile)
	profile.Put("/basic-info", onboardingHandler.BasicInfo)
	profile.Put("/activity-level", onboardingHandler.ActivityLevel)
	profile.Put("/goal", onboardingHandler.Goal)
	profile.Put("/equipment", onboardingHandler.Equipment)
	profile.Put("/schedule", onboardingHandler.Schedule)
	profile.Put("/limitations", onboardingHandler.Limitations)
	profile.Put("/dietary-restrictions", onboardingHandler.DietaryRestrictions)
	profile.Put("/food-preferences", onboardingHandler.FoodPreferences)
	profile.Post("/complete", onboardingHandler.Complete)

	authProtected.Delete("/users/account", profileHandler.DeleteAccount)

	plans := authProtected.Group("/plans")
	plans.Post("", planHandler.CreatePlans)
	plans.Post("/workout/regenerate", planHandler.RegenerateWorkoutPlan)
	plans.Post("/meal/regenerate", planHandler.RegenerateMealPlans)
	plans.Get("/workout", planHandler.GetWorkoutPlan)
	plans.Get("/meal", planHandler.GetMealPlan)
	plans.Get("/grocery", planHandler.GetGroceryList)

	return nil
}
