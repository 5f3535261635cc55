package repository

import (
	"context"
	"time"

	"github.com/marcosgeraldo-berkeley/fitness-app/internal/models"
)

type UserProfileRepository struct {
	db DBTX
}

func NewUserProfileRepository(db DBTX) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

const userProfileColumns = `id, user_id, full_name, age, gender, height_cm, weight_kg,
	   activity_level, goal, dietary_restrictions, physical_limitations, available_equipment,
	   workout_days, food_preferences, food_exclusions, privacy_accepted, privacy_accepted_at,
	   bmr, tdee, caloric_target, protein_target_g, carbs_target_g, fat_target_g,
	   onboarding_complete, created_at, updated_at`

func (r *UserProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO user_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *UserProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		SELECT ` + userProfileColumns + `
		FROM user_profiles
		WHERE user_id = $1
	`
	var profile models.UserProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(scanTargets(&profile)...)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfileInput is a partial update: nil fields keep their stored value.
// The derived nutrition columns are deliberately absent; they are written only
// through UpdateTargets.
type UpdateProfileInput struct {
	FullName            *string
	Age                 *int
	Gender              *string
	HeightCM            *float64
	WeightKG            *float64
	ActivityLevel       *string
	Goal                *string
	DietaryRestrictions *[]string
	PhysicalLimitations *[]string
	AvailableEquipment  *[]string
	WorkoutDays         *int
	FoodPreferences     *string
	FoodExclusions      *string
}

func (r *UserProfileRepository) UpdatePartial(ctx context.Context, userID int64, req UpdateProfileInput) (*models.UserProfile, error) {
	query := `
		UPDATE user_profiles
		SET full_name = COALESCE($1, full_name),
			age = COALESCE($2, age),
			gender = COALESCE($3, gender),
			height_cm = COALESCE($4, height_cm),
			weight_kg = COALESCE($5, weight_kg),
			activity_level = COALESCE($6, activity_level),
			goal = COALESCE($7, goal),
			dietary_restrictions = COALESCE($8, dietary_restrictions),
			physical_limitations = COALESCE($9, physical_limitations),
			available_equipment = COALESCE($10, available_equipment),
			workout_days = COALESCE($11, workout_days),
			food_preferences = COALESCE($12, food_preferences),
			food_exclusions = COALESCE($13, food_exclusions),
			updated_at = NOW()
		WHERE user_id = $14
		RETURNING ` + userProfileColumns + `
	`
	var profile models.UserProfile
	err := r.db.QueryRow(ctx, query,
		req.FullName,
		req.Age,
		req.Gender,
		req.HeightCM,
		req.WeightKG,
		req.ActivityLevel,
		req.Goal,
		req.DietaryRestrictions,
		req.PhysicalLimitations,
		req.AvailableEquipment,
		req.WorkoutDays,
		req.FoodPreferences,
		req.FoodExclusions,
		userID,
	).Scan(scanTargets(&profile)...)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateTargets writes the derived nutrition columns as one unit so the
// stored values always reflect a single calculator run.
func (r *UserProfileRepository) UpdateTargets(ctx context.Context, userID int64, bmr, tdee, caloricTarget, proteinG, carbsG, fatG float64) (*models.UserProfile, error) {
	query := `
		UPDATE user_profiles
		SET bmr = $1,
			tdee = $2,
			caloric_target = $3,
			protein_target_g = $4,
			carbs_target_g = $5,
			fat_target_g = $6,
			updated_at = NOW()
		WHERE user_id = $7
		RETURNING ` + userProfileColumns + `
	`
	var profile models.UserProfile
	err := r.db.QueryRow(ctx, query, bmr, tdee, caloricTarget, proteinG, carbsG, fatG, userID).
		Scan(scanTargets(&profile)...)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *UserProfileRepository) CompleteOnboarding(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		UPDATE user_profiles
		SET onboarding_complete = TRUE,
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + userProfileColumns + `
	`
	var profile models.UserProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(scanTargets(&profile)...)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *UserProfileRepository) AcceptPrivacyPolicy(ctx context.Context, userID int64, acceptedAt time.Time) error {
	query := `
		UPDATE user_profiles
		SET privacy_accepted = TRUE,
			privacy_accepted_at = $1,
			updated_at = NOW()
		WHERE user_id = $2
	`
	_, err := r.db.Exec(ctx, query, acceptedAt, userID)
	return err
}

func scanTargets(p *models.UserProfile) []any {
	return []any{
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.Age,
		&p.Gender,
		&p.HeightCM,
		&p.WeightKG,
		&p.ActivityLevel,
		&p.Goal,
		&p.DietaryRestrictions,
		&p.PhysicalLimitations,
		&p.AvailableEquipment,
		&p.WorkoutDays,
		&p.FoodPreferences,
		&p.FoodExclusions,
		&p.PrivacyAccepted,
		&p.PrivacyAcceptedAt,
		&p.BMR,
		&p.TDEE,
		&p.CaloricTarget,
		&p.ProteinTargetG,
		&p.CarbsTargetG,
		&p.FatTargetG,
		&p.OnboardingComplete,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}
