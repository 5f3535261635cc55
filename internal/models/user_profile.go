package models

import "time"

// UserProfile carries everything collected by the onboarding questionnaire
// plus the nutrition targets derived from it. The derived columns (bmr, tdee,
// caloric_target, macro grams) are recomputed whenever any calculator input
// changes and are never written directly by handlers.
type UserProfile struct {
	ID                  int64      `json:"id"`
	UserID              int64      `json:"user_id"`
	FullName            *string    `json:"full_name"`
	Age                 *int       `json:"age"`
	Gender              *string    `json:"gender"`
	HeightCM            *float64   `json:"height_cm"`
	WeightKG            *float64   `json:"weight_kg"`
	ActivityLevel       *string    `json:"activity_level"`
	Goal                *string    `json:"goal"`
	DietaryRestrictions *[]string  `json:"dietary_restrictions"`
	PhysicalLimitations *[]string  `json:"physical_limitations"`
	AvailableEquipment  *[]string  `json:"available_equipment"`
	WorkoutDays         *int       `json:"workout_days"`
	FoodPreferences     *string    `json:"food_preferences"`
	FoodExclusions      *string    `json:"food_exclusions"`
	PrivacyAccepted     bool       `json:"privacy_accepted"`
	PrivacyAcceptedAt   *time.Time `json:"privacy_accepted_at"`
	BMR                 *float64   `json:"bmr"`
	TDEE                *float64   `json:"tdee"`
	CaloricTarget       *float64   `json:"caloric_target"`
	ProteinTargetG      *float64   `json:"protein_target_g"`
	CarbsTargetG        *float64   `json:"carbs_target_g"`
	FatTargetG          *float64   `json:"fat_target_g"`
	OnboardingComplete  bool       `json:"onboarding_complete"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
