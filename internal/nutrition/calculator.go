// Package nutrition derives daily energy and macronutrient targets from a
// user's anthropometrics. All functions are pure; callers persist the results.
package nutrition

import (
	"fmt"
	"math"
)

type ActivityLevel string

const (
	Sedentary        ActivityLevel = "sedentary"
	LightlyActive    ActivityLevel = "lightly_active"
	ModeratelyActive ActivityLevel = "moderately_active"
	VeryActive       ActivityLevel = "very_active"
	ExtraActive      ActivityLevel = "extra_active"
)

type Goal string

const (
	WeightLoss     Goal = "weight_loss"
	MuscleGain     Goal = "muscle_gain"
	Maintenance    Goal = "maintenance"
	GeneralFitness Goal = "general_fitness"
)

// Physiologically plausible input bounds. Submissions outside these are
// rejected before anything is persisted.
const (
	MinAge      = 13
	MaxAge      = 120
	MinHeightCM = 90
	MaxHeightCM = 250
	MinWeightKG = 25
	MaxWeightKG = 400
)

// Caloric densities in kcal per gram.
const (
	ProteinCaloriesPerGram = 4
	CarbCaloriesPerGram    = 4
	FatCaloriesPerGram     = 9
)

var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:        1.2,
	LightlyActive:    1.375,
	ModeratelyActive: 1.55,
	VeryActive:       1.725,
	ExtraActive:      1.9,
}

var goalAdjustments = map[Goal]float64{
	WeightLoss:     -500,
	MuscleGain:     400,
	Maintenance:    0,
	GeneralFitness: -250,
}

type macroRatio struct {
	protein float64
	carbs   float64
	fat     float64
}

var goalMacroRatios = map[Goal]macroRatio{
	WeightLoss:     {protein: 0.40, carbs: 0.30, fat: 0.30},
	MuscleGain:     {protein: 0.30, carbs: 0.40, fat: 0.30},
	Maintenance:    {protein: 0.25, carbs: 0.45, fat: 0.30},
	GeneralFitness: {protein: 0.30, carbs: 0.40, fat: 0.30},
}

// ValidationError reports a single out-of-range or missing input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Inputs holds the profile attributes the calculator depends on.
// ActivityLevel and Goal may be empty while the onboarding questionnaire is
// still in progress; the derived values degrade gracefully (TDEE falls back
// to BMR, the caloric target to TDEE, macros to zero).
type Inputs struct {
	Age           int
	Gender        string
	HeightCM      float64
	WeightKG      float64
	ActivityLevel ActivityLevel
	Goal          Goal
}

// Targets is the full set of derived values stored on the user profile.
type Targets struct {
	BMR           float64 `json:"bmr"`
	TDEE          float64 `json:"tdee"`
	CaloricTarget float64 `json:"caloric_target"`
	ProteinG      float64 `json:"protein_target_g"`
	CarbsG        float64 `json:"carbs_target_g"`
	FatG          float64 `json:"fat_target_g"`
}

// Validate checks the anthropometric inputs, and the activity level and goal
// when present. It returns a *ValidationError naming the offending field.
func Validate(in Inputs) error {
	if in.Age < MinAge || in.Age > MaxAge {
		return &ValidationError{Field: "age", Message: fmt.Sprintf("must be between %d and %d", MinAge, MaxAge)}
	}
	if in.Gender == "" {
		return &ValidationError{Field: "gender", Message: "is required"}
	}
	if in.HeightCM < MinHeightCM || in.HeightCM > MaxHeightCM {
		return &ValidationError{Field: "height_cm", Message: fmt.Sprintf("must be between %d and %d", MinHeightCM, MaxHeightCM)}
	}
	if in.WeightKG < MinWeightKG || in.WeightKG > MaxWeightKG {
		return &ValidationError{Field: "weight_kg", Message: fmt.Sprintf("must be between %d and %d", MinWeightKG, MaxWeightKG)}
	}
	if in.ActivityLevel != "" {
		if _, ok := activityMultipliers[in.ActivityLevel]; !ok {
			return &ValidationError{Field: "activity_level", Message: "must be one of: sedentary, lightly_active, moderately_active, very_active, extra_active"}
		}
	}
	if in.Goal != "" {
		if _, ok := goalMacroRatios[in.Goal]; !ok {
			return &ValidationError{Field: "goal", Message: "must be one of: weight_loss, muscle_gain, maintenance, general_fitness"}
		}
	}
	return nil
}

// Calculate validates the inputs and derives all nutrition targets.
func Calculate(in Inputs) (Targets, error) {
	if err := Validate(in); err != nil {
		return Targets{}, err
	}

	bmr := BMR(in.Gender, in.Age, in.HeightCM, in.WeightKG)

	tdee := bmr
	if in.ActivityLevel != "" {
		tdee = TDEE(bmr, in.ActivityLevel)
	}

	target := tdee
	t := Targets{BMR: bmr, TDEE: tdee, CaloricTarget: target}
	if in.Goal != "" {
		t.CaloricTarget = CaloricTarget(tdee, in.Goal)
		t.ProteinG, t.CarbsG, t.FatG = Macros(t.CaloricTarget, in.Goal)
	}
	return t, nil
}

// BMR computes the basal metabolic rate with the Mifflin-St Jeor equation.
// Genders other than male use the female constant.
func BMR(gender string, age int, heightCM, weightKG float64) float64 {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	if gender == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}
	return round2(bmr)
}

// TDEE scales a BMR by the multiplier for the given activity level. Unknown
// levels fall back to sedentary, matching the most conservative estimate.
func TDEE(bmr float64, level ActivityLevel) float64 {
	multiplier, ok := activityMultipliers[level]
	if !ok {
		multiplier = activityMultipliers[Sedentary]
	}
	return round2(bmr * multiplier)
}

// CaloricTarget applies the signed per-goal offset to a TDEE. Unknown goals
// leave the TDEE unchanged.
func CaloricTarget(tdee float64, goal Goal) float64 {
	return round2(tdee + goalAdjustments[goal])
}

// Macros apportions a caloric target into protein, carbohydrate, and fat
// grams using the fixed per-goal ratios. Unknown goals use the maintenance
// split.
func Macros(caloricTarget float64, goal Goal) (proteinG, carbsG, fatG float64) {
	ratios, ok := goalMacroRatios[goal]
	if !ok {
		ratios = goalMacroRatios[Maintenance]
	}
	proteinG = round1(caloricTarget * ratios.protein / ProteinCaloriesPerGram)
	carbsG = round1(caloricTarget * ratios.carbs / CarbCaloriesPerGram)
	fatG = round1(caloricTarget * ratios.fat / FatCaloriesPerGram)
	return proteinG, carbsG, fatG
}

// MacroPercentages returns the integer percentage split for a goal, for
// display alongside the gram targets.
func MacroPercentages(goal Goal) (proteinPct, carbsPct, fatPct int) {
	ratios, ok := goalMacroRatios[goal]
	if !ok {
		ratios = goalMacroRatios[Maintenance]
	}
	return int(ratios.protein * 100), int(ratios.carbs * 100), int(ratios.fat * 100)
}

// InchesToCM converts a height in inches to centimeters.
func InchesToCM(inches float64) float64 {
	return round2(inches * 2.54)
}

// LbsToKG converts a weight in pounds to kilograms.
func LbsToKG(lbs float64) float64 {
	return round2(lbs * 0.453592)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
