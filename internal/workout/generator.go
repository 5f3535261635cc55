// Package workout builds rule-based weekly workout plans from the user
// profile and the exercise catalog.
package workout

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/marcosgeraldo-berkeley/fitness-app/internal/exercises"
)

type Catalog interface {
	Contraindications(ctx context.Context, limitations []string) (*exercises.ContraindicationInfo, error)
	Eligible(ctx context.Context, levels, equipment []string, info *exercises.ContraindicationInfo) ([]exercises.Exercise, error)
}

type Generator struct {
	catalog Catalog
	rng     *rand.Rand
	now     func() time.Time
}

func NewGenerator(catalog Catalog) *Generator {
	return &Generator{
		catalog: catalog,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// Profile is the slice of the user profile the generator needs.
type Profile struct {
	UserID        int64
	Age           int
	WeightKG      float64
	Goal          string
	ActivityLevel string
	PreferredDays int
	Limitations   []string
	Equipment     []string
}

type PlannedExercise struct {
	Order             int                      `json:"order"`
	ID                string                   `json:"id"`
	Name              string                   `json:"name"`
	Sets              int                      `json:"sets"`
	Reps              int                      `json:"reps"`
	RepsRange         string                   `json:"reps_range"`
	RestSeconds       int                      `json:"rest_seconds"`
	EstimatedTimeMin  float64                  `json:"estimated_time_min"`
	EstimatedCalories float64                  `json:"estimated_calories"`
	Instructions      []string                 `json:"instructions"`
	PrimaryMuscles    []string                 `json:"primary_muscles"`
	Equipment         string                   `json:"equipment"`
	Images            []string                 `json:"images"`
	Modifications     []exercises.Modification `json:"modifications,omitempty"`
}

type Day struct {
	Day               string            `json:"day"`
	Focus             string            `json:"focus"`
	Type              string            `json:"type,omitempty"`
	TargetMuscles     []string          `json:"target_muscles,omitempty"`
	DurationMinutes   float64           `json:"duration_minutes"`
	EstimatedCalories float64           `json:"estimated_calories"`
	Description       string            `json:"description,omitempty"`
	Exercises         []PlannedExercise `json:"exercises,omitempty"`
	Warnings          []string          `json:"warnings,omitempty"`
}

type ProgrammingNotes struct {
	RepRange       string `json:"rep_range"`
	RestSeconds    int    `json:"rest_seconds"`
	LoadPercentage string `json:"load_percentage"`
}

type Plan struct {
	UserID              int64            `json:"user_id"`
	WeekOf              string           `json:"week_of"`
	FitnessLevel        string           `json:"fitness_level"`
	DaysPerWeek         int              `json:"workout_days_per_week"`
	UserPreference      int              `json:"user_preference"`
	PhysicalLimitations []string         `json:"physical_limitations"`
	WarningFlag         string           `json:"warning_flag,omitempty"`
	WarningMessage      string           `json:"warning_message,omitempty"`
	ProgrammingNotes    ProgrammingNotes `json:"programming_notes"`
	TotalWeeklyCalories float64          `json:"total_weekly_calories"`
	Days                []Day            `json:"days"`
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeeklyPlan assembles a full week: training days from the split, exercise
// selection from the catalog, and rest days filling the remainder.
func (g *Generator) WeeklyPlan(ctx context.Context, p Profile) (*Plan, error) {
	if p.Age <= 0 || p.WeightKG <= 0 {
		return nil, fmt.Errorf("profile is missing age or weight")
	}

	level := FitnessLevel(p.ActivityLevel, p.Age)
	days, warnFlag, warnMsg := workoutDays(p.PreferredDays, p.Goal, level, p.Age)
	volume := dailyVolume(days, p.Goal, level)
	split := splitForWeek(days, level, p.Goal)

	info, err := g.catalog.Contraindications(ctx, p.Limitations)
	if err != nil {
		return nil, fmt.Errorf("resolve contraindications: %w", err)
	}

	eligible, err := g.catalog.Eligible(ctx, allowedLevels(level), equipmentFilter(p.Equipment), info)
	if err != nil {
		return nil, fmt.Errorf("load eligible exercises: %w", err)
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("no eligible exercises found with current filters")
	}

	plan := &Plan{
		UserID:              p.UserID,
		WeekOf:              mondayOf(g.now()).Format("2006-01-02"),
		FitnessLevel:        level,
		DaysPerWeek:         days,
		UserPreference:      p.PreferredDays,
		PhysicalLimitations: p.Limitations,
		WarningFlag:         warnFlag,
		WarningMessage:      warnMsg,
		ProgrammingNotes: ProgrammingNotes{
			RepRange:       fmt.Sprintf("%d-%d", volume.RepsMin, volume.RepsMax),
			RestSeconds:    volume.RestSeconds,
			LoadPercentage: volume.LoadPercentage,
		},
	}

	var alreadySelected []string

	for _, dayInfo := range split {
		if dayInfo.Recovery {
			plan.Days = append(plan.Days, Day{
				Day:               dayInfo.Day,
				Focus:             dayInfo.Focus,
				Type:              "recovery",
				DurationMinutes:   20,
				EstimatedCalories: 80,
				Description:       dayInfo.Description,
			})
			continue
		}

		selected, warnings := g.selectForDay(eligible, dayInfo, p.Goal, volume.ExercisesPerDay, alreadySelected)

		day := Day{
			Day:           dayInfo.Day,
			Focus:         dayInfo.Focus,
			TargetMuscles: dayInfo.MuscleGroups,
			Warnings:      warnings,
		}
		for i, ex := range selected {
			prog := programFor(volume)
			timeMin, calories := estimateExercise(ex, prog, p.WeightKG, level)

			day.Exercises = append(day.Exercises, PlannedExercise{
				Order:             i + 1,
				ID:                ex.ID,
				Name:              ex.Name,
				Sets:              prog.Sets,
				Reps:              prog.Reps,
				RepsRange:         prog.RepsRange,
				RestSeconds:       prog.RestSeconds,
				EstimatedTimeMin:  round1(timeMin),
				EstimatedCalories: round1(calories),
				Instructions:      ex.Instructions,
				PrimaryMuscles:    ex.PrimaryMuscles,
				Equipment:         ex.Equipment,
				Images:            ex.Images,
				Modifications:     ex.Modifications,
			})
			day.DurationMinutes += timeMin
			day.EstimatedCalories += calories
			alreadySelected = append(alreadySelected, ex.ID)
		}
		day.DurationMinutes = round1(day.DurationMinutes)
		day.EstimatedCalories = round1(day.EstimatedCalories)

		plan.Days = append(plan.Days, day)
		plan.TotalWeeklyCalories += day.EstimatedCalories
	}

	fillRestDays(plan)
	plan.TotalWeeklyCalories = round1(plan.TotalWeeklyCalories)

	return plan, nil
}

// FitnessLevel maps the questionnaire activity level to a training level,
// with conservative adjustments for older users.
func FitnessLevel(activityLevel string, age int) string {
	level := map[string]string{
		"sedentary":         "beginner",
		"lightly_active":    "beginner",
		"moderately_active": "intermediate",
		"very_active":       "intermediate",
		"extra_active":      "advanced",
	}[activityLevel]
	if level == "" {
		level = "beginner"
	}

	if age > 65 {
		return "beginner"
	}
	if age > 55 && level == "advanced" {
		return "intermediate"
	}
	return level
}

// workoutDays reconciles the user's preferred frequency bucket with the
// goal-ideal frequency and per-level safety caps.
func workoutDays(preference int, goal, level string, age int) (days int, warnFlag, warnMsg string) {
	preferenceRanges := map[int][]int{
		1: {1, 2},
		3: {3, 4},
		5: {5, 6},
		7: {7},
	}
	userRange, ok := preferenceRanges[preference]
	if !ok {
		userRange = []int{3, 4}
	}

	idealDays := map[string]int{
		"weight_loss":     5,
		"muscle_gain":     5,
		"general_fitness": 3,
		"maintenance":     3,
	}[goal]
	if idealDays == 0 {
		idealDays = 3
	}

	maxSafeDays := map[string]int{
		"beginner":     5,
		"intermediate": 6,
		"advanced":     7,
	}[level]
	if age > 60 && maxSafeDays > 5 {
		maxSafeDays = 5
	}

	selected := userRange[0]
	bestDistance := abs(userRange[0] - idealDays)
	for _, candidate := range userRange {
		if candidate == idealDays {
			selected = candidate
			break
		}
		if d := abs(candidate - idealDays); d < bestDistance {
			selected = candidate
			bestDistance = d
		}
	}

	switch {
	case selected > maxSafeDays:
		warnFlag = "safety_override"
		warnMsg = fmt.Sprintf(
			"We've adjusted your plan to %d days per week for optimal recovery at the %s level. "+
				"Training without proper rest can lead to overtraining and injury.",
			maxSafeDays, level)
		selected = maxSafeDays
	case selected < idealDays && selected == userRange[len(userRange)-1]:
		warnFlag = "suboptimal_frequency"
		warnMsg = fmt.Sprintf(
			"For optimal results with your goal, we recommend %d days per week. You're currently "+
				"training %d days. Consider increasing your workout frequency in your profile settings.",
			idealDays, selected)
	case selected == 7:
		warnFlag = "active_recovery_needed"
		warnMsg = "Your plan includes daily training. We've included active recovery days with light " +
			"work (yoga, walking, stretching) to prevent burnout while keeping you active."
	}

	return selected, warnFlag, warnMsg
}

type volumeConfig struct {
	ExercisesPerDay int
	SetsPerExercise int
	RepsMin         int
	RepsMax         int
	RestSeconds     int
	LoadPercentage  string
}

func dailyVolume(days int, goal, level string) volumeConfig {
	weeklyTargets := map[string]map[string]int{
		"weight_loss":     {"beginner": 70, "intermediate": 85, "advanced": 100},
		"muscle_gain":     {"beginner": 60, "intermediate": 75, "advanced": 90},
		"general_fitness": {"beginner": 50, "intermediate": 65, "advanced": 80},
		"maintenance":     {"beginner": 45, "intermediate": 60, "advanced": 75},
	}
	weeklySets := 60
	if byLevel, ok := weeklyTargets[goal]; ok {
		if sets, ok := byLevel[level]; ok {
			weeklySets = sets
		}
	}

	programming := map[string]volumeConfig{
		"weight_loss":     {SetsPerExercise: 3, RepsMin: 10, RepsMax: 15, RestSeconds: 45, LoadPercentage: "60-75%"},
		"muscle_gain":     {SetsPerExercise: 3, RepsMin: 8, RepsMax: 12, RestSeconds: 75, LoadPercentage: "70-85%"},
		"general_fitness": {SetsPerExercise: 3, RepsMin: 10, RepsMax: 12, RestSeconds: 75, LoadPercentage: "65-75%"},
		"maintenance":     {SetsPerExercise: 3, RepsMin: 8, RepsMax: 12, RestSeconds: 90, LoadPercentage: "65-75%"},
	}
	cfg, ok := programming[goal]
	if !ok {
		cfg = programming["general_fitness"]
	}

	perDay := weeklySets / days / cfg.SetsPerExercise
	if days <= 2 && perDay < 8 {
		perDay = 8
	}
	if days >= 6 && perDay > 5 {
		perDay = 5
	}
	if perDay < 4 {
		perDay = 4
	}
	if perDay > 12 {
		perDay = 12
	}
	cfg.ExercisesPerDay = perDay

	return cfg
}

type exerciseProgram struct {
	Sets        int
	Reps        int
	RepsRange   string
	RestSeconds int
}

func programFor(volume volumeConfig) exerciseProgram {
	return exerciseProgram{
		Sets:        volume.SetsPerExercise,
		Reps:        (volume.RepsMin + volume.RepsMax) / 2,
		RepsRange:   fmt.Sprintf("%d-%d", volume.RepsMin, volume.RepsMax),
		RestSeconds: volume.RestSeconds,
	}
}

// selectForDay scores the eligible pool against the day's target muscles and
// picks a compound/isolation mix per the goal's ratio.
func (g *Generator) selectForDay(pool []exercises.Exercise, dayInfo SplitDay, goal string, targetCount int, alreadySelected []string) ([]exercises.Exercise, []string) {
	targets := dayInfo.MuscleGroups

	available := make(map[string]struct{})
	var relevant []exercises.Exercise
	for _, ex := range pool {
		matches := false
		for _, muscle := range ex.PrimaryMuscles {
			available[muscle] = struct{}{}
			if containsString(targets, muscle) {
				matches = true
			}
		}
		if matches {
			relevant = append(relevant, ex)
		}
	}

	var warnings []string
	for _, muscle := range targets {
		if _, ok := available[muscle]; !ok {
			warnings = append(warnings, fmt.Sprintf(
				"%s: to exercise this muscle group, consult your doctor or physical therapist for appropriate exercises that fit your needs.",
				muscle))
		}
	}

	if len(relevant) == 0 {
		return nil, warnings
	}

	compoundRatios := map[string]float64{
		"weight_loss":     0.60,
		"muscle_gain":     0.50,
		"general_fitness": 0.55,
		"maintenance":     0.50,
	}
	ratio, ok := compoundRatios[goal]
	if !ok {
		ratio = 0.55
	}
	numCompound := int(float64(targetCount) * ratio)
	if numCompound < 1 {
		numCompound = 1
	}
	numIsolation := targetCount - numCompound

	var compound, isolation []exercises.Exercise
	for _, ex := range relevant {
		if ex.Mechanic == "compound" {
			compound = append(compound, ex)
		} else {
			isolation = append(isolation, ex)
		}
	}

	g.sortByScore(compound, targets, goal, alreadySelected)
	g.sortByScore(isolation, targets, goal, alreadySelected)

	selected := append([]exercises.Exercise{}, firstN(compound, numCompound)...)
	selected = append(selected, firstN(isolation, numIsolation)...)

	if len(selected) < targetCount {
		chosen := make(map[string]struct{}, len(selected))
		for _, ex := range selected {
			chosen[ex.ID] = struct{}{}
		}
		var remaining []exercises.Exercise
		for _, ex := range relevant {
			if _, ok := chosen[ex.ID]; !ok {
				remaining = append(remaining, ex)
			}
		}
		g.sortByScore(remaining, targets, goal, alreadySelected)
		selected = append(selected, firstN(remaining, targetCount-len(selected))...)
	}

	return selected, warnings
}

func (g *Generator) sortByScore(pool []exercises.Exercise, targets []string, goal string, alreadySelected []string) {
	scores := make(map[string]float64, len(pool))
	for _, ex := range pool {
		scores[ex.ID] = g.score(ex, targets, goal, alreadySelected)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return scores[pool[i].ID] > scores[pool[j].ID]
	})
}

// score ranks an exercise for a day. Exercises with no contraindication come
// first, then modified ones; a repeated exercise is heavily penalized so the
// week stays varied.
func (g *Generator) score(ex exercises.Exercise, targets []string, goal string, alreadySelected []string) float64 {
	score := 100.0

	if len(ex.Modifications) == 0 {
		score += 50
	} else {
		score += 25
	}

	for _, muscle := range ex.PrimaryMuscles {
		if containsString(targets, muscle) {
			score += 25
		}
	}

	if ex.Mechanic == "compound" {
		score += 30
		if goal == "muscle_gain" {
			score += 20
		}
	}

	switch {
	case goal == "weight_loss" && (ex.Category == "cardio" || ex.Category == "plyometrics"):
		score += 20
	case goal == "muscle_gain" && ex.Category == "strength":
		score += 15
	}

	if ex.Equipment == "body only" || ex.Equipment == "" {
		score += 8
	}

	if containsString(alreadySelected, ex.ID) {
		score -= 100
	}

	score += g.rng.Float64()*6 - 3

	return score
}

// estimateExercise returns working time in minutes and estimated calories.
// Reps are assumed to take roughly three seconds each.
func estimateExercise(ex exercises.Exercise, prog exerciseProgram, weightKG float64, level string) (timeMin, calories float64) {
	calPerMin := ex.CaloriesPerMin[level]
	if calPerMin == 0 {
		if ex.Mechanic == "compound" {
			calPerMin = map[string]float64{"beginner": 5.0, "intermediate": 6.0, "advanced": 7.0}[level]
		} else {
			calPerMin = map[string]float64{"beginner": 3.5, "intermediate": 4.5, "advanced": 5.5}[level]
		}
		if calPerMin == 0 {
			calPerMin = 5.0
		}
	}
	_ = weightKG // burn rates in the catalog are already normalized per level

	timePerSet := (float64(prog.Reps)*3 + float64(prog.RestSeconds)) / 60
	timeMin = timePerSet * float64(prog.Sets)
	calories = calPerMin * timeMin
	return timeMin, calories
}

func allowedLevels(level string) []string {
	switch level {
	case "intermediate":
		return []string{"beginner", "intermediate"}
	case "advanced":
		return []string{"beginner", "intermediate", "expert"}
	default:
		return []string{"beginner"}
	}
}

// equipmentFilter maps questionnaire equipment names to catalog terms.
// Bodyweight work is always available.
func equipmentFilter(equipment []string) []string {
	mapping := map[string]string{
		"bodyweight":       "body only",
		"dumbbells":        "dumbbell",
		"resistance_bands": "bands",
		"kettlebells":      "kettlebells",
		"barbell":          "barbell",
		"pull_up_bar":      "cable",
		"exercise_ball":    "exercise ball",
		"yoga_mat":         "body only",
	}

	seen := map[string]struct{}{"body only": {}}
	result := []string{"body only"}
	for _, eq := range equipment {
		mapped, ok := mapping[eq]
		if !ok {
			mapped = eq
		}
		if _, dup := seen[mapped]; !dup {
			seen[mapped] = struct{}{}
			result = append(result, mapped)
		}
	}
	return result
}

func fillRestDays(plan *Plan) {
	scheduled := make(map[string]struct{}, len(plan.Days))
	for _, d := range plan.Days {
		scheduled[d.Day] = struct{}{}
	}
	for _, day := range weekdays {
		if _, ok := scheduled[day]; !ok {
			plan.Days = append(plan.Days, Day{
				Day:         day,
				Focus:       "Rest Day",
				Type:        "rest",
				Description: "Complete rest. Your muscles grow during recovery, not during workouts.",
			})
		}
	}

	order := make(map[string]int, len(weekdays))
	for i, day := range weekdays {
		order[day] = i
	}
	sort.SliceStable(plan.Days, func(i, j int) bool {
		return order[plan.Days[i].Day] < order[plan.Days[j].Day]
	})
}

func mondayOf(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -daysSinceMonday)
}

func firstN(pool []exercises.Exercise, n int) []exercises.Exercise {
	if n < 0 {
		n = 0
	}
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
