package workout

// SplitDay is one scheduled training or recovery day within a weekly split.
type SplitDay struct {
	Day          string
	Focus        string
	MuscleGroups []string
	Recovery     bool
	Description  string
}

// splitForWeek returns the training structure for the given frequency.
// Beginners get full-body layouts at low frequencies; higher frequencies use
// push/pull/legs and body-part splits. Seven-day weeks include two active
// recovery days.
func splitForWeek(daysPerWeek int, level, goal string) []SplitDay {
	switch daysPerWeek {
	case 1:
		return []SplitDay{
			{Day: "Wednesday", Focus: "Total Body Blast", MuscleGroups: []string{"chest", "back", "quadriceps", "shoulders", "biceps", "triceps"}},
		}
	case 2:
		if level == "beginner" {
			return []SplitDay{
				{Day: "Monday", Focus: "Full Body A", MuscleGroups: []string{"chest", "back", "quadriceps", "shoulders"}},
				{Day: "Thursday", Focus: "Full Body B", MuscleGroups: []string{"chest", "back", "quadriceps", "shoulders"}},
			}
		}
		return []SplitDay{
			{Day: "Monday", Focus: "Upper Body", MuscleGroups: []string{"chest", "back", "shoulders", "biceps", "triceps"}},
			{Day: "Thursday", Focus: "Lower Body", MuscleGroups: []string{"quadriceps", "hamstrings", "glutes", "calves", "abdominals"}},
		}
	case 3:
		if level == "beginner" {
			return []SplitDay{
				{Day: "Monday", Focus: "Full Body A", MuscleGroups: []string{"chest", "back", "quadriceps"}},
				{Day: "Wednesday", Focus: "Full Body B", MuscleGroups: []string{"shoulders", "biceps", "triceps", "abdominals"}},
				{Day: "Friday", Focus: "Full Body C", MuscleGroups: []string{"chest", "back", "quadriceps"}},
			}
		}
		return []SplitDay{
			{Day: "Monday", Focus: "Push", MuscleGroups: []string{"chest", "shoulders", "triceps"}},
			{Day: "Wednesday", Focus: "Pull", MuscleGroups: []string{"back", "lats", "biceps", "forearms"}},
			{Day: "Friday", Focus: "Legs & Core", MuscleGroups: []string{"quadriceps", "hamstrings", "glutes", "abdominals", "calves"}},
		}
	case 4:
		if goal == "muscle_gain" {
			return []SplitDay{
				{Day: "Monday", Focus: "Upper Body A", MuscleGroups: []string{"chest", "shoulders", "triceps"}},
				{Day: "Tuesday", Focus: "Lower Body A", MuscleGroups: []string{"quadriceps", "hamstrings", "glutes"}},
				{Day: "Thursday", Focus: "Upper Body B", MuscleGroups: []string{"back", "lats", "biceps", "forearms"}},
				{Day: "Saturday", Focus: "Lower Body B", MuscleGroups: []string{"quadriceps", "calves", "abdominals"}},
			}
		}
		return []SplitDay{
			{Day: "Monday", Focus: "Full Body Circuit", MuscleGroups: []string{"chest", "back", "quadriceps"}},
			{Day: "Tuesday", Focus: "Cardio & Core", MuscleGroups: []string{"abdominals", "cardio"}},
			{Day: "Thursday", Focus: "Full Body Strength", MuscleGroups: []string{"shoulders", "quadriceps", "biceps", "triceps"}},
			{Day: "Saturday", Focus: "HIIT & Conditioning", MuscleGroups: []string{"chest", "back", "quadriceps"}},
		}
	case 5:
		if level == "beginner" {
			return []SplitDay{
				{Day: "Monday", Focus: "Upper Push", MuscleGroups: []string{"chest", "shoulders", "triceps"}},
				{Day: "Tuesday", Focus: "Lower Body", MuscleGroups: []string{"quadriceps", "hamstrings", "glutes"}},
				{Day: "Thursday", Focus: "Upper Pull", MuscleGroups: []string{"back", "biceps"}},
				{Day: "Friday", Focus: "Core & Cardio", MuscleGroups: []string{"abdominals", "lower back"}},
				{Day: "Saturday", Focus: "Full Body", MuscleGroups: []string{"chest", "back", "quadriceps", "shoulders"}},
			}
		}
		return []SplitDay{
			{Day: "Monday", Focus: "Chest & Triceps", MuscleGroups: []string{"chest", "triceps"}},
			{Day: "Tuesday", Focus: "Back & Biceps", MuscleGroups: []string{"back", "lats", "biceps"}},
			{Day: "Wednesday", Focus: "Legs", MuscleGroups: []string{"quadriceps", "hamstrings", "glutes", "calves"}},
			{Day: "Thursday", Focus: "Shoulders & Core", MuscleGroups: []string{"shoulders", "abdominals", "traps"}},
			{Day: "Saturday", Focus: "Full Body", MuscleGroups: []string{"chest", "back", "quadriceps", "shoulders"}},
		}
	case 6:
		return []SplitDay{
			{Day: "Monday", Focus: "Push A", MuscleGroups: []string{"chest", "shoulders", "triceps"}},
			{Day: "Tuesday", Focus: "Pull A", MuscleGroups: []string{"back", "lats", "biceps"}},
			{Day: "Wednesday", Focus: "Legs A", MuscleGroups: []string{"quadriceps", "hamstrings", "glutes"}},
			{Day: "Thursday", Focus: "Push B", MuscleGroups: []string{"chest", "shoulders", "triceps"}},
			{Day: "Friday", Focus: "Pull B", MuscleGroups: []string{"back", "lats", "biceps", "forearms"}},
			{Day: "Saturday", Focus: "Legs B & Core", MuscleGroups: []string{"quadriceps", "calves", "abdominals"}},
		}
	case 7:
		return []SplitDay{
			{Day: "Monday", Focus: "Chest & Triceps", MuscleGroups: []string{"chest", "triceps"}},
			{Day: "Tuesday", Focus: "Back & Biceps", MuscleGroups: []string{"back", "lats", "biceps"}},
			{Day: "Wednesday", Focus: "Active Recovery", Recovery: true, Description: "Light yoga, stretching, or 20-min walk at easy pace"},
			{Day: "Thursday", Focus: "Shoulders & Core", MuscleGroups: []string{"shoulders", "abdominals", "traps"}},
			{Day: "Friday", Focus: "Legs", MuscleGroups: []string{"quadriceps", "hamstrings", "glutes", "calves"}},
			{Day: "Saturday", Focus: "Arms & Abs", MuscleGroups: []string{"biceps", "triceps", "forearms", "abdominals"}},
			{Day: "Sunday", Focus: "Active Recovery", Recovery: true, Description: "Swimming, easy cycling, or mobility work"},
		}
	default:
		return splitForWeek(3, level, goal)
	}
}
