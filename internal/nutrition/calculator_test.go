package nutrition

import (
	"math"
	"testing"
)

func TestBMRMaleFemale(t *testing.T) {
	// Mifflin-St Jeor, worked by hand: 10*80 + 6.25*180 - 5*30 = 1775.
	male := BMR("male", 30, 180, 80)
	if male != 1780 {
		t.Fatalf("male BMR: expected 1780, got %v", male)
	}
	female := BMR("female", 30, 180, 80)
	if female != 1614 {
		t.Fatalf("female BMR: expected 1614, got %v", female)
	}
	other := BMR("other", 30, 180, 80)
	if other != female {
		t.Fatalf("non-male genders should use the female constant, got %v", other)
	}
}

func TestTDEEMultipliers(t *testing.T) {
	cases := []struct {
		level ActivityLevel
		want  float64
	}{
		{Sedentary, 1200},
		{LightlyActive, 1375},
		{ModeratelyActive, 1550},
		{VeryActive, 1725},
		{ExtraActive, 1900},
		{ActivityLevel("unknown"), 1200},
	}
	for _, tc := range cases {
		if got := TDEE(1000, tc.level); got != tc.want {
			t.Errorf("TDEE(1000, %s): expected %v, got %v", tc.level, tc.want, got)
		}
	}
}

func TestCaloricTargetOffsets(t *testing.T) {
	cases := []struct {
		goal Goal
		want float64
	}{
		{WeightLoss, 1500},
		{MuscleGain, 2400},
		{Maintenance, 2000},
		{GeneralFitness, 1750},
	}
	for _, tc := range cases {
		if got := CaloricTarget(2000, tc.goal); got != tc.want {
			t.Errorf("CaloricTarget(2000, %s): expected %v, got %v", tc.goal, tc.want, got)
		}
	}
}

func TestMacrosSumToCaloricTarget(t *testing.T) {
	goals := []Goal{WeightLoss, MuscleGain, Maintenance, GeneralFitness}
	targets := []float64{1200, 1650, 2000, 2437.5, 3100}

	for _, goal := range goals {
		for _, target := range targets {
			proteinG, carbsG, fatG := Macros(target, goal)
			sum := proteinG*ProteinCaloriesPerGram + carbsG*CarbCaloriesPerGram + fatG*FatCaloriesPerGram
			// Each macro is rounded to 0.1 g, so the reconstructed total can
			// drift by at most 0.05*(4+4+9) kcal plus float noise.
			if math.Abs(sum-target) > 1.0 {
				t.Errorf("Macros(%v, %s): calories sum to %v, want within 1 kcal of target", target, goal, sum)
			}
		}
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	in := Inputs{
		Age:           29,
		Gender:        "female",
		HeightCM:      165,
		WeightKG:      62.5,
		ActivityLevel: ModeratelyActive,
		Goal:          WeightLoss,
	}
	first, err := Calculate(in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Calculate(in)
		if err != nil {
			t.Fatalf("Calculate: %v", err)
		}
		if again != first {
			t.Fatalf("expected identical targets on every run, got %+v then %+v", first, again)
		}
	}
}

func TestCalculateFullPipeline(t *testing.T) {
	in := Inputs{
		Age:           30,
		Gender:        "male",
		HeightCM:      180,
		WeightKG:      80,
		ActivityLevel: ModeratelyActive,
		Goal:          MuscleGain,
	}
	got, err := Calculate(in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if got.BMR != 1780 {
		t.Errorf("BMR: expected 1780, got %v", got.BMR)
	}
	if got.TDEE != 2759 {
		t.Errorf("TDEE: expected 2759, got %v", got.TDEE)
	}
	if got.CaloricTarget != 3159 {
		t.Errorf("CaloricTarget: expected 3159, got %v", got.CaloricTarget)
	}
	if got.ProteinG != 236.9 {
		t.Errorf("ProteinG: expected 236.9, got %v", got.ProteinG)
	}
	if got.CarbsG != 315.9 {
		t.Errorf("CarbsG: expected 315.9, got %v", got.CarbsG)
	}
	if got.FatG != 105.3 {
		t.Errorf("FatG: expected 105.3, got %v", got.FatG)
	}
}

func TestCalculatePartialProfile(t *testing.T) {
	in := Inputs{Age: 40, Gender: "male", HeightCM: 175, WeightKG: 90}

	got, err := Calculate(in)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if got.TDEE != got.BMR {
		t.Errorf("without an activity level, TDEE should equal BMR, got %v vs %v", got.TDEE, got.BMR)
	}
	if got.CaloricTarget != got.TDEE {
		t.Errorf("without a goal, target should equal TDEE, got %v vs %v", got.CaloricTarget, got.TDEE)
	}
	if got.ProteinG != 0 || got.CarbsG != 0 || got.FatG != 0 {
		t.Errorf("without a goal, macros should be zero, got %+v", got)
	}
}

func TestValidateRejectsOutOfRangeInputs(t *testing.T) {
	valid := Inputs{
		Age:           29,
		Gender:        "female",
		HeightCM:      165,
		WeightKG:      62,
		ActivityLevel: Sedentary,
		Goal:          Maintenance,
	}

	cases := []struct {
		name   string
		mutate func(*Inputs)
		field  string
	}{
		{"age too low", func(in *Inputs) { in.Age = 12 }, "age"},
		{"age too high", func(in *Inputs) { in.Age = 121 }, "age"},
		{"missing gender", func(in *Inputs) { in.Gender = "" }, "gender"},
		{"zero height", func(in *Inputs) { in.HeightCM = 0 }, "height_cm"},
		{"negative height", func(in *Inputs) { in.HeightCM = -170 }, "height_cm"},
		{"zero weight", func(in *Inputs) { in.WeightKG = 0 }, "weight_kg"},
		{"implausible weight", func(in *Inputs) { in.WeightKG = 900 }, "weight_kg"},
		{"bad activity level", func(in *Inputs) { in.ActivityLevel = "couch" }, "activity_level"},
		{"bad goal", func(in *Inputs) { in.Goal = "get_swole" }, "goal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := Calculate(in)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}
}

func TestUnitConversions(t *testing.T) {
	if got := InchesToCM(70); got != 177.8 {
		t.Errorf("InchesToCM(70): expected 177.8, got %v", got)
	}
	if got := LbsToKG(176); got != 79.83 {
		t.Errorf("LbsToKG(176): expected 79.83, got %v", got)
	}
}
