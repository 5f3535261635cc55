package mealapi

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DisplayMeal is a meal ready for rendering.
type DisplayMeal struct {
	Type         string            `json:"type"`
	Title        string            `json:"title"`
	Calories     float64           `json:"calories"`
	Description  string            `json:"description"`
	Macros       map[string]string `json:"macros"`
	Ingredients  []string          `json:"ingredients"`
	Quantities   []string          `json:"quantities"`
	Units        []string          `json:"units"`
	Instructions string            `json:"instructions"`
	Query        string            `json:"query,omitempty"`
}

type DisplayDay struct {
	DayNumber      int           `json:"day_number"`
	DayName        string        `json:"day_name"`
	Date           string        `json:"date"`
	FullDate       string        `json:"full_date"`
	TargetCalories float64       `json:"target_calories"`
	ActualCalories float64       `json:"actual_calories"`
	TargetProtein  float64       `json:"target_protein"`
	ActualProtein  float64       `json:"actual_protein"`
	TargetCarbs    float64       `json:"target_carbs"`
	ActualCarbs    float64       `json:"actual_carbs"`
	TargetFat      float64       `json:"target_fat"`
	ActualFat      float64       `json:"actual_fat"`
	Meals          []DisplayMeal `json:"meals"`
}

// DisplayPlan is the persisted meal plan shape: days keyed by number 1-7
// with concrete dates resolved from the week's Monday.
type DisplayPlan struct {
	TotalDays int                `json:"total_days"`
	Days      map[int]DisplayDay `json:"days"`
	Fallback  bool               `json:"fallback,omitempty"`
}

// FormatForWeek anchors the service's numbered days (1 = Monday) to real
// dates for the given week.
func FormatForWeek(plan *MealPlan, weekMonday time.Time) *DisplayPlan {
	if plan == nil || len(plan.DailyPlans) == 0 {
		return nil
	}

	formatted := &DisplayPlan{
		TotalDays: len(plan.DailyPlans),
		Days:      make(map[int]DisplayDay, len(plan.DailyPlans)),
	}

	for _, dayPlan := range plan.DailyPlans {
		if dayPlan.Day < 1 || dayPlan.Day > 7 {
			continue
		}
		dayDate := weekMonday.AddDate(0, 0, dayPlan.Day-1)

		day := DisplayDay{
			DayNumber:      dayPlan.Day,
			DayName:        dayNames[dayPlan.Day-1],
			Date:           dayDate.Format("Jan 02"),
			FullDate:       dayDate.Format("2006-01-02"),
			TargetCalories: dayPlan.TargetCalories,
			ActualCalories: dayPlan.TotalCalories,
			TargetProtein:  dayPlan.TargetProtein,
			ActualProtein:  dayPlan.TotalProtein,
			TargetCarbs:    dayPlan.TargetCarbs,
			ActualCarbs:    dayPlan.TotalCarbs,
			TargetFat:      dayPlan.TargetFat,
			ActualFat:      dayPlan.TotalFat,
		}

		for _, meal := range dayPlan.Meals {
			if meal == nil {
				continue
			}
			day.Meals = append(day.Meals, DisplayMeal{
				Type:         orDefault(meal.MealType, "Unknown"),
				Title:        orDefault(meal.Title, "Untitled Meal"),
				Calories:     meal.Calories,
				Description:  meal.Description,
				Macros:       meal.Macros,
				Ingredients:  meal.Ingredients,
				Quantities:   meal.Quantities,
				Units:        meal.Units,
				Instructions: meal.Instructions,
				Query:        meal.Query,
			})
		}

		formatted.Days[dayPlan.Day] = day
	}

	return formatted
}

// DefaultMealPlan is served when the meal service is unreachable so the user
// still sees a complete, regenerable week.
func DefaultMealPlan(weekMonday time.Time, calories int) *DisplayPlan {
	if calories <= 0 {
		calories = 2000
	}

	defaultMeals := []DisplayMeal{
		{
			Type:         "breakfast",
			Title:        "Balanced Breakfast",
			Calories:     float64(calories / 4),
			Description:  "A nutritious breakfast to start your day",
			Macros:       map[string]string{"protein": "25g", "carbs": "45g", "fat": "15g"},
			Ingredients:  []string{},
			Quantities:   []string{},
			Units:        []string{},
			Instructions: "Please regenerate your meal plan for detailed recipes.",
		},
		{
			Type:         "lunch",
			Title:        "Healthy Lunch",
			Calories:     float64(calories / 3),
			Description:  "A satisfying midday meal",
			Macros:       map[string]string{"protein": "30g", "carbs": "50g", "fat": "18g"},
			Ingredients:  []string{},
			Quantities:   []string{},
			Units:        []string{},
			Instructions: "Please regenerate your meal plan for detailed recipes.",
		},
		{
			Type:         "dinner",
			Title:        "Nutritious Dinner",
			Calories:     float64(calories / 3),
			Description:  "A complete evening meal",
			Macros:       map[string]string{"protein": "35g", "carbs": "45g", "fat": "20g"},
			Ingredients:  []string{},
			Quantities:   []string{},
			Units:        []string{},
			Instructions: "Please regenerate your meal plan for detailed recipes.",
		},
	}

	plan := &DisplayPlan{
		TotalDays: 7,
		Days:      make(map[int]DisplayDay, 7),
		Fallback:  true,
	}
	for dayNum := 1; dayNum <= 7; dayNum++ {
		dayDate := weekMonday.AddDate(0, 0, dayNum-1)
		plan.Days[dayNum] = DisplayDay{
			DayNumber:      dayNum,
			DayName:        dayNames[dayNum-1],
			Date:           dayDate.Format("Jan 02"),
			FullDate:       dayDate.Format("2006-01-02"),
			TargetCalories: float64(calories),
			ActualCalories: float64(calories),
			TargetProtein:  100,
			ActualProtein:  90,
			TargetCarbs:    200,
			ActualCarbs:    190,
			TargetFat:      60,
			ActualFat:      55,
			Meals:          defaultMeals,
		}
	}
	return plan
}

type GrocerySectionItem struct {
	Name     string  `json:"name"`
	Quantity string  `json:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty"`
	Amount   float64 `json:"amount,omitempty"`
	Checked  bool    `json:"checked"`
}

type GrocerySection struct {
	Title string               `json:"title"`
	Items []GrocerySectionItem `json:"items"`
}

// GroceryDisplay is the persisted grocery list shape.
type GroceryDisplay struct {
	Week     string           `json:"week"`
	Sections []GrocerySection `json:"sections"`
	Notes    string           `json:"notes,omitempty"`
	Fallback bool             `json:"fallback,omitempty"`
}

var categoryIcons = map[string]string{
	"Pasta, Rice, and Cereals": "\U0001F33E",
	"Vegetables":               "\U0001F96C",
	"Fruits":                   "\U0001F34E",
	"Dairy":                    "\U0001F95B",
	"Meat and Poultry":         "\U0001F969",
	"Fish and Seafood":         "\U0001F41F",
	"Herbs and Spices":         "\U0001F33F",
	"Bakery":                   "\U0001F35E",
	"Condiments and Sauces":    "\U0001F9C2",
	"Oils and Fats":            "\U0001FAD2",
	"Beverages":                "\U0001F964",
	"Other":                    "\U0001F4E6",
}

// FormatGroceryForWeek organizes the service's flat shopping list into
// icon-titled category sections.
func FormatGroceryForWeek(list *GroceryList, weekMonday time.Time) *GroceryDisplay {
	if list == nil || len(list.ShoppingList) == 0 {
		return nil
	}

	categories := make(map[string][]GrocerySectionItem)
	for _, item := range list.ShoppingList {
		category := item.Category
		if category == "" {
			category = "Other"
		}
		categories[category] = append(categories[category], GrocerySectionItem{
			Name:   item.Name,
			Unit:   item.Unit,
			Amount: item.Quantity,
		})
	}

	display := &GroceryDisplay{Week: weekRange(weekMonday)}
	if list.Notes != nil {
		display.Notes = *list.Notes
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		icon, ok := categoryIcons[name]
		if !ok {
			icon = categoryIcons["Other"]
		}
		display.Sections = append(display.Sections, GrocerySection{
			Title: icon + " " + name,
			Items: categories[name],
		})
	}
	return display
}

var (
	produceKeywords = []string{"lettuce", "tomato", "cucumber", "onion", "pepper", "carrot", "broccoli", "spinach", "kale", "apple", "banana", "berry"}
	proteinKeywords = []string{"chicken", "beef", "pork", "fish", "salmon", "tuna", "turkey", "egg", "tofu", "tempeh"}
	dairyKeywords   = []string{"milk", "cheese", "yogurt", "butter", "cream"}
)

// GroceryFromMeals builds a keyword-categorized grocery list directly from
// the plan's ingredients. Used when the shopping list service fails but a
// real meal plan exists.
func GroceryFromMeals(plan *MealPlan, weekMonday time.Time) *GroceryDisplay {
	type ingredientData struct {
		quantities []string
	}
	ingredientMap := make(map[string]*ingredientData)
	var order []string

	if plan != nil {
		for _, day := range plan.DailyPlans {
			for _, meal := range day.Meals {
				if meal == nil {
					continue
				}
				for i, ingredient := range meal.Ingredients {
					qty := "1"
					if i < len(meal.Quantities) {
						qty = meal.Quantities[i]
					}
					data, ok := ingredientMap[ingredient]
					if !ok {
						data = &ingredientData{}
						ingredientMap[ingredient] = data
						order = append(order, ingredient)
					}
					data.quantities = append(data.quantities, qty)
				}
			}
		}
	}

	if len(ingredientMap) == 0 {
		return SampleGrocery(weekMonday)
	}

	var produce, protein, dairy, pantry []GrocerySectionItem
	for _, ingredient := range order {
		data := ingredientMap[ingredient]
		quantities := data.quantities
		if len(quantities) > 3 {
			quantities = quantities[:3]
		}
		item := GrocerySectionItem{
			Name:     ingredient,
			Quantity: strings.Join(quantities, ", "),
		}

		lower := strings.ToLower(ingredient)
		switch {
		case matchesAny(lower, produceKeywords):
			produce = append(produce, item)
		case matchesAny(lower, proteinKeywords):
			protein = append(protein, item)
		case matchesAny(lower, dairyKeywords):
			dairy = append(dairy, item)
		default:
			pantry = append(pantry, item)
		}
	}

	display := &GroceryDisplay{Week: weekRange(weekMonday), Fallback: true}
	appendSection := func(title string, items []GrocerySectionItem) {
		if len(items) == 0 {
			return
		}
		sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
		display.Sections = append(display.Sections, GrocerySection{Title: title, Items: items})
	}
	appendSection("\U0001F96C Produce", produce)
	appendSection("\U0001F969 Protein", protein)
	appendSection("\U0001F95B Dairy", dairy)
	appendSection("\U0001F33E Pantry", pantry)

	return display
}

// SampleGrocery is the last-resort list shown when no ingredients exist at
// all, so the page is never empty.
func SampleGrocery(weekMonday time.Time) *GroceryDisplay {
	return &GroceryDisplay{
		Week:     weekRange(weekMonday),
		Fallback: true,
		Sections: []GrocerySection{
			{
				Title: "\U0001F96C Produce",
				Items: []GrocerySectionItem{
					{Name: "Mixed salad greens", Quantity: "2 bags"},
					{Name: "Tomatoes", Quantity: "4"},
					{Name: "Bananas", Quantity: "6"},
				},
			},
			{
				Title: "\U0001F969 Protein",
				Items: []GrocerySectionItem{
					{Name: "Chicken breast", Quantity: "1 kg"},
					{Name: "Eggs", Quantity: "12"},
				},
			},
			{
				Title: "\U0001F33E Pantry",
				Items: []GrocerySectionItem{
					{Name: "Brown rice", Quantity: "1 bag"},
					{Name: "Oats", Quantity: "1 box"},
				},
			},
		},
	}
}

func weekRange(weekMonday time.Time) string {
	sunday := weekMonday.AddDate(0, 0, 6)
	if weekMonday.Month() == sunday.Month() {
		return fmt.Sprintf("%s to %s", weekMonday.Format("Jan 02"), sunday.Format("02"))
	}
	return fmt.Sprintf("%s to %s", weekMonday.Format("Jan 02"), sunday.Format("Jan 02"))
}

func matchesAny(value string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(value, kw) {
			return true
		}
	}
	return false
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
