// Package mealapi is the HTTP client for the external meal planning service.
// The service generates n-day meal plans and shopping lists; when it is down
// the caller falls back to locally built defaults.
package mealapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable covers timeouts, connection failures and unexpected status
// codes. Callers treat it as a signal to serve a fallback plan.
var ErrUnavailable = errors.New("meal planning service unavailable")

// ValidationError is returned when the service rejects the request payload
// with a 422.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + e.Detail
}

type Meal struct {
	MealType     string            `json:"meal_type"`
	Title        string            `json:"title"`
	Calories     float64           `json:"calories"`
	Description  string            `json:"description"`
	Macros       map[string]string `json:"macros"`
	Ingredients  []string          `json:"ingredients"`
	Quantities   []string          `json:"quantities"`
	Units        []string          `json:"units"`
	Instructions string            `json:"instructions"`
	Query        string            `json:"query"`
}

type DailyPlan struct {
	Day            int     `json:"day"`
	TargetCalories float64 `json:"target_calories"`
	TotalCalories  float64 `json:"total_calories"`
	TargetProtein  float64 `json:"target_protein"`
	TotalProtein   float64 `json:"total_protein"`
	TargetCarbs    float64 `json:"target_carbs"`
	TotalCarbs     float64 `json:"total_carbs"`
	TargetFat      float64 `json:"target_fat"`
	TotalFat       float64 `json:"total_fat"`

	// Meals can contain nulls when the service finds no recipe for a slot.
	Meals []*Meal `json:"meals"`
}

type MealPlan struct {
	DailyPlans []DailyPlan `json:"daily_plans"`
}

type GroceryItem struct {
	Category string  `json:"category"`
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
}

type GroceryList struct {
	ShoppingList []GroceryItem `json:"shopping_list"`
	Notes        *string       `json:"notes"`
}

type PlanRequest struct {
	TargetCalories int      `json:"target_calories"`
	Dietary        []string `json:"dietary"`
	Exclusions     string   `json:"exclusions"`
	Preferences    string   `json:"preferences"`
	NumDays        int      `json:"num_days"`
	LimitPerMeal   int      `json:"limit_per_meal"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// GenerateMealPlan requests an n-day plan. Dietary entries equal to "none"
// are stripped before sending.
func (c *Client) GenerateMealPlan(ctx context.Context, req PlanRequest) (*MealPlan, error) {
	if req.NumDays == 0 {
		req.NumDays = 7
	}
	if req.LimitPerMeal == 0 {
		req.LimitPerMeal = 1
	}
	req.Dietary = cleanDietary(req.Dietary)

	var plan MealPlan
	if err := c.post(ctx, "/meal-planning/n-day", req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// GenerateGroceryList asks the service to consolidate a meal plan's
// ingredients into a shopping list. Each meal becomes one array of
// "quantity unit ingredient" descriptions.
func (c *Client) GenerateGroceryList(ctx context.Context, plan *MealPlan) (*GroceryList, error) {
	descriptions := mealDescriptions(plan)
	if len(descriptions) == 0 {
		return nil, fmt.Errorf("meal plan has no ingredients: %w", ErrUnavailable)
	}

	payload := struct {
		MealDescriptions [][]string `json:"meal_descriptions"`
		Model            string     `json:"model"`
	}{
		MealDescriptions: descriptions,
		Model:            "command-a-03-2025",
	}

	var list GroceryList
	if err := c.post(ctx, "/generate-shopping-list", payload, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// HealthCheck probes the service. A 404 still means the server is up.
func (c *Client) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	case http.StatusUnprocessableEntity:
		return &ValidationError{Detail: decodeValidationDetail(resp.Body)}
	default:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
}

func decodeValidationDetail(body io.Reader) string {
	var payload struct {
		Detail []struct {
			Loc []any  `json:"loc"`
			Msg string `json:"msg"`
		} `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return "unknown validation error"
	}

	var messages []string
	for _, d := range payload.Detail {
		locs := make([]string, len(d.Loc))
		for i, l := range d.Loc {
			locs[i] = fmt.Sprint(l)
		}
		messages = append(messages, strings.Join(locs, " -> ")+": "+d.Msg)
	}
	if len(messages) == 0 {
		return "unknown validation error"
	}
	return strings.Join(messages, "; ")
}

func mealDescriptions(plan *MealPlan) [][]string {
	if plan == nil {
		return nil
	}
	var descriptions [][]string
	for _, day := range plan.DailyPlans {
		for _, meal := range day.Meals {
			if meal == nil {
				continue
			}
			var items []string
			for i, ingredient := range meal.Ingredients {
				qty := "1"
				if i < len(meal.Quantities) {
					qty = meal.Quantities[i]
				}
				unit := "serving"
				if i < len(meal.Units) {
					unit = meal.Units[i]
				}
				items = append(items, fmt.Sprintf("%s %s %s", qty, unit, ingredient))
			}
			if len(items) > 0 {
				descriptions = append(descriptions, items)
			}
		}
	}
	return descriptions
}

func cleanDietary(dietary []string) []string {
	cleaned := []string{}
	for _, d := range dietary {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" && d != "none" {
			cleaned = append(cleaned, d)
		}
	}
	return cleaned
}
