package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/marcosgeraldo-berkeley/fitness-app/internal/models"
)

// PlanRepository stores the three weekly plan payloads. workout_plans and
// meal_plans keep the payload in plan_data, grocery_lists in grocery_data;
// all three are upserted on the (user_id, week_date) unique key.
type PlanRepository struct {
	db DBTX
}

func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

const (
	workoutPlansTable = "workout_plans"
	mealPlansTable    = "meal_plans"
	groceryListsTable = "grocery_lists"

	planDataColumn    = "plan_data"
	groceryDataColumn = "grocery_data"
)

func (r *PlanRepository) UpsertWorkoutPlan(ctx context.Context, userID int64, weekDate time.Time, data json.RawMessage) (*models.Plan, error) {
	return r.upsert(ctx, workoutPlansTable, planDataColumn, userID, weekDate, data)
}

func (r *PlanRepository) UpsertMealPlan(ctx context.Context, userID int64, weekDate time.Time, data json.RawMessage) (*models.Plan, error) {
	return r.upsert(ctx, mealPlansTable, planDataColumn, userID, weekDate, data)
}

func (r *PlanRepository) UpsertGroceryList(ctx context.Context, userID int64, weekDate time.Time, data json.RawMessage) (*models.Plan, error) {
	return r.upsert(ctx, groceryListsTable, groceryDataColumn, userID, weekDate, data)
}

func (r *PlanRepository) GetWorkoutPlanForWeek(ctx context.Context, userID int64, weekDate time.Time) (*models.Plan, error) {
	return r.getForWeek(ctx, workoutPlansTable, planDataColumn, userID, weekDate)
}

func (r *PlanRepository) GetMealPlanForWeek(ctx context.Context, userID int64, weekDate time.Time) (*models.Plan, error) {
	return r.getForWeek(ctx, mealPlansTable, planDataColumn, userID, weekDate)
}

func (r *PlanRepository) GetGroceryListForWeek(ctx context.Context, userID int64, weekDate time.Time) (*models.Plan, error) {
	return r.getForWeek(ctx, groceryListsTable, groceryDataColumn, userID, weekDate)
}

func (r *PlanRepository) GetLatestWorkoutPlan(ctx context.Context, userID int64) (*models.Plan, error) {
	return r.getLatest(ctx, workoutPlansTable, planDataColumn, userID)
}

func (r *PlanRepository) GetLatestMealPlan(ctx context.Context, userID int64) (*models.Plan, error) {
	return r.getLatest(ctx, mealPlansTable, planDataColumn, userID)
}

func (r *PlanRepository) GetLatestGroceryList(ctx context.Context, userID int64) (*models.Plan, error) {
	return r.getLatest(ctx, groceryListsTable, groceryDataColumn, userID)
}

func (r *PlanRepository) upsert(ctx context.Context, table, dataColumn string, userID int64, weekDate time.Time, data json.RawMessage) (*models.Plan, error) {
	query := `
		INSERT INTO ` + table + ` (user_id, week_date, ` + dataColumn + `)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, week_date)
		DO UPDATE SET ` + dataColumn + ` = EXCLUDED.` + dataColumn + `, updated_at = NOW()
		RETURNING id, user_id, week_date, ` + dataColumn + `, created_at, updated_at
	`
	var plan models.Plan
	err := r.db.QueryRow(ctx, query, userID, weekDate, data).Scan(
		&plan.ID,
		&plan.UserID,
		&plan.WeekDate,
		&plan.Data,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) getForWeek(ctx context.Context, table, dataColumn string, userID int64, weekDate time.Time) (*models.Plan, error) {
	query := `
		SELECT id, user_id, week_date, ` + dataColumn + `, created_at, updated_at
		FROM ` + table + `
		WHERE user_id = $1 AND week_date = $2
	`
	var plan models.Plan
	err := r.db.QueryRow(ctx, query, userID, weekDate).Scan(
		&plan.ID,
		&plan.UserID,
		&plan.WeekDate,
		&plan.Data,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) getLatest(ctx context.Context, table, dataColumn string, userID int64) (*models.Plan, error) {
	query := `
		SELECT id, user_id, week_date, ` + dataColumn + `, created_at, updated_at
		FROM ` + table + `
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var plan models.Plan
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&plan.ID,
		&plan.UserID,
		&plan.WeekDate,
		&plan.Data,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}
