package models

import (
	"encoding/json"
	"time"
)

// Plan is one stored weekly payload: a workout plan, meal plan, or grocery
// list. The three tables share the same shape, keyed by user and the Monday
// of the week; the payload itself is opaque JSON produced by a generator.
type Plan struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	WeekDate  time.Time       `json:"week_date"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
