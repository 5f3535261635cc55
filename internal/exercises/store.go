// Package exercises reads the bundled exercise catalog. The catalog ships as
// a read-only SQLite database; user data lives in PostgreSQL.
package exercises

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("open exercise catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping exercise catalog: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Modification is an exercise adjustment that makes a contraindicated
// movement safe for a given limitation category.
type Modification struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// ContraindicationInfo partitions the catalog for a set of physical
// limitations: exercises with no safe variant are excluded outright, while
// exercises with modifications stay eligible carrying their adjustments.
type ContraindicationInfo struct {
	ExcludedIDs []string
	Modified    map[string][]Modification
}

type Exercise struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Level            string   `json:"level"`
	Equipment        string   `json:"equipment"`
	Category         string   `json:"category"`
	Mechanic         string   `json:"mechanic"`
	Instructions     []string `json:"instructions"`
	Images           []string `json:"images"`
	PrimaryMuscles   []string `json:"primary_muscles"`
	SecondaryMuscles []string `json:"secondary_muscles"`

	// Per-level estimated burn rate in kcal/min; zero when the catalog has
	// no programming row for the exercise.
	CaloriesPerMin map[string]float64 `json:"-"`

	Modifications []Modification `json:"modifications,omitempty"`
}

// Contraindications resolves the user's physical limitations against the
// catalog's contraindication tables.
func (s *Store) Contraindications(ctx context.Context, limitations []string) (*ContraindicationInfo, error) {
	info := &ContraindicationInfo{Modified: make(map[string][]Modification)}
	if len(limitations) == 0 || contains(limitations, "none") {
		return info, nil
	}

	placeholders := placeholderList(len(limitations))
	args := stringArgs(limitations)

	query := `
		SELECT DISTINCT ec.exercise_id
		FROM exercise_contraindications ec
		JOIN contraindications c ON ec.contraindication_id = c.contraindication_id
		JOIN modification_categories mc ON c.category_id = mc.category_id
		WHERE mc.category_name IN (` + placeholders + `)
	`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contraindications: %w", err)
	}
	defer rows.Close()

	var contraindicated []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		contraindicated = append(contraindicated, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	modQuery := `
		SELECT em.modification_text, mc.category_name
		FROM exercise_modifications em
		JOIN modification_categories mc ON em.category_id = mc.category_id
		WHERE em.exercise_id = ?
			AND mc.category_name IN (` + placeholders + `)
			AND mc.category_type = 'contraindication'
	`
	for _, exerciseID := range contraindicated {
		modArgs := append([]any{exerciseID}, args...)
		mods, err := s.queryModifications(ctx, modQuery, modArgs)
		if err != nil {
			return nil, err
		}
		if len(mods) > 0 {
			info.Modified[exerciseID] = mods
		} else {
			info.ExcludedIDs = append(info.ExcludedIDs, exerciseID)
		}
	}

	return info, nil
}

func (s *Store) queryModifications(ctx context.Context, query string, args []any) ([]Modification, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query modifications: %w", err)
	}
	defer rows.Close()

	var mods []Modification
	for rows.Next() {
		var m Modification
		if err := rows.Scan(&m.Text, &m.Category); err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, rows.Err()
}

// Eligible returns exercises matching the allowed difficulty levels and
// available equipment, excluding contraindicated IDs with no modification and
// attaching modifications where they exist.
func (s *Store) Eligible(ctx context.Context, levels, equipment []string, info *ContraindicationInfo) ([]Exercise, error) {
	if len(levels) == 0 || len(equipment) == 0 {
		return nil, fmt.Errorf("levels and equipment filters are required")
	}

	query := `
		SELECT
			e.id,
			e.name,
			e.level,
			e.equipment,
			e.category,
			COALESCE(e.mechanic, ''),
			COALESCE(e.instructions, '[]'),
			COALESCE(e.images, '[]'),
			COALESCE(GROUP_CONCAT(DISTINCT pm.muscle_name), ''),
			COALESCE(GROUP_CONCAT(DISTINCT sm.muscle_name), ''),
			p.calories_beginner, p.calories_intermediate, p.calories_advanced
		FROM exercises e
		LEFT JOIN exercise_primary_muscles epm ON e.id = epm.exercise_id
		LEFT JOIN muscles pm ON epm.muscle_id = pm.muscle_id
		LEFT JOIN exercise_secondary_muscles esm ON e.id = esm.exercise_id
		LEFT JOIN muscles sm ON esm.muscle_id = sm.muscle_id
		LEFT JOIN exercise_programming p ON e.id = p.exercise_id
		WHERE e.category IN ('strength', 'cardio', 'plyometrics')
			AND e.level IN (` + placeholderList(len(levels)) + `)
			AND e.equipment IN (` + placeholderList(len(equipment)) + `)
	`
	args := append(stringArgs(levels), stringArgs(equipment)...)
	if len(info.ExcludedIDs) > 0 {
		query += ` AND e.id NOT IN (` + placeholderList(len(info.ExcludedIDs)) + `)`
		args = append(args, stringArgs(info.ExcludedIDs)...)
	}
	query += ` GROUP BY e.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query eligible exercises: %w", err)
	}
	defer rows.Close()

	var result []Exercise
	for rows.Next() {
		var (
			ex                           Exercise
			instructionsJSON, imagesJSON string
			primaryCSV, secondaryCSV     string
			calBeg, calInt, calAdv       sql.NullFloat64
		)
		if err := rows.Scan(
			&ex.ID,
			&ex.Name,
			&ex.Level,
			&ex.Equipment,
			&ex.Category,
			&ex.Mechanic,
			&instructionsJSON,
			&imagesJSON,
			&primaryCSV,
			&secondaryCSV,
			&calBeg,
			&calInt,
			&calAdv,
		); err != nil {
			return nil, err
		}

		ex.Instructions = decodeJSONList(instructionsJSON)
		ex.Images = decodeJSONList(imagesJSON)
		ex.PrimaryMuscles = splitCSV(primaryCSV)
		ex.SecondaryMuscles = splitCSV(secondaryCSV)
		ex.CaloriesPerMin = map[string]float64{}
		if calBeg.Valid {
			ex.CaloriesPerMin["beginner"] = calBeg.Float64
		}
		if calInt.Valid {
			ex.CaloriesPerMin["intermediate"] = calInt.Float64
		}
		if calAdv.Valid {
			ex.CaloriesPerMin["advanced"] = calAdv.Float64
		}
		ex.Modifications = info.Modified[ex.ID]

		result = append(result, ex)
	}
	return result, rows.Err()
}

func decodeJSONList(raw string) []string {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func placeholderList(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
