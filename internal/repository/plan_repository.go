package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/birding-planner-go/internal/models"
)

// timestampLayout sorts lexicographically in UTC
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// PlanRepository handles database operations for stored trip plans
type PlanRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db, now: time.Now}
}

// Save stores a plan, assigning an ID and creation time when missing
func (r *PlanRepository) Save(plan *models.TripPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = r.now().UTC()
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}

	summary := summarize(plan)
	_, err = r.db.Exec(`INSERT INTO trip_plans (id, kind, base_location, species_json, mode,
			stop_count, total_distance, plan_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, string(plan.Kind), summary.BaseLocation, toJSON(summary.Species), summary.Mode,
		summary.StopCount, summary.TotalDistance, string(planJSON),
		plan.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// GetByID retrieves a plan by ID; it returns nil when no plan matches
func (r *PlanRepository) GetByID(id string) (*models.TripPlan, error) {
	var planJSON string
	err := r.db.QueryRow("SELECT plan_json FROM trip_plans WHERE id = ?", id).Scan(&planJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	var plan models.TripPlan
	if err := json.Unmarshal([]byte(planJSON), &plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan %s: %w", id, err)
	}
	return &plan, nil
}

// List retrieves plan summaries with filtering and pagination, newest first
func (r *PlanRepository) List(filter models.TripPlanFilter) ([]models.TripPlanSummary, int64, error) {
	query := `SELECT id, kind, base_location, species_json, mode, stop_count,
		total_distance, created_at
		FROM trip_plans`

	var conditions []string
	var args []interface{}

	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.BaseLocation != "" {
		conditions = append(conditions, "base_location = ? COLLATE NOCASE")
		args = append(args, filter.BaseLocation)
	}
	if filter.Mode != "" {
		conditions = append(conditions, "mode = ?")
		args = append(args, filter.Mode)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trip_plans"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count plans: %w", err)
	}

	page, pageSize := NormalizePage(filter.Page, filter.PageSize)
	offset := (page - 1) * pageSize
	query += where + " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, pageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	plans := []models.TripPlanSummary{}
	for rows.Next() {
		var s models.TripPlanSummary
		var kind, speciesJSON, createdAt string
		err := rows.Scan(&s.ID, &kind, &s.BaseLocation, &speciesJSON, &s.Mode,
			&s.StopCount, &s.TotalDistance, &createdAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan plan: %w", err)
		}
		s.Kind = models.PlanKind(kind)
		if err := fromJSON(speciesJSON, &s.Species); err != nil {
			return nil, 0, fmt.Errorf("plan %s: %w", s.ID, err)
		}
		s.CreatedAt = parseTimestamp(createdAt)
		plans = append(plans, s)
	}

	return plans, total, rows.Err()
}

// Delete removes a plan and reports whether it existed
func (r *PlanRepository) Delete(id string) (bool, error) {
	res, err := r.db.Exec("DELETE FROM trip_plans WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete plan: %w", err)
	}
	return n > 0, nil
}

// NormalizePage applies the default page and the page size bounds
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func summarize(plan *models.TripPlan) models.TripPlanSummary {
	s := models.TripPlanSummary{
		ID:           plan.ID,
		Kind:         plan.Kind,
		BaseLocation: plan.Request.BaseLocation,
		Species:      plan.Request.Species,
		CreatedAt:    plan.CreatedAt,
	}
	switch {
	case plan.Route != nil:
		s.BaseLocation = plan.Route.BaseLocation.Name
		s.Species = plan.Route.TargetSpecies
		s.Mode = string(plan.Route.Mode)
		s.StopCount = len(plan.Route.Stops)
		s.TotalDistance = plan.Route.TotalDistance
	case plan.Itinerary != nil:
		s.BaseLocation = plan.Itinerary.BaseLocation.Name
		s.Species = plan.Itinerary.TargetSpecies
		for _, d := range plan.Itinerary.Days {
			s.StopCount += len(d.Visits)
		}
		s.TotalDistance = plan.Itinerary.Stats.TotalDistance
	}
	return s
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{timestampLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
