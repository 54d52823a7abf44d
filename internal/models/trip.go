package models

import "time"

// TripRequest is a request to plan a birding trip
type TripRequest struct {
	Species          []string `json:"species" binding:"required"`
	BaseLocation     string   `json:"base_location" binding:"required"`
	DateRange        string   `json:"date_range"`                  // "Spring 2024", "May", "2024-05-12"
	MaxStops         *int     `json:"max_stops,omitempty"`         // nil means the default
	TotalDays        int      `json:"total_days,omitempty"`        // Multi-day planning only
	OptimizeSchedule bool     `json:"optimize_schedule,omitempty"` // Shift viewing windows to peak activity
	UseLiveData      bool     `json:"use_live_data,omitempty"`

	// TargetSuccessRate picks the smallest stop count reaching this probability
	// when MaxStops is not given
	TargetSuccessRate float64 `json:"target_success_rate,omitempty"`
}

// SuccessEstimate is the expected chance of seeing the target species with a given stop count
type SuccessEstimate struct {
	Location            string             `json:"location"`
	Stops               int                `json:"stops"`
	PerSpecies          map[string]float64 `json:"per_species"`
	Overall             float64            `json:"overall"`
	RecommendedMinStops int                `json:"recommended_min_stops"`
	Reasoning           string             `json:"reasoning"`
}

// PlanKind distinguishes stored plans
type PlanKind string

const (
	PlanKindRoute    PlanKind = "route"
	PlanKindMultiDay PlanKind = "multi_day"
)

// TripPlan is a complete planning result
type TripPlan struct {
	ID        string             `json:"id" db:"id"`
	Kind      PlanKind           `json:"kind" db:"kind"`
	Request   TripRequest        `json:"request"`
	Analysis  SpeciesAnalysis    `json:"analysis"`
	Route     *Route             `json:"route,omitempty"`
	Itinerary *MultiDayItinerary `json:"itinerary,omitempty"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}

// TripPlanSummary is a row of the plan history listing
type TripPlanSummary struct {
	ID            string    `json:"id" db:"id"`
	Kind          PlanKind  `json:"kind" db:"kind"`
	BaseLocation  string    `json:"base_location" db:"base_location"`
	Species       []string  `json:"species"`
	Mode          string    `json:"mode,omitempty" db:"mode"`
	StopCount     int       `json:"stop_count" db:"stop_count"`
	TotalDistance float64   `json:"total_distance" db:"total_distance"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// TripPlansResponse represents a paginated response of stored plans
type TripPlansResponse struct {
	Data       []TripPlanSummary `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}
