package models

// HotspotVisit is one hotspot visited during a day
type HotspotVisit struct {
	VisitNumber          int         `json:"visit_number"`
	Hotspot              Hotspot     `json:"hotspot"`
	DistanceFromPrevious float64     `json:"distance_from_previous"` // Kilometers
	TravelTime           string      `json:"travel_time"`
	ExpectedSpecies      []string    `json:"expected_species"`
	NewSpecies           []string    `json:"new_species"`
	SpeciesScore         float64     `json:"species_score"` // 0-1
	ViewingWindow        string      `json:"viewing_window"`
	Recommendations      []string    `json:"recommendations"`
}

// DailyPlan is the plan for one day of a multi-day trip
type DailyPlan struct {
	Day                int            `json:"day"`
	Visits             []HotspotVisit `json:"visits"`
	ExpectedSpecies    []string       `json:"expected_species"`
	TotalDistance      float64        `json:"total_distance"`
	SuccessProbability float64        `json:"success_probability"`
	EfficiencyScore    float64        `json:"efficiency_score"`
}

// IsEmpty reports whether the day has no visits
func (d DailyPlan) IsEmpty() bool {
	return len(d.Visits) == 0
}

// ItineraryStats aggregates a multi-day itinerary
type ItineraryStats struct {
	SpeciesCoverage      float64  `json:"species_coverage"` // 0-1
	CoveredSpecies       []string `json:"covered_species"`
	TotalDistance        float64  `json:"total_distance"`
	AverageDistancePerDay float64 `json:"average_distance_per_day"`
	SuccessProbability   float64  `json:"success_probability"`
	EfficiencyScore      float64  `json:"efficiency_score"`
	ActiveDays           int      `json:"active_days"`
}

// MultiDayItinerary is the day-partitioned plan for a trip
type MultiDayItinerary struct {
	BaseLocation  Location       `json:"base_location"`
	TargetSpecies []string       `json:"target_species"`
	DateRange     string         `json:"date_range"`
	TotalDays     int            `json:"total_days"`
	Days          []DailyPlan    `json:"days"`
	Stats         ItineraryStats `json:"stats"`
}
