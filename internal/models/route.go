package models

// TripMode is the routing strategy decided once per planning call
type TripMode string

const (
	TripModeLocal        TripMode = "LOCAL"
	TripModeLongDistance TripMode = "LONG_DISTANCE"
)

// HotspotRecommendation is a hotspot attached to a route stop
type HotspotRecommendation struct {
	Hotspot   Hotspot `json:"hotspot"`
	Relevance float64 `json:"relevance"` // 0-1
}

// ViewingSchedule is the suggested time window at a stop
type ViewingSchedule struct {
	Window   string `json:"window"`   // e.g. "6:00 AM - 9:00 AM"
	Duration string `json:"duration"` // e.g. "2-3 hours"
	Hours    float64 `json:"hours"`
}

// RouteStop is one stop of a route
type RouteStop struct {
	StopNumber           int                     `json:"stop_number"`
	Location             Location                `json:"location"`
	Coordinates          Coordinates             `json:"coordinates"`
	DistanceFromPrevious float64                 `json:"distance_from_previous"` // Kilometers
	Heading              string                  `json:"heading,omitempty"`      // Compass point from previous stop
	TravelMinutes        int                     `json:"travel_minutes"`
	TravelTime           string                  `json:"travel_time"`
	SpeciesCompatibility float64                 `json:"species_compatibility"` // 0-1
	SuccessProbability   float64                 `json:"success_probability"`   // 0-1
	HostedSpecies        []string                `json:"hosted_species"`
	Hotspots             []HotspotRecommendation `json:"recommended_hotspots"`
	Schedule             ViewingSchedule         `json:"viewing_schedule"`
	Recommendations      []string                `json:"recommendations"`
}

// Route is a single-day ordered sequence of stops
type Route struct {
	Mode                   TripMode    `json:"mode"`
	BaseLocation           Location    `json:"base_location"`
	TargetSpecies          []string    `json:"target_species"`
	DateRange              string      `json:"date_range"`
	Stops                  []RouteStop `json:"stops"`
	TotalDistance          float64     `json:"total_distance"` // Kilometers
	EstimatedTotalHours    float64     `json:"estimated_total_hours"`
	EstimatedTotalTime     string      `json:"estimated_total_time"`
	SuccessProbability     float64     `json:"success_probability"`
	RecommendedMinStops    int         `json:"recommended_min_stops"`
	LocalCompatibility     float64     `json:"local_compatibility"`
	Summary                string      `json:"summary"`
}
