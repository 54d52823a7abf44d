package planner

import "time"

// Settings holds the tunable constants of the planning engine
type Settings struct {
	// Mode decision
	LocalModeThreshold float64 // local compatibility above this plans a LOCAL trip

	// Classification
	TierCutPoints       [4]float64 // rarity boundaries between T1|T2|T3|T4|T5
	OutOfRangePenalty   float64
	OutOfSeasonPenalty  float64
	CommunityAdjustment float64 // max rarity shift from live observation data

	// Availability
	BaselineWeight float64 // multiplied by occurrence rate
	SeasonalBonus  float64
	RegionalBonus  float64
	HabitatWeight  float64
	HostThreshold  float64 // availability (0-1) at which a place is considered to host a species

	// Long-distance selection
	CompatibilityWeight float64
	DistanceWeight      float64
	DistanceScaleKm     float64
	GainCutoff          float64
	TravelSpeedKmh      float64
	HotspotsPerStop     int

	// Local routing
	LocalLegBaseKm     float64
	LocalLegStepKm     float64
	LocalLegBaseMin    int
	LocalLegStepMin    int
	LocalViewingHours  float64
	RemoteViewingHours float64

	// Multi-day
	DailyStopCap           int
	GreedyDistanceFloorKm  float64
	EfficiencyDistanceKm   float64
	MultiDayRadiusKm       float64
	LocalTravelSpeedKmh    float64
	MaxTripDays            int

	// Success estimates
	SuccessCeiling    float64
	TargetSuccessRate float64

	// Request limits
	DefaultMaxStops int
	MaxStopsLimit   int

	// Live data
	ObservationTimeout    time.Duration
	ObservationWindowDays int
}

// DefaultSettings returns the standard planning constants
func DefaultSettings() Settings {
	return Settings{
		LocalModeThreshold: 0.7,

		TierCutPoints:       [4]float64{0.2, 0.4, 0.6, 0.8},
		OutOfRangePenalty:   0.15,
		OutOfSeasonPenalty:  0.15,
		CommunityAdjustment: 0.1,

		BaselineWeight: 40,
		SeasonalBonus:  20,
		RegionalBonus:  20,
		HabitatWeight:  20,
		HostThreshold:  0.5,

		CompatibilityWeight: 0.7,
		DistanceWeight:      0.3,
		DistanceScaleKm:     500,
		GainCutoff:          0.05,
		TravelSpeedKmh:      80,
		HotspotsPerStop:     3,

		LocalLegBaseKm:     10,
		LocalLegStepKm:     5,
		LocalLegBaseMin:    15,
		LocalLegStepMin:    10,
		LocalViewingHours:  1.5,
		RemoteViewingHours: 2.5,

		DailyStopCap:          3,
		GreedyDistanceFloorKm: 0.5,
		EfficiencyDistanceKm:  1.0,
		MultiDayRadiusKm:      100,
		LocalTravelSpeedKmh:   30,
		MaxTripDays:           14,

		SuccessCeiling:    0.95,
		TargetSuccessRate: 0.8,

		DefaultMaxStops: 3,
		MaxStopsLimit:   5,

		ObservationTimeout:    3 * time.Second,
		ObservationWindowDays: 30,
	}
}
