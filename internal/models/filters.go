package models

// TripPlanFilter represents filter parameters for querying stored plans
type TripPlanFilter struct {
	Kind         string `form:"kind"`         // route, multi_day
	BaseLocation string `form:"baseLocation"`
	Mode         string `form:"mode"`         // LOCAL, LONG_DISTANCE
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}

// AvailabilityQuery represents query parameters for a single availability lookup
type AvailabilityQuery struct {
	Species  string `form:"species" binding:"required"`
	Location string `form:"location" binding:"required"`
	Date     string `form:"date"` // Season or date descriptor
}

// ClassifyRequest asks for a species analysis without routing
type ClassifyRequest struct {
	Species     []string `json:"species" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	DateRange   string   `json:"date_range"`
	UseLiveData bool     `json:"use_live_data"`
}
