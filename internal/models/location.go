package models

// Coordinates is a latitude/longitude pair in degrees
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location represents a birding base (a city or region center) with its hotspots
type Location struct {
	ID          int64       `json:"id,omitempty" db:"id"`
	Name        string      `json:"name" db:"name"`
	Region      string      `json:"region" db:"region"` // Northeast, Midwest, Southeast, West Coast
	Coordinates Coordinates `json:"coordinates"`
	Climate     string      `json:"climate" db:"climate"`
	Elevation   *float64    `json:"elevation,omitempty" db:"elevation"` // Meters
	Habitats    []string    `json:"habitats"`
	EBirdRegion string      `json:"ebird_region,omitempty" db:"ebird_region"` // e.g. US-NY
	Hotspots    []Hotspot   `json:"hotspots"`
}

// Hotspot is a named viewing point owned by a Location
type Hotspot struct {
	ID            int64       `json:"id,omitempty" db:"id"`
	Name          string      `json:"name" db:"name"`
	Coordinates   Coordinates `json:"coordinates"`
	SpeciesCount  int         `json:"species_count" db:"species_count"` // Historical richness
	Description   string      `json:"description" db:"description"`
	Accessibility string      `json:"accessibility" db:"accessibility"`
	Facilities    []string    `json:"facilities"`
	BestSeason    string      `json:"best_season,omitempty" db:"best_season"`
	Habitats      []string    `json:"habitats"`
	LocationName  string      `json:"location_name" db:"location_name"`
}

// HabitatTags returns the hotspot habitats, falling back to the owning location's tags
func (h Hotspot) HabitatTags(owner Location) []string {
	if len(h.Habitats) > 0 {
		return h.Habitats
	}
	return owner.Habitats
}
