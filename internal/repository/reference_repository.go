package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jengzang/birding-planner-go/internal/database"
	"github.com/jengzang/birding-planner-go/internal/models"
)

// ReferenceRepository handles database operations for species, locations and hotspots
type ReferenceRepository struct {
	db *sql.DB
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db *sql.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// IsEmpty reports whether no species or locations have been stored yet
func (r *ReferenceRepository) IsEmpty() (bool, error) {
	var species, locations int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM species").Scan(&species); err != nil {
		return false, fmt.Errorf("failed to count species: %w", err)
	}
	if err := r.db.QueryRow("SELECT COUNT(*) FROM locations").Scan(&locations); err != nil {
		return false, fmt.Errorf("failed to count locations: %w", err)
	}
	return species == 0 && locations == 0, nil
}

// Seed stores species and locations (with hotspots) in one transaction.
// Existing rows with the same name are replaced.
func (r *ReferenceRepository) Seed(species []models.ReferenceSpecies, locations []models.Location) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		for _, s := range species {
			if err := upsertSpecies(tx, s); err != nil {
				return err
			}
		}
		for i, l := range locations {
			if err := upsertLocation(tx, l, i); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertSpecies(tx *sql.Tx, s models.ReferenceSpecies) error {
	months := make([]int, len(s.ActiveMonths))
	for i, m := range s.ActiveMonths {
		months[i] = int(m)
	}

	_, err := tx.Exec(`INSERT INTO species (name, scientific_name, species_code, baseline_tier,
			occurrence_rate, region_count, visibility, active_months_json, regions_json,
			habitats_json, peak_activity, migration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			scientific_name = excluded.scientific_name,
			species_code = excluded.species_code,
			baseline_tier = excluded.baseline_tier,
			occurrence_rate = excluded.occurrence_rate,
			region_count = excluded.region_count,
			visibility = excluded.visibility,
			active_months_json = excluded.active_months_json,
			regions_json = excluded.regions_json,
			habitats_json = excluded.habitats_json,
			peak_activity = excluded.peak_activity,
			migration = excluded.migration`,
		s.Name, s.ScientificName, s.SpeciesCode, int(s.BaselineTier),
		s.OccurrenceRate, s.RegionCount, s.Visibility, toJSON(months), toJSON(s.Regions),
		toJSON(s.Habitats), s.PeakActivity, s.Migration,
	)
	if err != nil {
		return fmt.Errorf("failed to store species %s: %w", s.Name, err)
	}
	return nil
}

func upsertLocation(tx *sql.Tx, l models.Location, order int) error {
	_, err := tx.Exec(`INSERT INTO locations (name, region, lat, lon, climate, elevation,
			habitats_json, ebird_region, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			region = excluded.region,
			lat = excluded.lat,
			lon = excluded.lon,
			climate = excluded.climate,
			elevation = excluded.elevation,
			habitats_json = excluded.habitats_json,
			ebird_region = excluded.ebird_region,
			sort_order = excluded.sort_order`,
		l.Name, l.Region, l.Coordinates.Lat, l.Coordinates.Lon, l.Climate, l.Elevation,
		toJSON(l.Habitats), l.EBirdRegion, order,
	)
	if err != nil {
		return fmt.Errorf("failed to store location %s: %w", l.Name, err)
	}

	var locationID int64
	if err := tx.QueryRow("SELECT id FROM locations WHERE name = ?", l.Name).Scan(&locationID); err != nil {
		return fmt.Errorf("failed to resolve location %s: %w", l.Name, err)
	}

	if _, err := tx.Exec("DELETE FROM hotspots WHERE location_id = ?", locationID); err != nil {
		return fmt.Errorf("failed to clear hotspots of %s: %w", l.Name, err)
	}

	for i, h := range l.Hotspots {
		_, err := tx.Exec(`INSERT INTO hotspots (location_id, name, lat, lon, species_count,
				description, accessibility, facilities_json, best_season, habitats_json, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			locationID, h.Name, h.Coordinates.Lat, h.Coordinates.Lon, h.SpeciesCount,
			h.Description, h.Accessibility, toJSON(h.Facilities), h.BestSeason, toJSON(h.Habitats), i,
		)
		if err != nil {
			return fmt.Errorf("failed to store hotspot %s: %w", h.Name, err)
		}
	}

	return nil
}

// GetSpecies retrieves all species
func (r *ReferenceRepository) GetSpecies() ([]models.ReferenceSpecies, error) {
	rows, err := r.db.Query(`SELECT id, name, scientific_name, species_code, baseline_tier,
		occurrence_rate, region_count, visibility, active_months_json, regions_json,
		habitats_json, peak_activity, migration
		FROM species ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query species: %w", err)
	}
	defer rows.Close()

	species := []models.ReferenceSpecies{}
	for rows.Next() {
		var s models.ReferenceSpecies
		var tier int
		var monthsJSON, regionsJSON, habitatsJSON string
		err := rows.Scan(&s.ID, &s.Name, &s.ScientificName, &s.SpeciesCode, &tier,
			&s.OccurrenceRate, &s.RegionCount, &s.Visibility, &monthsJSON, &regionsJSON,
			&habitatsJSON, &s.PeakActivity, &s.Migration)
		if err != nil {
			return nil, fmt.Errorf("failed to scan species: %w", err)
		}

		var months []int
		if err := fromJSON(monthsJSON, &months); err != nil {
			return nil, fmt.Errorf("species %s: %w", s.Name, err)
		}
		s.ActiveMonths = make([]time.Month, len(months))
		for i, m := range months {
			s.ActiveMonths[i] = time.Month(m)
		}
		if err := fromJSON(regionsJSON, &s.Regions); err != nil {
			return nil, fmt.Errorf("species %s: %w", s.Name, err)
		}
		if err := fromJSON(habitatsJSON, &s.Habitats); err != nil {
			return nil, fmt.Errorf("species %s: %w", s.Name, err)
		}
		s.BaselineTier = models.Tier(tier)
		s.Known = true
		species = append(species, s)
	}

	return species, rows.Err()
}

// GetLocations retrieves all locations with their hotspots
func (r *ReferenceRepository) GetLocations() ([]models.Location, error) {
	rows, err := r.db.Query(`SELECT id, name, region, lat, lon, climate, elevation,
		habitats_json, ebird_region
		FROM locations ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	locations := []models.Location{}
	index := make(map[int64]int)
	for rows.Next() {
		var l models.Location
		var elevation sql.NullFloat64
		var habitatsJSON string
		err := rows.Scan(&l.ID, &l.Name, &l.Region, &l.Coordinates.Lat, &l.Coordinates.Lon,
			&l.Climate, &elevation, &habitatsJSON, &l.EBirdRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		if elevation.Valid {
			e := elevation.Float64
			l.Elevation = &e
		}
		if err := fromJSON(habitatsJSON, &l.Habitats); err != nil {
			return nil, fmt.Errorf("location %s: %w", l.Name, err)
		}
		l.Hotspots = []models.Hotspot{}
		index[l.ID] = len(locations)
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hotspots, err := r.db.Query(`SELECT id, location_id, name, lat, lon, species_count,
		description, accessibility, facilities_json, best_season, habitats_json
		FROM hotspots ORDER BY location_id, sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query hotspots: %w", err)
	}
	defer hotspots.Close()

	for hotspots.Next() {
		var h models.Hotspot
		var locationID int64
		var facilitiesJSON, habitatsJSON string
		err := hotspots.Scan(&h.ID, &locationID, &h.Name, &h.Coordinates.Lat, &h.Coordinates.Lon,
			&h.SpeciesCount, &h.Description, &h.Accessibility, &facilitiesJSON, &h.BestSeason, &habitatsJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hotspot: %w", err)
		}
		if err := fromJSON(facilitiesJSON, &h.Facilities); err != nil {
			return nil, fmt.Errorf("hotspot %s: %w", h.Name, err)
		}
		if err := fromJSON(habitatsJSON, &h.Habitats); err != nil {
			return nil, fmt.Errorf("hotspot %s: %w", h.Name, err)
		}

		idx, ok := index[locationID]
		if !ok {
			continue
		}
		h.LocationName = locations[idx].Name
		locations[idx].Hotspots = append(locations[idx].Hotspots, h)
	}

	return locations, hotspots.Err()
}

func toJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return "[]"
	}
	return string(data)
}

func fromJSON(s string, v interface{}) error {
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("failed to decode JSON column: %w", err)
	}
	return nil
}
