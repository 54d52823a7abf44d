package reference

import (
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jengzang/birding-planner-go/internal/models"
)

// Catalog is the read-only species and location reference data.
// It is built once and never mutated, so concurrent reads need no locking.
type Catalog struct {
	species       map[string]models.ReferenceSpecies
	speciesOrder  []string
	locations     map[string]models.Location
	locationOrder []string
}

// NewCatalog builds a catalog from copies of the given records
func NewCatalog(species []models.ReferenceSpecies, locations []models.Location) *Catalog {
	c := &Catalog{
		species:   make(map[string]models.ReferenceSpecies, len(species)),
		locations: make(map[string]models.Location, len(locations)),
	}

	for _, s := range species {
		key := normalize(s.Name)
		if _, exists := c.species[key]; !exists {
			c.speciesOrder = append(c.speciesOrder, key)
		}
		s.Known = true
		c.species[key] = cloneSpecies(s)
	}

	for _, l := range locations {
		key := normalize(l.Name)
		if _, exists := c.locations[key]; !exists {
			c.locationOrder = append(c.locationOrder, key)
		}
		c.locations[key] = cloneLocation(l)
	}

	return c
}

// Species looks up a species by name (case-insensitive)
func (c *Catalog) Species(name string) (models.ReferenceSpecies, bool) {
	s, ok := c.species[normalize(name)]
	if !ok {
		return models.ReferenceSpecies{}, false
	}
	return cloneSpecies(s), true
}

// Profile returns the reference profile for name, or a conservative mid-range
// profile flagged as unknown when the species is not in the catalog.
func (c *Catalog) Profile(name string) models.ReferenceSpecies {
	if s, ok := c.Species(name); ok {
		return s
	}
	return UnknownProfile(name)
}

// UnknownProfile is the profile used for species without reference data
func UnknownProfile(name string) models.ReferenceSpecies {
	return models.ReferenceSpecies{
		Name:           strings.TrimSpace(name),
		BaselineTier:   models.TierSeasonalVisitor,
		OccurrenceRate: 0.5,
		RegionCount:    25,
		Visibility:     models.VisibilityMedium,
		ActiveMonths:   []time.Month{},
		Regions:        []string{},
		Habitats:       []string{},
		Known:          false,
	}
}

// Location looks up a location by name (case-insensitive)
func (c *Catalog) Location(name string) (models.Location, bool) {
	l, ok := c.locations[normalize(name)]
	if !ok {
		return models.Location{}, false
	}
	return cloneLocation(l), true
}

// Locations returns all locations in load order
func (c *Catalog) Locations() []models.Location {
	out := make([]models.Location, 0, len(c.locationOrder))
	for _, key := range c.locationOrder {
		out = append(out, cloneLocation(c.locations[key]))
	}
	return out
}

// AllSpecies returns all species sorted by name
func (c *Catalog) AllSpecies() []models.ReferenceSpecies {
	out := make([]models.ReferenceSpecies, 0, len(c.speciesOrder))
	for _, key := range c.speciesOrder {
		out = append(out, cloneSpecies(c.species[key]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SpeciesCount returns the number of species in the catalog
func (c *Catalog) SpeciesCount() int {
	return len(c.species)
}

// LocationCount returns the number of locations in the catalog
func (c *Catalog) LocationCount() int {
	return len(c.locations)
}

// Holder publishes the current catalog and lets it be replaced atomically on reload
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder creates a holder with an initial catalog
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.current.Store(c)
	return h
}

// Current returns the active catalog
func (h *Holder) Current() *Catalog {
	return h.current.Load()
}

// Replace swaps in a new catalog
func (h *Holder) Replace(c *Catalog) {
	h.current.Store(c)
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func cloneSpecies(s models.ReferenceSpecies) models.ReferenceSpecies {
	s.ActiveMonths = append([]time.Month{}, s.ActiveMonths...)
	s.Regions = append([]string{}, s.Regions...)
	s.Habitats = append([]string{}, s.Habitats...)
	return s
}

func cloneLocation(l models.Location) models.Location {
	if l.Elevation != nil {
		e := *l.Elevation
		l.Elevation = &e
	}
	l.Habitats = append([]string{}, l.Habitats...)
	hotspots := make([]models.Hotspot, len(l.Hotspots))
	for i, h := range l.Hotspots {
		h.Facilities = append([]string{}, h.Facilities...)
		h.Habitats = append([]string{}, h.Habitats...)
		if h.LocationName == "" {
			h.LocationName = l.Name
		}
		hotspots[i] = h
	}
	l.Hotspots = hotspots
	return l
}
