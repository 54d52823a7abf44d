package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/jengzang/birding-planner-go/internal/reference"
)

// ReferenceStore is the persistent source of species and locations
type ReferenceStore interface {
	IsEmpty() (bool, error)
	Seed(species []models.ReferenceSpecies, locations []models.Location) error
	GetSpecies() ([]models.ReferenceSpecies, error)
	GetLocations() ([]models.Location, error)
}

// ReferenceService serves reference data and rebuilds the catalog on demand
type ReferenceService struct {
	catalogs *reference.Holder
	store    ReferenceStore
}

// NewReferenceService creates a new reference service
func NewReferenceService(catalogs *reference.Holder, store ReferenceStore) *ReferenceService {
	return &ReferenceService{catalogs: catalogs, store: store}
}

// LoadCatalog seeds an empty store with the built-in data and builds a catalog from it
func LoadCatalog(store ReferenceStore) (*reference.Catalog, error) {
	empty, err := store.IsEmpty()
	if err != nil {
		return nil, err
	}
	if empty {
		log.Printf("[reference] seeding built-in species and locations")
		if err := store.Seed(reference.DefaultSpecies(), reference.DefaultLocations()); err != nil {
			return nil, fmt.Errorf("failed to seed reference data: %w", err)
		}
	}

	species, err := store.GetSpecies()
	if err != nil {
		return nil, err
	}
	locations, err := store.GetLocations()
	if err != nil {
		return nil, err
	}

	catalog := reference.NewCatalog(species, locations)
	log.Printf("[reference] catalog loaded: %d species, %d locations", catalog.SpeciesCount(), catalog.LocationCount())
	return catalog, nil
}

// Reload rebuilds the catalog from the store and swaps it in
func (s *ReferenceService) Reload() (*reference.Catalog, error) {
	catalog, err := LoadCatalog(s.store)
	if err != nil {
		return nil, err
	}
	s.catalogs.Replace(catalog)
	return catalog, nil
}

// Species lists every known species
func (s *ReferenceService) Species() []models.ReferenceSpecies {
	return s.catalogs.Current().AllSpecies()
}

// Locations lists every supported base location
func (s *ReferenceService) Locations() []models.Location {
	return s.catalogs.Current().Locations()
}

// Location looks up a location by name
func (s *ReferenceService) Location(name string) (models.Location, bool) {
	return s.catalogs.Current().Location(strings.TrimSpace(name))
}
