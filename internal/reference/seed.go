package reference

import (
	"time"

	"github.com/jengzang/birding-planner-go/internal/models"
)

// Region names
const (
	RegionNortheast = "Northeast"
	RegionMidwest   = "Midwest"
	RegionSoutheast = "Southeast"
	RegionWestCoast = "West Coast"
)

var allYear = []time.Month{
	time.January, time.February, time.March, time.April, time.May, time.June,
	time.July, time.August, time.September, time.October, time.November, time.December,
}

func months(from, to time.Month) []time.Month {
	var out []time.Month
	for m := from; m <= to; m++ {
		out = append(out, m)
	}
	return out
}

// DefaultSpecies returns the built-in species reference table
func DefaultSpecies() []models.ReferenceSpecies {
	return []models.ReferenceSpecies{
		{
			Name:           "American Robin",
			ScientificName: "Turdus migratorius",
			SpeciesCode:    "amerob",
			BaselineTier:   models.TierCommonCompanion,
			OccurrenceRate: 0.85,
			RegionCount:    48,
			Visibility:     models.VisibilityHigh,
			ActiveMonths:   append(months(time.March, time.May), time.September, time.October),
			Regions:        []string{RegionNortheast, RegionMidwest, RegionWestCoast, RegionSoutheast},
			Habitats:       []string{"backyards", "parks", "forests", "meadows"},
			PeakActivity:   "dawn",
			Migration:      "partial migrant",
		},
		{
			Name:           "Northern Cardinal",
			ScientificName: "Cardinalis cardinalis",
			SpeciesCode:    "norcar",
			BaselineTier:   models.TierCommonCompanion,
			OccurrenceRate: 0.78,
			RegionCount:    35,
			Visibility:     models.VisibilityHigh,
			ActiveMonths:   allYear,
			Regions:        []string{RegionSoutheast, RegionMidwest, RegionNortheast},
			Habitats:       []string{"backyards", "woodlands", "thickets", "parks"},
			PeakActivity:   "morning",
			Migration:      "resident",
		},
		{
			Name:           "Blue Jay",
			ScientificName: "Cyanocitta cristata",
			SpeciesCode:    "blujay",
			BaselineTier:   models.TierCommonCompanion,
			OccurrenceRate: 0.80,
			RegionCount:    38,
			Visibility:     models.VisibilityHigh,
			ActiveMonths:   allYear,
			Regions:        []string{RegionNortheast, RegionMidwest, RegionSoutheast},
			Habitats:       []string{"forests", "woodlands", "backyards", "parks"},
			PeakActivity:   "morning",
			Migration:      "partial migrant",
		},
		{
			Name:           "Red-tailed Hawk",
			ScientificName: "Buteo jamaicensis",
			SpeciesCode:    "rethaw",
			BaselineTier:   models.TierRegionalCompanion,
			OccurrenceRate: 0.65,
			RegionCount:    50,
			Visibility:     models.VisibilityMedium,
			ActiveMonths:   allYear,
			Regions:        []string{models.AllRegions},
			Habitats:       []string{"meadows", "parks", "open country", "forests"},
			PeakActivity:   "midday",
			Migration:      "resident",
		},
		{
			Name:           "American Goldfinch",
			ScientificName: "Spinus tristis",
			SpeciesCode:    "amegfi",
			BaselineTier:   models.TierCommonCompanion,
			OccurrenceRate: 0.75,
			RegionCount:    45,
			Visibility:     models.VisibilityHigh,
			ActiveMonths:   allYear,
			Regions:        []string{RegionNortheast, RegionMidwest, RegionWestCoast, RegionSoutheast},
			Habitats:       []string{"meadows", "backyards", "parks"},
			PeakActivity:   "morning",
			Migration:      "short-distance migrant",
		},
		{
			Name:           "Baltimore Oriole",
			ScientificName: "Icterus galbula",
			SpeciesCode:    "balori",
			BaselineTier:   models.TierSeasonalVisitor,
			OccurrenceRate: 0.45,
			RegionCount:    25,
			Visibility:     models.VisibilityMedium,
			ActiveMonths:   months(time.May, time.August),
			Regions:        []string{RegionNortheast, RegionMidwest},
			Habitats:       []string{"forests", "parks", "woodlands"},
			PeakActivity:   "morning",
			Migration:      "neotropical migrant",
		},
		{
			Name:           "Scarlet Tanager",
			ScientificName: "Piranga olivacea",
			SpeciesCode:    "scatan",
			BaselineTier:   models.TierSeasonalVisitor,
			OccurrenceRate: 0.35,
			RegionCount:    30,
			Visibility:     models.VisibilityMedium,
			ActiveMonths:   months(time.April, time.September),
			Regions:        []string{RegionNortheast, RegionMidwest, RegionSoutheast},
			Habitats:       []string{"forests"},
			PeakActivity:   "morning",
			Migration:      "neotropical migrant",
		},
		{
			Name:           "Cerulean Warbler",
			ScientificName: "Setophaga cerulea",
			SpeciesCode:    "cerwar",
			BaselineTier:   models.TierElusiveExplorer,
			OccurrenceRate: 0.25,
			RegionCount:    20,
			Visibility:     models.VisibilityLow,
			ActiveMonths:   months(time.April, time.September),
			Regions:        []string{RegionNortheast, RegionMidwest, RegionSoutheast},
			Habitats:       []string{"forests", "canopy"},
			PeakActivity:   "dawn",
			Migration:      "neotropical migrant",
		},
		{
			Name:           "Kirtland's Warbler",
			ScientificName: "Setophaga kirtlandii",
			SpeciesCode:    "kirwar",
			BaselineTier:   models.TierLegendaryQuest,
			OccurrenceRate: 0.05,
			RegionCount:    2,
			Visibility:     models.VisibilityLow,
			ActiveMonths:   months(time.May, time.September),
			Regions:        []string{RegionMidwest},
			Habitats:       []string{"jack pine", "forests"},
			PeakActivity:   "dawn",
			Migration:      "neotropical migrant",
		},
		{
			Name:           "Ivory-billed Woodpecker",
			ScientificName: "Campephilus principalis",
			SpeciesCode:    "ivbwoo",
			BaselineTier:   models.TierLegendaryQuest,
			OccurrenceRate: 0.01,
			RegionCount:    1,
			Visibility:     models.VisibilityVeryLow,
			ActiveMonths:   allYear,
			Regions:        []string{RegionSoutheast},
			Habitats:       []string{"swamps", "bottomland forests"},
			PeakActivity:   "morning",
			Migration:      "resident",
		},
	}
}

func elevation(m float64) *float64 {
	return &m
}

// DefaultLocations returns the built-in location and hotspot reference table
func DefaultLocations() []models.Location {
	return []models.Location{
		{
			Name:        "New York",
			Region:      RegionNortheast,
			Coordinates: models.Coordinates{Lat: 40.7128, Lon: -74.0060},
			Climate:     "humid continental",
			Elevation:   elevation(10),
			Habitats:    []string{"parks", "backyards", "wetlands", "coastal", "meadows", "urban"},
			EBirdRegion: "US-NY",
			Hotspots: []models.Hotspot{
				{
					Name:          "Central Park",
					Coordinates:   models.Coordinates{Lat: 40.7829, Lon: -73.9654},
					SpeciesCount:  230,
					Description:   "Urban oasis with the Ramble woodland, lakes and lawns",
					Accessibility: "Excellent - paved paths throughout",
					Facilities:    []string{"restrooms", "visitor center", "cafes"},
					BestSeason:    "spring",
					Habitats:      []string{"parks", "woodlands", "meadows"},
				},
				{
					Name:          "Prospect Park",
					Coordinates:   models.Coordinates{Lat: 40.6602, Lon: -73.9690},
					SpeciesCount:  180,
					Description:   "Large park with a lake, woodlands and meadows",
					Accessibility: "Good - mostly paved paths",
					Facilities:    []string{"restrooms", "boathouse"},
					BestSeason:    "spring",
					Habitats:      []string{"parks", "woodlands", "wetlands"},
				},
				{
					Name:          "Jamaica Bay Wildlife Refuge",
					Coordinates:   models.Coordinates{Lat: 40.6171, Lon: -73.8256},
					SpeciesCount:  320,
					Description:   "Coastal wetland ponds, a major shorebird stopover",
					Accessibility: "Moderate - gravel trails",
					Facilities:    []string{"visitor center", "restrooms"},
					BestSeason:    "fall",
					Habitats:      []string{"wetlands", "coastal"},
				},
			},
		},
		{
			Name:        "Boston",
			Region:      RegionNortheast,
			Coordinates: models.Coordinates{Lat: 42.3601, Lon: -71.0589},
			Climate:     "humid continental",
			Elevation:   elevation(43),
			Habitats:    []string{"forests", "parks", "coastal", "wetlands", "backyards"},
			EBirdRegion: "US-MA",
			Hotspots: []models.Hotspot{
				{
					Name:          "Mount Auburn Cemetery",
					Coordinates:   models.Coordinates{Lat: 42.3708, Lon: -71.1459},
					SpeciesCount:  200,
					Description:   "Historic wooded cemetery known for spring warbler migration",
					Accessibility: "Good - paved roads",
					Facilities:    []string{"restrooms"},
					BestSeason:    "spring",
					Habitats:      []string{"forests", "parks"},
				},
				{
					Name:          "Parker River National Wildlife Refuge",
					Coordinates:   models.Coordinates{Lat: 42.7645, Lon: -70.8104},
					SpeciesCount:  280,
					Description:   "Barrier island with salt marsh, dunes and beach",
					Accessibility: "Good - boardwalks and observation towers",
					Facilities:    []string{"visitor center", "restrooms", "observation towers"},
					BestSeason:    "fall",
					Habitats:      []string{"coastal", "wetlands"},
				},
				{
					Name:          "Boston Common",
					Coordinates:   models.Coordinates{Lat: 42.3550, Lon: -71.0656},
					SpeciesCount:  150,
					Description:   "Historic downtown park and public garden",
					Accessibility: "Excellent - paved paths",
					Facilities:    []string{"restrooms", "cafes"},
					BestSeason:    "spring",
					Habitats:      []string{"parks", "backyards"},
				},
			},
		},
		{
			Name:        "Chicago",
			Region:      RegionMidwest,
			Coordinates: models.Coordinates{Lat: 41.8781, Lon: -87.6298},
			Climate:     "humid continental",
			Elevation:   elevation(181),
			Habitats:    []string{"parks", "forests", "meadows", "lakeshore", "backyards", "wetlands"},
			EBirdRegion: "US-IL",
			Hotspots: []models.Hotspot{
				{
					Name:          "Montrose Point Bird Sanctuary",
					Coordinates:   models.Coordinates{Lat: 41.9631, Lon: -87.6358},
					SpeciesCount:  250,
					Description:   "Lakefront migrant trap on Lake Michigan",
					Accessibility: "Good - packed trails",
					Facilities:    []string{"restrooms"},
					BestSeason:    "spring",
					Habitats:      []string{"lakeshore", "meadows"},
				},
				{
					Name:          "Jackson Park",
					Coordinates:   models.Coordinates{Lat: 41.7831, Lon: -87.5810},
					SpeciesCount:  180,
					Description:   "Wooded island surrounded by lagoons",
					Accessibility: "Good - paved paths",
					Facilities:    []string{"restrooms"},
					BestSeason:    "spring",
					Habitats:      []string{"parks", "wetlands", "woodlands"},
				},
				{
					Name:          "North Park Village Nature Center",
					Coordinates:   models.Coordinates{Lat: 41.9930, Lon: -87.7210},
					SpeciesCount:  160,
					Description:   "Woodland, prairie and wetland restoration site",
					Accessibility: "Good - wood chip trails",
					Facilities:    []string{"nature center", "restrooms"},
					BestSeason:    "summer",
					Habitats:      []string{"forests", "meadows", "wetlands"},
				},
			},
		},
		{
			Name:        "Miami",
			Region:      RegionSoutheast,
			Coordinates: models.Coordinates{Lat: 25.7617, Lon: -80.1918},
			Climate:     "tropical monsoon",
			Elevation:   elevation(2),
			Habitats:    []string{"wetlands", "coastal", "tropical", "parks", "mangroves"},
			EBirdRegion: "US-FL",
			Hotspots: []models.Hotspot{
				{
					Name:          "Everglades National Park",
					Coordinates:   models.Coordinates{Lat: 25.3950, Lon: -80.5830},
					SpeciesCount:  350,
					Description:   "Vast subtropical wetland with sawgrass prairie and mangroves",
					Accessibility: "Moderate - long drives between trailheads",
					Facilities:    []string{"visitor center", "restrooms", "boardwalks"},
					BestSeason:    "winter",
					Habitats:      []string{"wetlands", "mangroves", "tropical"},
				},
				{
					Name:          "Bill Baggs Cape Florida State Park",
					Coordinates:   models.Coordinates{Lat: 25.6672, Lon: -80.1571},
					SpeciesCount:  200,
					Description:   "Coastal hammock at the tip of Key Biscayne",
					Accessibility: "Good - paved and sandy paths",
					Facilities:    []string{"restrooms", "cafes"},
					BestSeason:    "fall",
					Habitats:      []string{"coastal", "tropical"},
				},
				{
					Name:          "Fairchild Tropical Botanic Garden",
					Coordinates:   models.Coordinates{Lat: 25.6773, Lon: -80.2760},
					SpeciesCount:  180,
					Description:   "Botanic garden with tropical plantings and lakes",
					Accessibility: "Excellent - paved paths",
					Facilities:    []string{"restrooms", "cafes", "visitor center"},
					BestSeason:    "winter",
					Habitats:      []string{"tropical", "parks"},
				},
			},
		},
		{
			Name:        "San Francisco",
			Region:      RegionWestCoast,
			Coordinates: models.Coordinates{Lat: 37.7749, Lon: -122.4194},
			Climate:     "mediterranean",
			Elevation:   elevation(16),
			Habitats:    []string{"coastal", "parks", "wetlands", "forests", "meadows", "chaparral"},
			EBirdRegion: "US-CA",
			Hotspots: []models.Hotspot{
				{
					Name:          "Golden Gate Park",
					Coordinates:   models.Coordinates{Lat: 37.7694, Lon: -122.4862},
					SpeciesCount:  200,
					Description:   "Urban park with lakes, meadows and cypress groves",
					Accessibility: "Excellent - paved paths",
					Facilities:    []string{"restrooms", "visitor center"},
					BestSeason:    "fall",
					Habitats:      []string{"parks", "forests"},
				},
				{
					Name:          "Point Reyes National Seashore",
					Coordinates:   models.Coordinates{Lat: 38.0723, Lon: -122.8766},
					SpeciesCount:  450,
					Description:   "Coastal headlands, estuaries and grasslands",
					Accessibility: "Moderate - long drives and exposed trails",
					Facilities:    []string{"visitor center", "restrooms"},
					BestSeason:    "fall",
					Habitats:      []string{"coastal", "meadows", "wetlands"},
				},
				{
					Name:          "San Francisco Bay",
					Coordinates:   models.Coordinates{Lat: 37.6500, Lon: -122.2000},
					SpeciesCount:  300,
					Description:   "Tidal marshes and mudflats along the bay shore",
					Accessibility: "Good - levee trails",
					Facilities:    []string{"visitor center"},
					BestSeason:    "winter",
					Habitats:      []string{"wetlands", "coastal"},
				},
			},
		},
	}
}

// DefaultCatalog builds a catalog from the built-in tables
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultSpecies(), DefaultLocations())
}
