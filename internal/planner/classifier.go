package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/jengzang/birding-planner-go/internal/models"
	"github.com/jengzang/birding-planner-go/internal/observation"
	"github.com/jengzang/birding-planner-go/internal/reference"
	"github.com/jengzang/birding-planner-go/internal/stats"
)

var visibilityScores = map[string]float64{
	models.VisibilityVeryLow: 0.2,
	models.VisibilityLow:     0.4,
	models.VisibilityMedium:  0.7,
	models.VisibilityHigh:    1.0,
}

// errNoSightings means the live source answered but reported nothing in the window
var errNoSightings = errors.New("no recent sightings")

// Classifier assigns difficulty tiers to species for a trip context
type Classifier struct {
	catalog  *reference.Catalog
	source   observation.Source
	settings Settings
}

// NewClassifier creates a classifier. source may be nil.
func NewClassifier(catalog *reference.Catalog, source observation.Source, settings Settings) *Classifier {
	return &Classifier{catalog: catalog, source: source, settings: settings}
}

// TierForRarity maps a rarity score in [0,1] to a tier using fixed cut points.
// A higher score never yields an easier tier.
func TierForRarity(rarity float64, cutPoints [4]float64) models.Tier {
	tier := models.TierCommonCompanion
	for _, cut := range cutPoints {
		if rarity >= cut {
			tier++
		}
	}
	return tier
}

// BaseRarity is the context-free rarity of a profile: one minus a commonness
// score built from occurrence rate, range breadth and visibility.
func BaseRarity(profile models.ReferenceSpecies) float64 {
	visibility, ok := visibilityScores[profile.Visibility]
	if !ok {
		visibility = visibilityScores[models.VisibilityMedium]
	}
	breadth := math.Min(float64(profile.RegionCount)/50, 1)
	commonness := profile.OccurrenceRate*0.5 + breadth*0.3 + visibility*0.2
	return stats.Clamp(1-commonness, 0, 1)
}

// Classify assigns a tier and confidence to name at location in month.
// When useLive is set and a source is configured, recent sightings shift the
// rarity score; any failure there is recorded on the result, never returned.
func (c *Classifier) Classify(ctx context.Context, name string, location models.Location, month time.Month, useLive bool) models.Species {
	profile := c.catalog.Profile(name)
	s := c.settings

	rarity := BaseRarity(profile)
	confidence := 0.3
	var insights []string

	if profile.Known {
		confidence = 0.5

		if len(profile.Regions) > 0 {
			if profile.FoundIn(location.Region) {
				confidence += 0.2
				insights = append(insights, fmt.Sprintf("Found in the %s region", location.Region))
			} else {
				rarity += s.OutOfRangePenalty
				insights = append(insights, fmt.Sprintf("Outside its usual range (%s)", strings.Join(profile.Regions, ", ")))
			}
		}

		if len(profile.ActiveMonths) > 0 {
			if profile.ActiveIn(month) {
				confidence += 0.15
				insights = append(insights, fmt.Sprintf("Active in %s", month))
			} else {
				rarity += s.OutOfSeasonPenalty
				insights = append(insights, fmt.Sprintf("Not usually present in %s", month))
			}
		}
	} else {
		insights = append(insights, fmt.Sprintf("No reference data for %s; classified conservatively", profile.Name))
	}

	degraded := false
	if useLive && c.source != nil {
		rate, err := c.communitySignal(ctx, profile, location, month)
		switch {
		case errors.Is(err, errNoSightings):
			insights = append(insights, fmt.Sprintf("No recent sightings reported near %s; classified from reference data", location.Name))
		case err != nil:
			degraded = true
			insights = append(insights, "Live observation data unavailable; classified from reference data")
		default:
			rarity += (0.5 - rate) * 2 * s.CommunityAdjustment
			confidence += 0.1
			insights = append(insights, fmt.Sprintf("Recent sighting rate near %s: %.0f%%", location.Name, rate*100))
		}
	}

	rarity = stats.Clamp(rarity, 0, 1)
	tier := TierForRarity(rarity, s.TierCutPoints)
	insights = append([]string{fmt.Sprintf("%s: %s", tier.Title(), tier.Challenge())}, insights...)

	return models.Species{
		Name:       profile.Name,
		Tier:       tier,
		TierTitle:  tier.Title(),
		Confidence: stats.Round(stats.Clamp(confidence, 0, 1), 3),
		Rarity:     stats.Round(rarity, 3),
		Insights:   insights,
		Known:      profile.Known,
		Degraded:   degraded,
	}
}

// communitySignal fetches recent sightings under a fixed timeout
func (c *Classifier) communitySignal(ctx context.Context, profile models.ReferenceSpecies, location models.Location, month time.Month) (float64, error) {
	timeout := c.settings.ObservationTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sightings, err := c.source.RecentSightings(ctx, observation.Query{
		Species:     profile.Name,
		SpeciesCode: profile.SpeciesCode,
		Region:      location.Region,
		RegionCode:  location.EBirdRegion,
		Days:        c.settings.ObservationWindowDays,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("[planner] live lookup for %s timed out after %v", profile.Name, timeout)
		} else {
			log.Printf("[planner] live lookup for %s failed: %v", profile.Name, err)
		}
		return 0, err
	}
	if len(sightings) == 0 {
		return 0, errNoSightings
	}

	return observation.SuccessRate(sightings, c.settings.ObservationWindowDays, month), nil
}
