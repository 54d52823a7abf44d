package planner

import (
	"fmt"
	"strings"

	"github.com/jengzang/birding-planner-go/internal/models"
)

var habitatAdvice = []struct {
	keywords []string
	advice   string
}{
	{[]string{"park"}, "Walk the park trails slowly and listen for calls"},
	{[]string{"wetland", "marsh", "mangrove"}, "Scan the wetland edges and bring a spotting scope"},
	{[]string{"coastal", "beach", "shore"}, "Check the shoreline around high tide"},
	{[]string{"forest", "woodland", "canopy"}, "Watch the canopy for movement and listen for song"},
	{[]string{"lake"}, "Walk the lakefront for migrants resting after the crossing"},
	{[]string{"meadow", "prairie", "grassland"}, "Check fence lines and open fields from the edges"},
}

// hotspotAdvice builds recommendations from a hotspot's habitats, facilities and access
func hotspotAdvice(h models.Hotspot, habitats []string) []string {
	text := strings.ToLower(strings.Join(habitats, " ") + " " + h.Description)

	var out []string
	for _, a := range habitatAdvice {
		for _, kw := range a.keywords {
			if strings.Contains(text, kw) {
				out = append(out, a.advice)
				break
			}
		}
	}

	if len(h.Facilities) > 0 {
		out = append(out, "Facilities: "+strings.Join(h.Facilities, ", "))
	}
	if h.Accessibility != "" {
		out = append(out, "Access: "+h.Accessibility)
	}
	if h.BestSeason != "" {
		out = append(out, "Best season: "+h.BestSeason)
	}
	return out
}

// speciesAdvice adds target-specific notes for a stop
func speciesAdvice(hosted []string, tiers map[string]models.Tier) []string {
	if len(hosted) == 0 {
		return []string{"Few target species are expected here; treat it as a scouting stop"}
	}
	var out []string
	for _, name := range hosted {
		if tiers[name] >= models.TierElusiveExplorer {
			out = append(out, fmt.Sprintf("Allow extra time to search for %s", name))
		}
	}
	return out
}
