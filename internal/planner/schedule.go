package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/jengzang/birding-planner-go/internal/models"
)

// timeWindow is a viewing window in minutes after midnight
type timeWindow struct {
	start  int
	length int
}

func (w timeWindow) String() string {
	return clock(w.start) + " - " + clock(w.start+w.length)
}

func clock(minutes int) string {
	t := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
	return t.Format("3:04 PM")
}

// defaultWindow is the early-morning template, 6:00 AM - 9:00 AM
var defaultWindow = timeWindow{start: 6 * 60, length: 180}

// peakWindows shift the template to a species' peak activity period
var peakWindows = map[string]timeWindow{
	"dawn":    {start: 5*60 + 30, length: 180},
	"morning": {start: 7 * 60, length: 180},
	"midday":  {start: 11 * 60, length: 180},
	"evening": {start: 16 * 60, length: 180},
	"night":   {start: 20 * 60, length: 180},
}

// dayWindows are the consecutive visit slots of a multi-day itinerary day
var dayWindows = []timeWindow{
	{start: 6 * 60, length: 180},
	{start: 9*60 + 30, length: 150},
	{start: 12*60 + 30, length: 150},
}

func dayWindow(visit int) timeWindow {
	if visit < len(dayWindows) {
		return dayWindows[visit]
	}
	last := dayWindows[len(dayWindows)-1]
	return timeWindow{start: last.start + (visit-len(dayWindows)+1)*180, length: 150}
}

func viewingSchedule(w timeWindow, hours float64) models.ViewingSchedule {
	lo := math.Floor(hours)
	if lo < 1 {
		lo = 1
	}
	return models.ViewingSchedule{
		Window:   w.String(),
		Duration: fmt.Sprintf("%d-%d hours", int(lo), int(lo)+1),
		Hours:    hours,
	}
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	h, m := minutes/60, minutes%60
	unit := "hours"
	if h == 1 {
		unit = "hour"
	}
	if m == 0 {
		return fmt.Sprintf("%d %s", h, unit)
	}
	return fmt.Sprintf("%d %s %d minutes", h, unit, m)
}

func formatHours(hours float64) string {
	if hours >= 24 {
		days := int(hours / 24)
		rest := hours - float64(days*24)
		return fmt.Sprintf("%d days %.1f hours", days, rest)
	}
	return fmt.Sprintf("%.1f hours", hours)
}

func travelMinutes(km, speedKmh float64) int {
	if km <= 0 || speedKmh <= 0 {
		return 0
	}
	return int(math.Round(km / speedKmh * 60))
}
