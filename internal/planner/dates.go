package planner

import (
	"regexp"
	"strings"
	"time"
)

// DefaultMonth is used when a date descriptor cannot be interpreted
const DefaultMonth = time.April

var isoDatePattern = regexp.MustCompile(`\b(\d{4})-(\d{1,2})(?:-(\d{1,2}))?\b`)

var seasonMonths = map[string]time.Month{
	"spring": time.April,
	"summer": time.July,
	"fall":   time.October,
	"autumn": time.October,
	"winter": time.January,
}

var monthNames = func() map[string]time.Month {
	m := make(map[string]time.Month, 36)
	for i := time.January; i <= time.December; i++ {
		name := strings.ToLower(i.String())
		m[name] = i
		m[name[:3]] = i
	}
	m["sept"] = time.September
	return m
}()

// ParseMonth reads a loose date descriptor ("Spring 2024", "May", "2024-05-12",
// "late sept") and returns the month it points at.
func ParseMonth(descriptor string) time.Month {
	s := strings.ToLower(strings.TrimSpace(descriptor))
	if s == "" {
		return DefaultMonth
	}

	if match := isoDatePattern.FindStringSubmatch(s); match != nil {
		if t, err := time.Parse("2006-1", match[1]+"-"+strings.TrimLeft(match[2], "0")); err == nil {
			return t.Month()
		}
	}

	words := strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	for _, w := range words {
		if m, ok := monthNames[w]; ok {
			return m
		}
	}
	for _, w := range words {
		if m, ok := seasonMonths[w]; ok {
			return m
		}
	}

	return DefaultMonth
}
