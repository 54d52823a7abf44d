package stats

// AtLeastOnce returns the probability that at least one of several independent
// attempts succeeds: 1 - prod(1 - p).
func AtLeastOnce(probs []float64) float64 {
	if len(probs) == 0 {
		return 0
	}
	miss := 1.0
	for _, p := range probs {
		miss *= 1 - Clamp(p, 0, 1)
	}
	return 1 - miss
}

// Diminishing returns the success probability of visiting n stops when a single
// stop succeeds with probability base. Extra stops close part of the remaining gap:
// 30% with two stops, 50% with three, 60% with four or more. The result is capped
// at ceiling.
func Diminishing(base float64, n int, ceiling float64) float64 {
	if n <= 0 {
		return 0
	}
	p := Clamp(base, 0, 1)
	switch {
	case n == 2:
		p += (1 - p) * 0.3
	case n == 3:
		p += (1 - p) * 0.5
	case n >= 4:
		p += (1 - p) * 0.6
	}
	if p > ceiling {
		return ceiling
	}
	return p
}
