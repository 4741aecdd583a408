package visualizer

// topology maps logical LED roles onto physical strip indices. The top and
// bottom indicator swap places when the strip is inverted; the middle range
// stays at physical [1, count-2] either way, with logical index 0 nearest
// the top.
type topology struct {
	count       int
	top         int
	bottom      int
	middleStart int
	numMiddle   int
}

// newTopology derives the role mapping from the configured strip. Counts
// below 3 are clamped to a degenerate indicators-only topology instead of
// producing negative middle ranges; configuration validation rejects such
// counts upstream.
func newTopology(count int, invert bool) topology {
	t := topology{
		count:       count,
		middleStart: 1,
	}

	if count < 1 {
		return t
	}

	t.top = 0
	t.bottom = count - 1

	if invert {
		t.top, t.bottom = t.bottom, t.top
	}

	if count >= 3 {
		t.numMiddle = count - 2
	}

	return t
}
