package game

import "github.com/tomz197/bubblepop/internal/object"

// Hit is a bubble struck by a fire, with the points it earned.
type Hit struct {
	Bubble object.Bubble
	Points int
}

// ResolveHits strikes every bubble whose horizontal span contains x and removes
// them from the registry. Vertical position is not checked.
func ResolveHits(reg *Registry, x float64) []Hit {
	var hits []Hit
	for _, b := range reg.bubbles {
		if b.Spans(x) {
			hits = append(hits, Hit{Bubble: b, Points: Points(b.Color)})
		}
	}
	if len(hits) == 0 {
		return nil
	}

	ids := make(map[int]struct{}, len(hits))
	for _, h := range hits {
		ids[h.Bubble.ID] = struct{}{}
	}
	reg.RemoveByIDs(ids)
	return hits
}

// TotalPoints sums the points of hits.
func TotalPoints(hits []Hit) int {
	total := 0
	for _, h := range hits {
		total += h.Points
	}
	return total
}
