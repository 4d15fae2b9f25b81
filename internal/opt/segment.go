package opt

import (
	"fmt"
	"math"
)

// Route is a depot-to-depot sub-sequence of the best candidate.
type Route struct {
	Loads []Load
	Cost  float64
}

// IDs returns the load ids in visiting order.
func (r Route) IDs() []int { return Candidate(r.Loads).IDs() }

// Overflow reports a single-load route whose own round trip exceeds maxRouteTime.
// Such a route cannot be split further and is emitted anyway.
func (r Route) Overflow(maxRouteTime float64) bool {
	return len(r.Loads) == 1 && r.Cost > maxRouteTime
}

// Segment cuts best, left to right, into routes whose cost stays within
// maxRouteTime. A load that would push the open route over budget closes it and
// opens the next one. A load that is over budget on its own still gets a route.
func Segment(best Candidate, depot Point, maxRouteTime float64) ([]Route, error) {
	if math.IsNaN(maxRouteTime) || maxRouteTime <= 0 {
		return nil, fmt.Errorf("segment: maxRouteTime must be > 0 (got %v): %w", maxRouteTime, ErrInvalidConfiguration)
	}
	routes := []Route{}
	current := []Load{}
	for _, l := range best {
		current = append(current, l)
		if len(current) > 1 && RouteCost(current, depot) > maxRouteTime {
			routes = append(routes, newRoute(current[:len(current)-1], depot))
			current = []Load{l}
		}
	}
	if len(current) > 0 {
		routes = append(routes, newRoute(current, depot))
	}
	return routes, nil
}

func newRoute(loads []Load, depot Point) Route {
	own := append([]Load(nil), loads...)
	return Route{Loads: own, Cost: RouteCost(own, depot)}
}
