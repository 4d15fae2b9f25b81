package opt

import "math"

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// RouteCost is the travel cost of serving loads in order from depot and returning.
// Each load contributes the deadhead leg to its pickup plus the laden leg to its
// dropoff; the final leg goes back to the depot. An empty route costs 0.
func RouteCost(loads []Load, depot Point) float64 {
	total := 0.0
	cur := depot
	for _, l := range loads {
		total += Distance(cur, l.Pickup) + Distance(l.Pickup, l.Dropoff)
		cur = l.Dropoff
	}
	total += Distance(cur, depot)
	return total
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
