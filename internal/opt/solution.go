package opt

// Solution is the planner output: the best order found and its split into routes.
type Solution struct {
	Routes []Route
	Order  Candidate
	// Cost is the fitness of Order treated as one continuous route.
	Cost float64
}

// RouteIDs returns each route as its ordered load ids.
func (s Solution) RouteIDs() [][]int {
	out := make([][]int, len(s.Routes))
	for i, r := range s.Routes {
		out[i] = r.IDs()
	}
	return out
}

// TotalRouteCost sums the depot-to-depot cost of every route.
func (s Solution) TotalRouteCost() float64 {
	total := 0.0
	for _, r := range s.Routes {
		total += r.Cost
	}
	return total
}

// OverflowCount counts singleton routes over budget.
func (s Solution) OverflowCount(maxRouteTime float64) int {
	n := 0
	for _, r := range s.Routes {
		if r.Overflow(maxRouteTime) {
			n++
		}
	}
	return n
}
