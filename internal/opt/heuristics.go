package opt

// ImproveOrder2Opt reverses sub-sequences of the load order while that strictly
// lowers RouteCost. Loads keep their own pickup-to-dropoff direction; only the
// visiting order changes.
func ImproveOrder2Opt(c Candidate, depot Point, iterations int) Candidate {
	if iterations <= 0 {
		iterations = 1
	}
	best := c.Clone()
	bestCost := RouteCost(best, depot)
	n := len(best)
	for it := 0; it < iterations; it++ {
		improved := false
		for i := 0; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				cand := twoOptSwap(best, i, k)
				d := RouteCost(cand, depot)
				if d+1e-9 < bestCost {
					best = cand
					bestCost = d
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return best
}

func twoOptSwap(ord Candidate, i, k int) Candidate {
	out := make(Candidate, len(ord))
	copy(out, ord[:i])
	// reverse i..k
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = ord[j]
		pos++
	}
	copy(out[pos:], ord[k+1:])
	return out
}
