package opt

import (
	"fmt"
	"math"
	"sort"
)

// Point is a planar coordinate in the same units as the route time budget.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (p Point) finite() bool { return finite(p.X) && finite(p.Y) }

// Load is a single transport request. It is a value type; operators copy it and
// never modify it.
type Load struct {
	ID      int   `json:"id" yaml:"id"`
	Pickup  Point `json:"pickup" yaml:"pickup"`
	Dropoff Point `json:"dropoff" yaml:"dropoff"`
}

// Catalog is the read-only set of loads a run plans over.
type Catalog struct {
	loads []Load
	index map[int]int
}

// NewCatalog validates loads and returns a Catalog holding its own copy of them.
// The catalog must be non-empty, ids must be unique and every coordinate finite.
func NewCatalog(loads []Load) (*Catalog, error) {
	if len(loads) == 0 {
		return nil, fmt.Errorf("new catalog: no loads: %w", ErrInvalidInput)
	}
	index := make(map[int]int, len(loads))
	for i, l := range loads {
		if _, dup := index[l.ID]; dup {
			return nil, fmt.Errorf("new catalog: duplicate load id %d: %w", l.ID, ErrInvalidInput)
		}
		if !l.Pickup.finite() || !l.Dropoff.finite() {
			return nil, fmt.Errorf("new catalog: load %d has non-finite coordinates: %w", l.ID, ErrArithmeticDegenerate)
		}
		if !finite(Distance(l.Pickup, l.Dropoff)) {
			return nil, fmt.Errorf("new catalog: load %d leg length overflows: %w", l.ID, ErrArithmeticDegenerate)
		}
		index[l.ID] = i
	}
	return &Catalog{loads: append([]Load(nil), loads...), index: index}, nil
}

// Len returns the number of loads.
func (c *Catalog) Len() int { return len(c.loads) }

// Loads returns a copy of the loads in catalog order.
func (c *Catalog) Loads() []Load { return append([]Load(nil), c.loads...) }

// Get looks up a load by id.
func (c *Catalog) Get(id int) (Load, bool) {
	i, ok := c.index[id]
	if !ok {
		return Load{}, false
	}
	return c.loads[i], true
}

// IDs returns the load ids in catalog order.
func (c *Catalog) IDs() []int {
	out := make([]int, len(c.loads))
	for i, l := range c.loads {
		out[i] = l.ID
	}
	return out
}

// checkGeometry rejects catalogs whose worst-case route cost from depot would
// overflow. Every leg is bounded by the diagonal of the bounding box of all
// coordinates, and a full route has 2n+1 legs.
func (c *Catalog) checkGeometry(depot Point) error {
	if !depot.finite() {
		return fmt.Errorf("check geometry: depot (%v,%v) is not finite: %w", depot.X, depot.Y, ErrArithmeticDegenerate)
	}
	lo, hi := depot, depot
	grow := func(p Point) {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	for _, l := range c.loads {
		grow(l.Pickup)
		grow(l.Dropoff)
	}
	diag := Distance(lo, hi)
	if !finite(diag) || !finite(diag*float64(2*len(c.loads)+1)) {
		return fmt.Errorf("check geometry: coordinate span too large for finite route costs: %w", ErrArithmeticDegenerate)
	}
	return nil
}

// IsPermutationOf reports whether cand holds every catalog load exactly once.
func IsPermutationOf(cand Candidate, c *Catalog) bool {
	if len(cand) != c.Len() {
		return false
	}
	got := cand.IDs()
	want := c.IDs()
	sort.Ints(got)
	sort.Ints(want)
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
