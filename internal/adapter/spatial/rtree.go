package spatial

import (
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/qinghao1/gojek/internal/core/domain"
)

const (
	dimensions = 2

	DefaultMinChildren = 25
	DefaultMaxChildren = 50
)

type entry struct {
	loc  domain.DriverLocation
	rect rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect {
	return e.rect
}

func newEntry(loc domain.DriverLocation) *entry {
	return &entry{
		loc:  loc,
		rect: toPoint(loc.Point).ToRect(0),
	}
}

func toPoint(p domain.Point) rtreego.Point {
	return rtreego.Point{p.Longitude, p.Latitude}
}

// Index is an R-tree over driver points, one entry per driver id.
type Index struct {
	mu   sync.RWMutex
	tree *rtreego.Rtree
	byID map[int]*entry
}

func NewIndex(minChildren, maxChildren int) *Index {
	if minChildren <= 0 {
		minChildren = DefaultMinChildren
	}
	if maxChildren <= minChildren {
		maxChildren = 2 * minChildren
	}
	return &Index{
		tree: rtreego.NewTree(dimensions, minChildren, maxChildren),
		byID: make(map[int]*entry),
	}
}

// Put inserts loc or replaces the entry already held for loc.ID.
func (ix *Index) Put(loc domain.DriverLocation) {
	next := newEntry(loc)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if prev, ok := ix.byID[loc.ID]; ok {
		ix.tree.Delete(prev)
	}
	ix.tree.Insert(next)
	ix.byID[loc.ID] = next
}

func (ix *Index) Get(id int) (domain.DriverLocation, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	e, ok := ix.byID[id]
	if !ok {
		return domain.DriverLocation{}, false
	}
	return e.loc, true
}

func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.byID)
}

// Nearest returns at most limit drivers ordered by distance to origin, ties
// broken by ascending id.
func (ix *Index) Nearest(origin domain.Point, limit int) []domain.NearbyDriver {
	if limit <= 0 {
		return []domain.NearbyDriver{}
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if limit > len(ix.byID) {
		limit = len(ix.byID)
	}
	if limit == 0 {
		return []domain.NearbyDriver{}
	}

	q := toPoint(origin)
	candidates := ix.tree.NearestNeighbors(limit, q)
	if len(candidates) == limit {
		// Other drivers may tie with the farthest neighbour; pull them all in so
		// the id tie-break decides who is cut.
		kth := origin.DistanceTo(candidates[len(candidates)-1].(*entry).loc.Point)
		candidates = ix.within(origin, kth)
	}

	out := make([]domain.NearbyDriver, 0, len(candidates))
	for _, c := range candidates {
		e := c.(*entry)
		out = append(out, domain.NearbyDriver{
			ID:        e.loc.ID,
			Longitude: e.loc.Point.Longitude,
			Latitude:  e.loc.Point.Latitude,
			Distance:  origin.DistanceTo(e.loc.Point),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].ID < out[j].ID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// within returns every entry whose distance to origin is at most d.
// Caller holds the read lock.
func (ix *Index) within(origin domain.Point, d float64) []rtreego.Spatial {
	// SearchIntersect ignores rectangles that only touch the query box, so pad it.
	pad := d*1e-9 + 1e-9
	box := toPoint(origin).ToRect(d + pad)

	return ix.tree.SearchIntersect(box, func(_ []rtreego.Spatial, obj rtreego.Spatial) (bool, bool) {
		return origin.DistanceTo(obj.(*entry).loc.Point) > d, false
	})
}
