package urbansim

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
)

/* Barriers stuff */

// Travel weight sentinel making edge effectively impassable for routing
const barrierTravelWeight = 999999.0

// Padding (degrees) for spatial index extent
const quadtreePadding = 0.001

// edgeMidpoint implements orb.Pointer for spatial index over network edges
type edgeMidpoint struct {
	point  orb.Point
	edgeID NetworkEdgeID
}

func (em edgeMidpoint) Point() orb.Point {
	return em.point
}

// ApplyBarriers raises travel weight of edge closest to each given barrier point making it effectively impassable.
// Reverse edge (if present) gets blocked too. Barriers outside network extent are ignored. Idempotent.
// Returns number of blocked edges
func ApplyBarriers(net *RoadNetwork, barriers []GeoPoint, verbose bool) int {
	if net == nil || len(barriers) == 0 || net.EdgesCount() == 0 {
		return 0
	}
	if verbose {
		fmt.Printf("Applying barriers...")
	}
	st := time.Now()

	bound := net.Bound()
	qtBound := orb.Bound{
		Min: orb.Point{bound.Min.Lon() - quadtreePadding, bound.Min.Lat() - quadtreePadding},
		Max: orb.Point{bound.Max.Lon() + quadtreePadding, bound.Max.Lat() + quadtreePadding},
	}
	qt := quadtree.New(qtBound)
	for _, edge := range net.edges {
		if len(edge.geom) == 0 {
			continue
		}
		if err := qt.Add(edgeMidpoint{point: edge.midpoint(), edgeID: edge.ID}); err != nil {
			continue
		}
	}

	blocked := 0
	for _, barrier := range barriers {
		pt := orb.Point{barrier.Lon, barrier.Lat}
		if !bound.Contains(pt) {
			continue
		}
		found := qt.Find(pt)
		if found == nil {
			continue
		}
		edge := net.edges[found.(edgeMidpoint).edgeID]
		if edge.travelWeight < barrierTravelWeight {
			edge.travelWeight = barrierTravelWeight
			blocked++
		}
		if reverse := net.EdgeBetween(edge.targetNodeID, edge.sourceNodeID); reverse != nil && reverse.travelWeight < barrierTravelWeight {
			reverse.travelWeight = barrierTravelWeight
			blocked++
		}
	}
	if verbose {
		fmt.Printf("Done in %v\n\tBlocked edges: %d\n", time.Since(st), blocked)
	}
	return blocked
}
