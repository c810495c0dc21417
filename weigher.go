package urbansim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"
)

/* Destination weighing stuff */

const (
	// Average space (meters) single vehicle takes on the road
	vehicleSpaceMeters = 7.0
	// Radius (degrees) around network centroid getting extra attraction during morning peak
	morningCenterRadius = 0.008
	// Attraction multiplier for nodes around centroid during morning peak
	morningCenterBoost = 8.0
)

// AssignEdgeCapacities derives vehicle capacity for every edge from its length
func AssignEdgeCapacities(net *RoadNetwork, verbose bool) {
	if verbose {
		fmt.Printf("Assigning edge capacities...")
	}
	st := time.Now()
	for _, edge := range net.edges {
		capacity := int(math.Floor(edge.lengthMeters / vehicleSpaceMeters))
		if capacity < 1 {
			capacity = 1
		}
		edge.capacity = capacity
	}
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}
}

// AttractionDistribution is a destination sampling distribution over network nodes.
// It is standalone output of the weighing step, the network itself is left untouched
type AttractionDistribution struct {
	nodeIDs []NetworkNodeID
	weights []float64
	prefix  []float64
	total   float64
}

// attractionDistributionFromWeights builds sampling distribution for given nodes and their raw weights.
// Node identifiers must be sorted in ascending order
func attractionDistributionFromWeights(nodeIDs []NetworkNodeID, weights []float64) *AttractionDistribution {
	dist := &AttractionDistribution{
		nodeIDs: nodeIDs,
		weights: weights,
		prefix:  make([]float64, len(weights)),
	}
	for i := range weights {
		dist.total += weights[i]
		dist.prefix[i] = dist.total
	}
	return dist
}

// Weight returns raw attraction weight assigned to the node (0 for unknown node)
func (dist *AttractionDistribution) Weight(id NetworkNodeID) float64 {
	idx := sort.Search(len(dist.nodeIDs), func(i int) bool { return dist.nodeIDs[i] >= id })
	if idx < len(dist.nodeIDs) && dist.nodeIDs[idx] == id {
		return dist.weights[idx]
	}
	return 0
}

// Sample picks node by attraction weight via prefix sums.
// Falls back to uniform pick when no positive weights were assigned
func (dist *AttractionDistribution) Sample(rng *rand.Rand) NetworkNodeID {
	if dist.total <= 0 {
		return dist.nodeIDs[rng.Intn(len(dist.nodeIDs))]
	}
	r := rng.Float64() * dist.total
	idx := sort.SearchFloat64s(dist.prefix, r)
	if idx >= len(dist.nodeIDs) {
		idx = len(dist.nodeIDs) - 1
	}
	return dist.nodeIDs[idx]
}

// ComputeAttractionDistribution derives destination attraction distribution over network nodes.
// Base weight grows with node degree. During morning peak nodes around the network
// centroid get boosted modeling commute towards the center
func ComputeAttractionDistribution(net *RoadNetwork, timeOfDay TimeOfDay, verbose bool) *AttractionDistribution {
	if verbose {
		fmt.Printf("Computing attraction distribution...")
	}
	st := time.Now()
	nodeIDs := net.NodeIDs()
	points := make([]GeoPoint, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		points = append(points, net.nodes[id].GeoPoint())
	}
	centroid := coordinateCentroid(points)
	weights := make([]float64, len(nodeIDs))
	for i, id := range nodeIDs {
		node := net.nodes[id]
		weight := float64(node.Degree() + 1)
		if timeOfDay == TIME_MORNING && findDistance(node.GeoPoint(), centroid) < morningCenterRadius {
			weight *= morningCenterBoost
		}
		weights[i] = weight
	}
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}
	return attractionDistributionFromWeights(nodeIDs, weights)
}
