package urbansim

/* Occupancy stuff */

// How often (in ticks) occupancy snapshot gets refreshed
const occupancyRefreshTicks = 5

// Capacity assumed for edges with no capacity assigned
const defaultEdgeCapacity = 5

// OccupancyEstimator keeps passenger car equivalent load per edge refreshed on schedule
type OccupancyEstimator struct {
	loads map[edgeKey]float64
}

// NewOccupancyEstimator creates estimator with initialized empty snapshot
func NewOccupancyEstimator() *OccupancyEstimator {
	return &OccupancyEstimator{
		loads: make(map[edgeKey]float64),
	}
}

// Refresh recomputes edge loads from active agents about to traverse them.
// Pedestrians do not contribute to the load
func (est *OccupancyEstimator) Refresh(agents []*Agent) {
	est.loads = make(map[edgeKey]float64)
	for _, agent := range agents {
		if !agent.active {
			continue
		}
		pce := agent.Kind.PCE()
		if pce == 0 {
			continue
		}
		next, ok := agent.NextNodeID()
		if !ok {
			continue
		}
		est.loads[edgeKey{from: agent.CurrentNodeID(), to: next}] += pce
	}
}

// Load returns passenger car equivalent load for edge (from, to) in current snapshot
func (est *OccupancyEstimator) Load(from, to NetworkNodeID) float64 {
	return est.loads[edgeKey{from: from, to: to}]
}
