package urbansim

import (
	"fmt"
	"math/rand"
	"time"
)

/* Population stuff */

// RoutingTask is a trip request for single agent waiting to be resolved into route
type RoutingTask struct {
	AgentID       string
	Kind          AgentKind
	OriginID      NetworkNodeID
	DestinationID NetworkNodeID
}

// GeneratePopulation synthesizes routing tasks for given demand period.
// Vehicles travel the drive network with destinations following the attraction
// distribution, pedestrians roam the walk network uniformly.
// Same rng state produces same population
func GeneratePopulation(driveNet, walkNet *RoadNetwork, vehicles, pedestrians int, timeOfDay TimeOfDay, attraction *AttractionDistribution, rng *rand.Rand, verbose bool) []RoutingTask {
	if verbose {
		fmt.Printf("Generating population...")
	}
	st := time.Now()

	tasks := make([]RoutingTask, 0, vehicles+pedestrians)
	if driveNet != nil && driveNet.NodesCount() != 0 && vehicles > 0 {
		driveNodeIDs := driveNet.NodeIDs()
		truckRatio := truckRatioByTimeOfDay[timeOfDay]
		for i := 0; i < vehicles; i++ {
			kind := AGENT_CAR
			if rng.Float64() < truckRatio {
				kind = AGENT_TRUCK
			}
			originID := driveNodeIDs[rng.Intn(len(driveNodeIDs))]
			var destinationID NetworkNodeID
			if attraction != nil {
				destinationID = attraction.Sample(rng)
			} else {
				destinationID = driveNodeIDs[rng.Intn(len(driveNodeIDs))]
			}
			tasks = append(tasks, RoutingTask{
				AgentID:       fmt.Sprintf("v_%d", i),
				Kind:          kind,
				OriginID:      originID,
				DestinationID: destinationID,
			})
		}
	}
	if walkNet != nil && walkNet.NodesCount() != 0 && pedestrians > 0 {
		walkNodeIDs := walkNet.NodeIDs()
		for i := 0; i < pedestrians; i++ {
			tasks = append(tasks, RoutingTask{
				AgentID:       fmt.Sprintf("p_%d", i),
				Kind:          AGENT_PEDESTRIAN,
				OriginID:      walkNodeIDs[rng.Intn(len(walkNodeIDs))],
				DestinationID: walkNodeIDs[rng.Intn(len(walkNodeIDs))],
			})
		}
	}
	if verbose {
		fmt.Printf("Done in %v\n\tTasks: %d\n", time.Since(st), len(tasks))
	}
	return tasks
}
