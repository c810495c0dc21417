package urbansim

import (
	"fmt"
	"math/rand"
	"time"
)

/* Tick scheduling stuff */

const (
	// Consecutive blocked ticks after which the agent gives up
	maxStuckTicks = 15
	// Chance to be held back on the overloaded edge
	congestionBlockProbability = 0.7
)

type movementVerdict uint16

const (
	MOVE_ALLOWED = movementVerdict(iota + 1)
	MOVE_BLOCKED_SIGNAL
	MOVE_BLOCKED_CONGESTION
	MOVE_BLOCKED_NO_EDGE
)

// TickScheduler advances all agents tick by tick. The loop is strictly sequential,
// same seed and same inputs produce identical record stream
type TickScheduler struct {
	net       *RoadNetwork
	occupancy *OccupancyEstimator
	recorder  *TrajectoryRecorder
	rng       *rand.Rand
	duration  int
}

// NewTickScheduler creates scheduler running for given number of ticks
func NewTickScheduler(net *RoadNetwork, duration int, rng *rand.Rand) *TickScheduler {
	return &TickScheduler{
		net:       net,
		occupancy: NewOccupancyEstimator(),
		recorder:  NewTrajectoryRecorder(),
		rng:       rng,
		duration:  duration,
	}
}

// Run advances agents for configured number of ticks and returns trajectory records.
// Stops early when no active agents remain. Every agent is inactive once Run returns
func (scheduler *TickScheduler) Run(agents []*Agent, verbose bool) []TrajectoryRecord {
	if verbose {
		fmt.Printf("Running simulation...")
	}
	st := time.Now()
	for tick := 0; tick < scheduler.duration; tick++ {
		if tick%occupancyRefreshTicks == 0 {
			scheduler.occupancy.Refresh(agents)
		}
		activeLeft := 0
		for _, agent := range agents {
			if !agent.active {
				continue
			}
			scheduler.advanceAgent(agent, tick)
			if agent.active {
				activeLeft++
			}
		}
		if activeLeft == 0 {
			break
		}
	}
	// Whoever is still walking the network gets retired when the clock runs out
	for _, agent := range agents {
		agent.active = false
	}
	if verbose {
		fmt.Printf("Done in %v\n\tRecords: %d\n", time.Since(st), len(scheduler.recorder.records))
	}
	return scheduler.recorder.Records()
}

func (scheduler *TickScheduler) advanceAgent(agent *Agent, tick int) {
	agent.ticksAlive++
	if agent.ticksAlive > scheduler.duration {
		agent.active = false
		return
	}
	verdict := scheduler.validateMovement(agent, tick)
	if verdict == MOVE_ALLOWED {
		agent.stuckTicks = 0
		agent.step()
		// Vehicles are faster than pedestrians and take second step within the tick
		if agent.Kind != AGENT_PEDESTRIAN && agent.active {
			agent.step()
		}
	} else {
		agent.stuckTicks++
		if agent.stuckTicks > maxStuckTicks {
			agent.active = false
			return
		}
	}
	if agent.active && tick%recordSampleTicks == 0 {
		status := STATUS_MOVING
		if verdict == MOVE_BLOCKED_CONGESTION {
			status = STATUS_CONGESTED
		}
		scheduler.recorder.Append(tick, agent, status)
	}
}

// validateMovement checks whether the agent is allowed to leave its current node at given tick.
// Pedestrians always move. Vehicles respect signals at intersections and risk being held
// on overloaded edges
func (scheduler *TickScheduler) validateMovement(agent *Agent, tick int) movementVerdict {
	if agent.Kind == AGENT_PEDESTRIAN {
		return MOVE_ALLOWED
	}
	next, ok := agent.NextNodeID()
	if !ok {
		return MOVE_BLOCKED_NO_EDGE
	}
	current := agent.CurrentNodeID()
	if currentNode := scheduler.net.Node(current); currentNode != nil && currentNode.Degree() > 2 && !IsGreenLight(current, next, tick) {
		return MOVE_BLOCKED_SIGNAL
	}
	capacity := defaultEdgeCapacity
	if edge := scheduler.net.EdgeBetween(current, next); edge != nil && edge.capacity > 0 {
		capacity = edge.capacity
	}
	if scheduler.occupancy.Load(current, next) > float64(capacity) && scheduler.rng.Float64() < congestionBlockProbability {
		return MOVE_BLOCKED_CONGESTION
	}
	return MOVE_ALLOWED
}
