package urbansim

import (
	"sort"
)

/* Run statistics stuff */

// Free flow speed (meters per tick) used as the ideal for delay index
const idealSpeedPerTick = 10.0

// ScenarioStats summarizes finished run derived from its trajectory records
type ScenarioStats struct {
	AgentsObserved    int            `json:"agents_observed"`
	SuccessRate       float64        `json:"success_rate"`
	DelayIndex        float64        `json:"delay_index"`
	AverageTravelTime float64        `json:"average_travel_time"`
	TotalDistanceKm   float64        `json:"total_distance_km"`
	RecordsByKind     map[string]int `json:"records_by_kind"`
}

type agentTrace struct {
	lastPoint  GeoPoint
	firstTick  int
	lastTick   int
	distanceKm float64
}

// ComputeStats derives run summary from trajectory records.
// Success means the agent stopped being recorded before the very last observed tick,
// delay index compares actual travel time against free flow time over the same distance
func ComputeStats(records []TrajectoryRecord) *ScenarioStats {
	stats := &ScenarioStats{
		RecordsByKind: make(map[string]int),
	}
	if len(records) == 0 {
		return stats
	}

	traces := make(map[string]*agentTrace)
	globalMaxTick := 0
	for i := range records {
		rec := &records[i]
		stats.RecordsByKind[rec.Kind.String()]++
		if rec.Tick > globalMaxTick {
			globalMaxTick = rec.Tick
		}
		pt := GeoPoint{Lat: rec.Lat, Lon: rec.Lon}
		trace, ok := traces[rec.AgentID]
		if !ok {
			traces[rec.AgentID] = &agentTrace{firstTick: rec.Tick, lastTick: rec.Tick, lastPoint: pt}
			continue
		}
		trace.distanceKm += greatCircleDistance(trace.lastPoint, pt)
		trace.lastPoint = pt
		if rec.Tick > trace.lastTick {
			trace.lastTick = rec.Tick
		}
		if rec.Tick < trace.firstTick {
			trace.firstTick = rec.Tick
		}
	}

	agentIDs := make([]string, 0, len(traces))
	for agentID := range traces {
		agentIDs = append(agentIDs, agentID)
	}
	sort.Strings(agentIDs)

	stats.AgentsObserved = len(traces)
	succeeded := 0
	travelTimeSum := 0.0
	delaySum := 0.0
	delayCount := 0
	for _, agentID := range agentIDs {
		trace := traces[agentID]
		if trace.lastTick < globalMaxTick {
			succeeded++
		}
		travelTime := float64(trace.lastTick - trace.firstTick)
		travelTimeSum += travelTime
		distanceMeters := trace.distanceKm * 1000.0
		if distanceMeters > 0 && travelTime > 0 {
			idealTime := distanceMeters / idealSpeedPerTick
			delaySum += travelTime / idealTime
			delayCount++
		}
		stats.TotalDistanceKm += trace.distanceKm
	}
	if stats.AgentsObserved > 0 {
		stats.SuccessRate = float64(succeeded) / float64(stats.AgentsObserved)
		stats.AverageTravelTime = travelTimeSum / float64(stats.AgentsObserved)
	}
	if delayCount > 0 {
		stats.DelayIndex = delaySum / float64(delayCount)
	}
	return stats
}
