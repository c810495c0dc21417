package urbansim

import (
	"math"
	"testing"
)

func TestComputeStats(t *testing.T) {
	records := []TrajectoryRecord{
		// Vehicle crossing two edges and finishing before the run end
		{AgentID: "v_0", Tick: 0, Lat: 55.751, Lon: 37.610, Kind: AGENT_CAR, Status: STATUS_MOVING},
		{AgentID: "v_0", Tick: 5, Lat: 55.751, Lon: 37.611, Kind: AGENT_CAR, Status: STATUS_MOVING},
		{AgentID: "v_0", Tick: 10, Lat: 55.751, Lon: 37.612, Kind: AGENT_CAR, Status: STATUS_MOVING},
		// Pedestrian standing still up to the very last observed tick
		{AgentID: "p_0", Tick: 0, Lat: 55.750, Lon: 37.610, Kind: AGENT_PEDESTRIAN, Status: STATUS_MOVING},
		{AgentID: "p_0", Tick: 5, Lat: 55.750, Lon: 37.610, Kind: AGENT_PEDESTRIAN, Status: STATUS_MOVING},
		{AgentID: "p_0", Tick: 10, Lat: 55.750, Lon: 37.610, Kind: AGENT_PEDESTRIAN, Status: STATUS_MOVING},
		{AgentID: "p_0", Tick: 15, Lat: 55.750, Lon: 37.610, Kind: AGENT_PEDESTRIAN, Status: STATUS_MOVING},
	}
	stats := ComputeStats(records)

	if stats.AgentsObserved != 2 {
		t.Errorf("Should observe 2 agents, but got %d", stats.AgentsObserved)
	}
	// Vehicle stopped being recorded before tick 15, pedestrian did not
	if stats.SuccessRate != 0.5 {
		t.Errorf("Success rate should be 0.5, but got %f", stats.SuccessRate)
	}
	if stats.AverageTravelTime != 12.5 {
		t.Errorf("Average travel time should be 12.5 ticks, but got %f", stats.AverageTravelTime)
	}
	if math.Abs(stats.TotalDistanceKm-0.1251586) > 0.0001 {
		t.Errorf("Total distance should be about 0.125 km, but got %f", stats.TotalDistanceKm)
	}
	// Still pedestrian contributes no delay, vehicle made 125 meters in 10 ticks against ideal 10 m/tick
	if math.Abs(stats.DelayIndex-0.798986) > 0.0001 {
		t.Errorf("Delay index should be about 0.799, but got %f", stats.DelayIndex)
	}
	if stats.RecordsByKind["car"] != 3 || stats.RecordsByKind["pedestrian"] != 4 {
		t.Errorf("Records by kind should be 3 cars and 4 pedestrians, but got %v", stats.RecordsByKind)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.AgentsObserved != 0 || stats.SuccessRate != 0 || stats.DelayIndex != 0 {
		t.Errorf("Empty records should give zero stats, but got %+v", stats)
	}
	if stats.RecordsByKind == nil {
		t.Errorf("Records by kind map should be initialized")
	}
}

func TestComputeStatsSingleSample(t *testing.T) {
	records := []TrajectoryRecord{
		{AgentID: "v_0", Tick: 0, Lat: 55.751, Lon: 37.610, Kind: AGENT_CAR, Status: STATUS_MOVING},
	}
	stats := ComputeStats(records)
	if stats.AgentsObserved != 1 {
		t.Errorf("Should observe 1 agent, but got %d", stats.AgentsObserved)
	}
	// The only agent is recorded at the last observed tick
	if stats.SuccessRate != 0.0 {
		t.Errorf("Success rate should be 0, but got %f", stats.SuccessRate)
	}
	if stats.AverageTravelTime != 0.0 {
		t.Errorf("Single sample means zero travel time, but got %f", stats.AverageTravelTime)
	}
	if stats.DelayIndex != 0.0 {
		t.Errorf("No distance means no delay index, but got %f", stats.DelayIndex)
	}
}
