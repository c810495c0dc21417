package urbansim

import (
	"testing"
)

func TestOccupancyRefresh(t *testing.T) {
	net := buildLineNetwork([]NetworkNodeID{1, 2})
	car := testAgent(net, "v_0", AGENT_CAR, 1, 2)
	truck := testAgent(net, "v_1", AGENT_TRUCK, 1, 2)
	walker := testAgent(net, "p_0", AGENT_PEDESTRIAN, 1, 2)
	parked := testAgent(net, "v_2", AGENT_CAR, 1, 2)
	parked.active = false

	est := NewOccupancyEstimator()
	est.Refresh([]*Agent{car, truck, walker, parked})

	// Car is 1.0, truck is 3.0, pedestrian and inactive car contribute nothing
	if est.Load(1, 2) != 4.0 {
		t.Errorf("Edge load should be 4.0 passenger car equivalents, but got %f", est.Load(1, 2))
	}
	if est.Load(2, 1) != 0.0 {
		t.Errorf("Reverse edge should be empty, but got %f", est.Load(2, 1))
	}
}

func TestOccupancyArrivedAgents(t *testing.T) {
	net := buildLineNetwork([]NetworkNodeID{1, 2})
	arrived := testAgent(net, "v_0", AGENT_CAR, 1, 2)
	arrived.position = 1

	est := NewOccupancyEstimator()
	est.Refresh([]*Agent{arrived})
	if est.Load(1, 2) != 0.0 {
		t.Errorf("Agent at route end heads nowhere and loads nothing, but got %f", est.Load(1, 2))
	}
}

func TestOccupancySnapshotReplaced(t *testing.T) {
	net := buildLineNetwork([]NetworkNodeID{1, 2})
	car := testAgent(net, "v_0", AGENT_CAR, 1, 2)

	est := NewOccupancyEstimator()
	est.Refresh([]*Agent{car})
	if est.Load(1, 2) != 1.0 {
		t.Errorf("Edge load should be 1.0, but got %f", est.Load(1, 2))
	}
	est.Refresh([]*Agent{})
	if est.Load(1, 2) != 0.0 {
		t.Errorf("Fresh snapshot should drop old loads, but got %f", est.Load(1, 2))
	}
}

func TestAgentKindPCE(t *testing.T) {
	if AGENT_CAR.PCE() != 1.0 {
		t.Errorf("Car passenger car equivalent should be 1.0, but got %f", AGENT_CAR.PCE())
	}
	if AGENT_TRUCK.PCE() != 3.0 {
		t.Errorf("Truck passenger car equivalent should be 3.0, but got %f", AGENT_TRUCK.PCE())
	}
	if AGENT_PEDESTRIAN.PCE() != 0.0 {
		t.Errorf("Pedestrian passenger car equivalent should be 0.0, but got %f", AGENT_PEDESTRIAN.PCE())
	}
}
