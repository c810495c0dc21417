package urbansim

// AgentKind represents class of simulated traveler
type AgentKind uint16

const (
	AGENT_CAR = AgentKind(iota + 1)
	AGENT_TRUCK
	AGENT_PEDESTRIAN
	AGENT_UNDEFINED = AgentKind(0)
)

func (iotaIdx AgentKind) String() string {
	return [...]string{"undefined", "car", "truck", "pedestrian"}[iotaIdx]
}

// PCE returns passenger car equivalent load for the agent kind
func (iotaIdx AgentKind) PCE() float64 {
	return [...]float64{0.0, 1.0, 3.0, 0.0}[iotaIdx]
}

// AgentKindFromString returns matched agent kind for given alias
func AgentKindFromString(alias string) AgentKind {
	switch alias {
	case "car":
		return AGENT_CAR
	case "truck":
		return AGENT_TRUCK
	case "pedestrian":
		return AGENT_PEDESTRIAN
	default:
		return AGENT_UNDEFINED
	}
}

var (
	agentKindsAll = map[AgentKind]struct{}{
		AGENT_CAR:        {},
		AGENT_TRUCK:      {},
		AGENT_PEDESTRIAN: {},
	}
)
