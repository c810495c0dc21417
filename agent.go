package urbansim

/* Agents stuff */

// Agent is a routed traveler advancing along its path during simulation
type Agent struct {
	ID         string
	Kind       AgentKind
	path       []NetworkNodeID
	pathCoords []GeoPoint
	position   int
	stuckTicks int
	ticksAlive int
	active     bool
}

// Active reports whether the agent still participates in simulation
func (agent *Agent) Active() bool {
	return agent.active
}

// CurrentNodeID returns node the agent is standing on
func (agent *Agent) CurrentNodeID() NetworkNodeID {
	return agent.path[agent.position]
}

// NextNodeID returns node the agent is heading to (false when path end reached)
func (agent *Agent) NextNodeID() (NetworkNodeID, bool) {
	if agent.position+1 >= len(agent.path) {
		return 0, false
	}
	return agent.path[agent.position+1], true
}

// Coordinate returns current position of the agent on Earth
func (agent *Agent) Coordinate() GeoPoint {
	return agent.pathCoords[agent.position]
}

// PathLength returns number of nodes in the agent route
func (agent *Agent) PathLength() int {
	return len(agent.path)
}

// atDestination reports whether the agent reached end of its path
func (agent *Agent) atDestination() bool {
	return agent.position >= len(agent.path)-1
}

// step advances the agent one position along its path, deactivating on arrival
func (agent *Agent) step() {
	agent.position++
	if agent.atDestination() {
		agent.active = false
	}
}
