package urbansim

/* Trajectory records stuff */

// RecordStatus tells how the agent spent the recorded tick
type RecordStatus uint16

const (
	STATUS_MOVING = RecordStatus(iota + 1)
	STATUS_CONGESTED
)

func (iotaIdx RecordStatus) String() string {
	return [...]string{"moving", "congested"}[iotaIdx-1]
}

// TrajectoryRecord is a downsampled agent position snapshot
type TrajectoryRecord struct {
	AgentID string
	Tick    int
	Lat     float64
	Lon     float64
	Kind    AgentKind
	Status  RecordStatus
}
