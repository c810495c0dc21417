package urbansim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

/* Engine stuff */

const (
	defaultDurationTicks = 100
	defaultMaxAgents     = 250000
)

// Salts for deriving independent deterministic streams from single scenario seed
const (
	populationSeedSalt = int64(0x5eed0a17)
	schedulerSeedSalt  = int64(0x5eedc0de)
)

// ScenarioRequest describes single simulation run over an urban area
type ScenarioRequest struct {
	Center        GeoPoint
	RadiusMeters  float64
	TimeOfDay     TimeOfDay
	Vehicles      int
	Pedestrians   int
	DurationTicks int
	Seed          int64
	Barriers      []GeoPoint
	// RunID identifies the run in the result. Fresh UUID is assigned when empty
	RunID string
}

// ScenarioResult carries everything single finished run has produced.
// Network is the drive network, WalkNetwork is nil unless pedestrians were requested
type ScenarioResult struct {
	RunID           string
	Records         []TrajectoryRecord
	Network         *RoadNetwork
	WalkNetwork     *RoadNetwork
	Report          *RoutingReport
	Stats           *ScenarioStats
	BlockedEdges    int
	EmptyPopulation bool
	Elapsed         time.Duration
}

// Engine wires graph source, routing pool and tick scheduler into scenario runner
type Engine struct {
	source    GraphSource
	workers   int
	maxAgents int
	verbose   bool
}

// NewEngine returns engine over provided graph source. Options pattern is used for additional parameters
func NewEngine(source GraphSource, options ...func(*Engine)) *Engine {
	engine := &Engine{
		source:    source,
		workers:   defaultRoutingWorkers,
		maxAgents: defaultMaxAgents,
	}
	for _, option := range options {
		option(engine)
	}
	return engine
}

// WithWorkers sets number of workers resolving routes in parallel
func WithWorkers(workers int) func(*Engine) {
	return func(engine *Engine) {
		engine.workers = workers
	}
}

// WithMaxAgents bounds total population size single request may carry
func WithMaxAgents(maxAgents int) func(*Engine) {
	return func(engine *Engine) {
		engine.maxAgents = maxAgents
	}
}

// WithEngineVerbose sets verbose mode for the engine
func WithEngineVerbose(verbose bool) func(*Engine) {
	return func(engine *Engine) {
		engine.verbose = verbose
	}
}

// RunScenario executes full simulation pipeline for the request:
// fetch drive network (and walk network when pedestrians were requested),
// apply barriers, prepare capacities and attraction distribution, generate demand,
// resolve routes and advance ticks until everyone arrives or time runs out.
// Same request with same seed gives identical records
func (engine *Engine) RunScenario(request ScenarioRequest) (*ScenarioResult, error) {
	err := engine.validateRequest(&request)
	if err != nil {
		return nil, err
	}
	st := time.Now()
	if engine.verbose {
		fmt.Printf("Run scenario: center %s radius %.0fm agents %d+%d ticks %d\n", request.Center.String(), request.RadiusMeters, request.Vehicles, request.Pedestrians, request.DurationTicks)
	}

	driveNet, err := engine.source.FetchNetwork(request.Center, request.RadiusMeters, NETWORK_DRIVE)
	if err != nil {
		return nil, errors.Wrap(err, "Can't fetch drive network")
	}
	var walkNet *RoadNetwork
	if request.Pedestrians > 0 {
		walkNet, err = engine.source.FetchNetwork(request.Center, request.RadiusMeters, NETWORK_WALK)
		if err != nil {
			return nil, errors.Wrap(err, "Can't fetch walk network")
		}
	}

	result := &ScenarioResult{
		RunID:       request.RunID,
		Network:     driveNet,
		WalkNetwork: walkNet,
		Records:     []TrajectoryRecord{},
		Report:      &RoutingReport{},
	}

	// Barriers, capacities and attraction apply to vehicle traffic only, walk network stays plain
	result.BlockedEdges = ApplyBarriers(driveNet, request.Barriers, engine.verbose)
	AssignEdgeCapacities(driveNet, engine.verbose)
	attraction := ComputeAttractionDistribution(driveNet, request.TimeOfDay, engine.verbose)

	populationRng := rand.New(rand.NewSource(request.Seed ^ populationSeedSalt))
	tasks := GeneratePopulation(driveNet, walkNet, request.Vehicles, request.Pedestrians, request.TimeOfDay, attraction, populationRng, engine.verbose)
	if len(tasks) == 0 {
		result.EmptyPopulation = true
		result.Stats = ComputeStats(result.Records)
		result.Elapsed = time.Since(st)
		return result, nil
	}

	pool := NewRoutingPool(driveNet, walkNet, engine.workers, engine.verbose)
	agents, report, err := pool.ResolveRoutes(tasks)
	if err != nil {
		return nil, errors.Wrap(err, "Can't resolve routes")
	}
	result.Report = report
	if len(agents) == 0 {
		// Every task hit disconnected or blocked pair, nothing to simulate
		result.EmptyPopulation = true
		result.Stats = ComputeStats(result.Records)
		result.Elapsed = time.Since(st)
		return result, nil
	}

	schedulerRng := rand.New(rand.NewSource(request.Seed ^ schedulerSeedSalt))
	scheduler := NewTickScheduler(driveNet, request.DurationTicks, schedulerRng)
	result.Records = scheduler.Run(agents, engine.verbose)
	result.Stats = ComputeStats(result.Records)
	result.Elapsed = time.Since(st)
	if engine.verbose {
		fmt.Printf("Scenario done in %v\n\tRecords: %d\n", result.Elapsed, len(result.Records))
	}
	return result, nil
}

// validateRequest fills defaults and guards capacity bounds
func (engine *Engine) validateRequest(request *ScenarioRequest) error {
	if engine.source == nil {
		return fmt.Errorf("Graph source is not set")
	}
	if request.Vehicles < 0 || request.Pedestrians < 0 {
		return fmt.Errorf("Population counts should not be negative. Vehicles: '%d'. Pedestrians: '%d'", request.Vehicles, request.Pedestrians)
	}
	if request.Vehicles+request.Pedestrians > engine.maxAgents {
		return markKind(ErrResourceExhaustion, fmt.Errorf("Requested population %d exceeds allowed maximum %d", request.Vehicles+request.Pedestrians, engine.maxAgents))
	}
	if request.DurationTicks <= 0 {
		request.DurationTicks = defaultDurationTicks
	}
	if request.TimeOfDay == TIME_UNDEFINED {
		request.TimeOfDay = TIME_OFFPEAK
	}
	if request.RunID == "" {
		request.RunID = uuid.NewString()
	}
	return nil
}
