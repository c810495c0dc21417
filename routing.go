package urbansim

import (
	"fmt"
	"sync"
	"time"

	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

/* Routing stuff */

// Default number of workers resolving routes in parallel
const defaultRoutingWorkers = 10

// WeightMetric selects edge cost for shortest path queries
type WeightMetric uint16

const (
	METRIC_TRAVEL_WEIGHT = WeightMetric(iota + 1)
	METRIC_LENGTH
)

func (iotaIdx WeightMetric) String() string {
	return [...]string{"travel_weight", "length"}[iotaIdx-1]
}

// metricForKind returns weight metric used by given agent kind.
// Vehicles follow drive network travel weights (so barriers count),
// pedestrians follow plain walk network lengths
func metricForKind(kind AgentKind) WeightMetric {
	if kind == AGENT_PEDESTRIAN {
		return METRIC_LENGTH
	}
	return METRIC_TRAVEL_WEIGHT
}

// RoutingReport summarizes batch routing outcome
type RoutingReport struct {
	AgentsCreated  int
	TasksDiscarded int
	Discards       []TaskDiscard
}

// TaskDiscard names task which did not produce an agent and keeps the reason
type TaskDiscard struct {
	AgentID string
	Err     error
}

// routingResult is an outcome for single routing task, either resolved agent or error
type routingResult struct {
	taskIdx int
	agent   *Agent
	err     error
}

// BuildRoutingGraph prepares contraction hierarchies over the road network for given metric.
// Prepared graph is immutable and safe for concurrent shortest path queries
func BuildRoutingGraph(net *RoadNetwork, metric WeightMetric, verbose bool) (*ch.Graph, error) {
	if verbose {
		fmt.Printf("Preparing contraction hierarchies (%s)...", metric)
	}
	st := time.Now()
	graph := ch.Graph{}
	for _, id := range net.NodeIDs() {
		err := graph.CreateVertex(int64(id))
		if err != nil {
			return nil, errors.Wrap(err, "Can't create vertex")
		}
	}
	for _, edge := range net.edges {
		cost := edge.travelWeight
		if metric == METRIC_LENGTH {
			cost = edge.lengthMeters
		}
		err := graph.AddEdge(int64(edge.sourceNodeID), int64(edge.targetNodeID), cost)
		if err != nil {
			return nil, errors.Wrap(err, "Can't add edge")
		}
	}
	graph.PrepareContractionHierarchies()
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}
	return &graph, nil
}

// RoutingPool resolves shortest paths for routing tasks over fixed worker pool.
// Tasks are partitioned by network: vehicles query travel weight graph prepared
// over the drive network, pedestrians query length graph prepared over the walk
// network. Prepared graphs are cached per metric and reused between batches
type RoutingPool struct {
	driveNet *RoadNetwork
	walkNet  *RoadNetwork
	graphs   map[WeightMetric]*ch.Graph
	workers  int
	verbose  bool
}

// NewRoutingPool creates routing pool over given road networks.
// Walk network may be nil when no pedestrian tasks are expected
func NewRoutingPool(driveNet, walkNet *RoadNetwork, workers int, verbose bool) *RoutingPool {
	if workers <= 0 {
		workers = defaultRoutingWorkers
	}
	return &RoutingPool{
		driveNet: driveNet,
		walkNet:  walkNet,
		graphs:   make(map[WeightMetric]*ch.Graph),
		workers:  workers,
		verbose:  verbose,
	}
}

// networkForMetric returns network which carries edge costs for the metric
func (pool *RoutingPool) networkForMetric(metric WeightMetric) *RoadNetwork {
	if metric == METRIC_LENGTH {
		return pool.walkNet
	}
	return pool.driveNet
}

// graphForMetric returns cached prepared graph for the metric building it on first use
func (pool *RoutingPool) graphForMetric(metric WeightMetric) (*ch.Graph, error) {
	if graph, ok := pool.graphs[metric]; ok {
		return graph, nil
	}
	net := pool.networkForMetric(metric)
	if net == nil {
		return nil, fmt.Errorf("No network for metric '%s'", metric)
	}
	graph, err := BuildRoutingGraph(net, metric, pool.verbose)
	if err != nil {
		return nil, err
	}
	pool.graphs[metric] = graph
	return graph, nil
}

// ResolveRoutes runs shortest path queries for all tasks in parallel and builds agents.
// Tasks with no feasible route are discarded and counted, never fatal.
// Infrastructure faults (unknown nodes) abort the whole batch carrying the first met error
func (pool *RoutingPool) ResolveRoutes(tasks []RoutingTask) ([]*Agent, *RoutingReport, error) {
	report := &RoutingReport{}
	if len(tasks) == 0 {
		return []*Agent{}, report, nil
	}
	// Graphs are prepared upfront, workers only read them
	for _, task := range tasks {
		if _, err := pool.graphForMetric(metricForKind(task.Kind)); err != nil {
			return nil, report, errors.Wrap(err, "Can't prepare routing graph")
		}
	}
	if pool.verbose {
		fmt.Printf("Resolving routes...")
	}
	st := time.Now()

	taskIdxCh := make(chan int)
	resultsCh := make(chan routingResult)
	var wg sync.WaitGroup
	for w := 0; w < pool.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range taskIdxCh {
				resultsCh <- pool.resolveTask(idx, tasks[idx])
			}
		}()
	}
	go func() {
		for idx := range tasks {
			taskIdxCh <- idx
		}
		close(taskIdxCh)
	}()
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	results := make([]routingResult, 0, len(tasks))
	for res := range resultsCh {
		results = append(results, res)
	}
	// Workers finish out of order, results are realigned to the task order
	ordered := make([]*routingResult, len(tasks))
	for i := range results {
		ordered[results[i].taskIdx] = &results[i]
	}

	agents := make([]*Agent, 0, len(tasks))
	var batchErr error
	for _, res := range ordered {
		if res == nil {
			continue
		}
		if res.err != nil {
			if IsNoRoute(res.err) {
				report.TasksDiscarded++
				report.Discards = append(report.Discards, TaskDiscard{AgentID: tasks[res.taskIdx].AgentID, Err: res.err})
				continue
			}
			if batchErr == nil {
				batchErr = errors.Wrapf(res.err, "Can't resolve route for agent '%s'", tasks[res.taskIdx].AgentID)
			}
			continue
		}
		agents = append(agents, res.agent)
		report.AgentsCreated++
	}
	if batchErr != nil {
		return nil, report, batchErr
	}
	if pool.verbose {
		fmt.Printf("Done in %v\n\tAgents: %d, Discarded: %d\n", time.Since(st), report.AgentsCreated, report.TasksDiscarded)
	}
	return agents, report, nil
}

// resolveTask queries single shortest path and prepares the agent.
// Route coordinates are resolved and rounded once so simulation ticks do no geometry work
func (pool *RoutingPool) resolveTask(idx int, task RoutingTask) routingResult {
	if _, ok := agentKindsAll[task.Kind]; !ok {
		return routingResult{taskIdx: idx, err: fmt.Errorf("Unknown agent kind: '%d'", task.Kind)}
	}
	metric := metricForKind(task.Kind)
	net := pool.networkForMetric(metric)
	if net.Node(task.OriginID) == nil {
		return routingResult{taskIdx: idx, err: fmt.Errorf("No such origin node: '%d'", task.OriginID)}
	}
	if net.Node(task.DestinationID) == nil {
		return routingResult{taskIdx: idx, err: fmt.Errorf("No such destination node: '%d'", task.DestinationID)}
	}
	graph := pool.graphs[metric]
	cost, path := graph.ShortestPath(int64(task.OriginID), int64(task.DestinationID))
	if cost < 0 || len(path) < 2 {
		return routingResult{taskIdx: idx, err: markKind(ErrNoRoute, fmt.Errorf("Nodes '%d' and '%d' are not connected", task.OriginID, task.DestinationID))}
	}
	if task.Kind != AGENT_PEDESTRIAN && cost >= barrierTravelWeight {
		return routingResult{taskIdx: idx, err: markKind(ErrNoRoute, fmt.Errorf("Route between nodes '%d' and '%d' crosses blocked corridor", task.OriginID, task.DestinationID))}
	}
	pathIDs := make([]NetworkNodeID, len(path))
	pathCoords := make([]GeoPoint, len(path))
	for i, vertex := range path {
		nodeID := NetworkNodeID(vertex)
		node := net.Node(nodeID)
		if node == nil {
			return routingResult{taskIdx: idx, err: fmt.Errorf("Path vertex '%d' is not in the network", vertex)}
		}
		pathIDs[i] = nodeID
		pt := node.GeoPoint()
		pathCoords[i] = GeoPoint{Lat: roundCoordinate(pt.Lat), Lon: roundCoordinate(pt.Lon)}
	}
	agent := &Agent{
		ID:         task.AgentID,
		Kind:       task.Kind,
		path:       pathIDs,
		pathCoords: pathCoords,
		active:     true,
	}
	return routingResult{taskIdx: idx, agent: agent}
}
