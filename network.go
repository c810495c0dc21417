package urbansim

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

/* Road network stuff */

type edgeKey struct {
	from NetworkNodeID
	to   NetworkNodeID
}

// RoadNetwork is a directed multigraph of road segments prepared for routing and simulation
type RoadNetwork struct {
	nodes     map[NetworkNodeID]*NetworkNode
	edges     []*NetworkEdge
	edgeIndex map[edgeKey]NetworkEdgeID
	mode      NetworkMode
}

// NewRoadNetwork returns empty road network for given travel mode
func NewRoadNetwork(mode NetworkMode) *RoadNetwork {
	return &RoadNetwork{
		nodes:     make(map[NetworkNodeID]*NetworkNode),
		edges:     make([]*NetworkEdge, 0),
		edgeIndex: make(map[edgeKey]NetworkEdgeID),
		mode:      mode,
	}
}

func (net *RoadNetwork) addNode(node *NetworkNode) {
	net.nodes[node.ID] = node
}

func (net *RoadNetwork) addEdge(edge *NetworkEdge) {
	edge.ID = NetworkEdgeID(len(net.edges))
	net.edges = append(net.edges, edge)
	key := edgeKey{from: edge.sourceNodeID, to: edge.targetNodeID}
	if _, ok := net.edgeIndex[key]; !ok {
		// Parallel edges are kept in the edges list, lookup always resolves to the first registered one
		net.edgeIndex[key] = edge.ID
	}
	if source, ok := net.nodes[edge.sourceNodeID]; ok {
		source.outcomingEdges = append(source.outcomingEdges, edge.ID)
	}
	if target, ok := net.nodes[edge.targetNodeID]; ok {
		target.incomingEdges = append(target.incomingEdges, edge.ID)
	}
}

// Node returns node for given identifier (nil if not found)
func (net *RoadNetwork) Node(id NetworkNodeID) *NetworkNode {
	return net.nodes[id]
}

// EdgeBetween returns first registered edge connecting given pair of nodes (nil if not found)
func (net *RoadNetwork) EdgeBetween(from, to NetworkNodeID) *NetworkEdge {
	if idx, ok := net.edgeIndex[edgeKey{from: from, to: to}]; ok {
		return net.edges[idx]
	}
	return nil
}

// NodesCount returns number of nodes in the network
func (net *RoadNetwork) NodesCount() int {
	return len(net.nodes)
}

// EdgesCount returns number of directed edges in the network
func (net *RoadNetwork) EdgesCount() int {
	return len(net.edges)
}

// Mode returns travel mode the network has been built for
func (net *RoadNetwork) Mode() NetworkMode {
	return net.mode
}

// NodeIDs returns identifiers of all nodes in ascending order
func (net *RoadNetwork) NodeIDs() []NetworkNodeID {
	ids := make([]NetworkNodeID, 0, len(net.nodes))
	for id := range net.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Bound returns bounding box containing every node of the network
func (net *RoadNetwork) Bound() orb.Bound {
	first := true
	var bound orb.Bound
	for _, node := range net.nodes {
		if first {
			bound = orb.Bound{Min: node.geom, Max: node.geom}
			first = false
			continue
		}
		bound = bound.Extend(node.geom)
	}
	return bound
}

// ExportEdgesToCSV saves network edges to CSV file
func (net *RoadNetwork) ExportEdgesToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "source_node", "target_node", "osm_way_id", "highway_class", "was_oneway", "free_speed", "capacity", "travel_weight", "length_meters", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, edge := range net.edges {
		err = writer.Write([]string{
			fmt.Sprintf("%d", edge.ID),
			fmt.Sprintf("%d", edge.sourceNodeID),
			fmt.Sprintf("%d", edge.targetNodeID),
			fmt.Sprintf("%d", edge.osmWayID),
			fmt.Sprintf("%s", edge.highwayClass),
			fmt.Sprintf("%t", edge.wasOneway),
			fmt.Sprintf("%f", edge.freeSpeed),
			fmt.Sprintf("%d", edge.capacity),
			fmt.Sprintf("%f", edge.travelWeight),
			fmt.Sprintf("%f", edge.lengthMeters),
			fmt.Sprintf("%s", wkt.MarshalString(edge.geom)),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write edge")
		}
	}
	return nil
}
