package urbansim

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/osm"
)

// buildTestNetwork returns small grid with bidirectional residential edges:
//
//	1 - 2 - 3
//	|   |   |
//	4 - 5 - 6
//	|   |   |
//	7 - 8 - 9
//
// Node spacing is about 0.001 degrees (60-110 meters)
func buildTestNetwork() *RoadNetwork {
	net := NewRoadNetwork(NETWORK_DRIVE)
	coords := [][3]float64{ // id, lon, lat
		{1, 37.610, 55.752}, {2, 37.611, 55.752}, {3, 37.612, 55.752},
		{4, 37.610, 55.751}, {5, 37.611, 55.751}, {6, 37.612, 55.751},
		{7, 37.610, 55.750}, {8, 37.611, 55.750}, {9, 37.612, 55.750},
	}
	for _, c := range coords {
		net.addNode(networkNodeFromOSM(osm.NodeID(c[0]), c[1], c[2]))
	}
	pairs := [][2]NetworkNodeID{
		{1, 2}, {2, 3}, {4, 5}, {5, 6}, {7, 8}, {8, 9},
		{1, 4}, {4, 7}, {2, 5}, {5, 8}, {3, 6}, {6, 9},
	}
	for _, pair := range pairs {
		addTestEdge(net, pair[0], pair[1])
		addTestEdge(net, pair[1], pair[0])
	}
	return net
}

func addTestEdge(net *RoadNetwork, from, to NetworkNodeID) {
	geom := orb.LineString{net.Node(from).geom, net.Node(to).geom}
	lengthMeters := geo.LengthHaversign(geom)
	net.addEdge(&NetworkEdge{
		geom:         geom,
		lengthMeters: lengthMeters,
		travelWeight: travelTimeSeconds(lengthMeters, 40.0),
		freeSpeed:    40.0,
		highwayClass: HIGHWAY_RESIDENTIAL,
		sourceNodeID: from,
		targetNodeID: to,
	})
}

func TestNetworkAdjacency(t *testing.T) {
	net := buildTestNetwork()
	if net.NodesCount() != 9 {
		t.Errorf("Grid should keep 9 nodes, but got %d", net.NodesCount())
	}
	if net.EdgesCount() != 24 {
		t.Errorf("Grid should keep 24 directed edges, but got %d", net.EdgesCount())
	}
	center := net.Node(5)
	if center.Degree() != 8 {
		t.Errorf("Center node degree should be 8, but got %d", center.Degree())
	}
	corner := net.Node(1)
	if corner.Degree() != 4 {
		t.Errorf("Corner node degree should be 4, but got %d", corner.Degree())
	}
}

func TestEdgeBetween(t *testing.T) {
	net := buildTestNetwork()
	if net.EdgeBetween(1, 2) == nil {
		t.Errorf("Edge between nodes 1 and 2 should exist")
	}
	if net.EdgeBetween(1, 5) != nil {
		t.Errorf("Grid has no diagonal edges, but got one between nodes 1 and 5")
	}
	if net.EdgeBetween(100, 1) != nil {
		t.Errorf("Edge from unknown node should not exist")
	}
}

func TestNodeIDsSorted(t *testing.T) {
	net := buildTestNetwork()
	ids := net.NodeIDs()
	if len(ids) != 9 {
		t.Errorf("Should get 9 node identifiers, but got %d", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("Node identifiers should be sorted in ascending order, but got %v", ids)
			break
		}
	}
}

func TestNetworkBound(t *testing.T) {
	net := buildTestNetwork()
	bound := net.Bound()
	for _, id := range net.NodeIDs() {
		if !bound.Contains(net.Node(id).geom) {
			t.Errorf("Bound should contain node %d", id)
		}
	}
	if bound.Min.Lon() != 37.610 || bound.Max.Lon() != 37.612 {
		t.Errorf("Bound longitudes should be [37.610, 37.612], but got [%f, %f]", bound.Min.Lon(), bound.Max.Lon())
	}
}

func TestExportEdgesToCSV(t *testing.T) {
	net := buildTestNetwork()
	fname := filepath.Join(t.TempDir(), "edges.csv")
	err := net.ExportEdgesToCSV(fname)
	if err != nil {
		t.Error(err)
		return
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		t.Error(err)
		return
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != net.EdgesCount()+1 {
		t.Errorf("CSV should keep header and %d rows, but got %d lines", net.EdgesCount(), len(lines))
	}
	if !strings.HasPrefix(lines[0], "id;source_node;target_node") {
		t.Errorf("Unexpected CSV header: '%s'", lines[0])
	}
	if !strings.Contains(lines[1], "LINESTRING") {
		t.Errorf("Edge geometry should be WKT linestring, but got row '%s'", lines[1])
	}
}
