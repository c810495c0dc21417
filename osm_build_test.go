package urbansim

import (
	"math"
	"testing"

	"github.com/paulmach/osm"
)

// Payload covering way splitting, oneway handling, access filters and speed tags:
// way 100 crosses way 105 at node 2, way 101 is oneway, way 102 is walk-only,
// way 106 follows reversed oneway with mph speed limit
const testOSMPayload = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
<node id="1" lat="55.752" lon="37.610"/>
<node id="2" lat="55.752" lon="37.611"/>
<node id="3" lat="55.752" lon="37.612"/>
<node id="4" lat="55.752" lon="37.613"/>
<node id="5" lat="55.752" lon="37.614"/>
<node id="6" lat="55.753" lon="37.611"/>
<node id="7" lat="55.751" lon="37.611"/>
<node id="8" lat="55.749" lon="37.611"/>
<way id="100">
<nd ref="1"/><nd ref="2"/><nd ref="3"/>
<tag k="highway" v="residential"/>
</way>
<way id="101">
<nd ref="3"/><nd ref="4"/>
<tag k="highway" v="residential"/>
<tag k="oneway" v="yes"/>
<tag k="maxspeed" v="60"/>
</way>
<way id="102">
<nd ref="4"/><nd ref="5"/>
<tag k="highway" v="footway"/>
</way>
<way id="105">
<nd ref="6"/><nd ref="2"/><nd ref="7"/>
<tag k="highway" v="residential"/>
</way>
<way id="106">
<nd ref="7"/><nd ref="8"/>
<tag k="highway" v="residential"/>
<tag k="oneway" v="-1"/>
<tag k="maxspeed" v="30 mph"/>
</way>
</osm>`

func TestBuildNetworkDrive(t *testing.T) {
	net, err := buildNetworkFromOSM([]byte(testOSMPayload), NETWORK_DRIVE, false)
	if err != nil {
		t.Error(err)
		return
	}
	// Node 5 belongs to walk-only footway and should not appear
	if net.NodesCount() != 7 {
		t.Errorf("Drive network should keep 7 nodes, but got %d", net.NodesCount())
	}
	if net.Node(5) != nil {
		t.Errorf("Footway node should not be in drive network")
	}
	if net.EdgesCount() != 10 {
		t.Errorf("Drive network should keep 10 directed edges, but got %d", net.EdgesCount())
	}
	// Crossing at node 2 splits both ways into segments
	if net.EdgeBetween(1, 2) == nil || net.EdgeBetween(2, 3) == nil {
		t.Errorf("Way should be split at the crossing node 2")
	}
	if net.EdgeBetween(1, 3) != nil {
		t.Errorf("Unsplit way edge between nodes 1 and 3 should not exist")
	}
	// Oneway keeps single direction
	if net.EdgeBetween(3, 4) == nil {
		t.Errorf("Oneway edge from node 3 to node 4 should exist")
	}
	if net.EdgeBetween(4, 3) != nil {
		t.Errorf("Oneway way should not produce the opposite edge")
	}
}

func TestBuildNetworkReversedOneway(t *testing.T) {
	net, err := buildNetworkFromOSM([]byte(testOSMPayload), NETWORK_DRIVE, false)
	if err != nil {
		t.Error(err)
		return
	}
	if net.EdgeBetween(7, 8) != nil {
		t.Errorf("Reversed oneway should not keep the drawing direction")
	}
	edge := net.EdgeBetween(8, 7)
	if edge == nil {
		t.Errorf("Reversed oneway edge from node 8 to node 7 should exist")
		return
	}
	// Geometry should follow the travel direction, not the drawing one
	if edge.geom[0].Lat() != 55.749 {
		t.Errorf("Reversed edge geometry should start at node 8, but starts at latitude %f", edge.geom[0].Lat())
	}
	if math.Abs(edge.freeSpeed-30.0*1.60934) > 0.001 {
		t.Errorf("Speed of 30 mph should convert to about 48.28 km/h, but got %f", edge.freeSpeed)
	}
}

func TestBuildNetworkSpeedDefaults(t *testing.T) {
	net, err := buildNetworkFromOSM([]byte(testOSMPayload), NETWORK_DRIVE, false)
	if err != nil {
		t.Error(err)
		return
	}
	if net.EdgeBetween(3, 4).freeSpeed != 60.0 {
		t.Errorf("Tagged maxspeed should be kept, but got %f", net.EdgeBetween(3, 4).freeSpeed)
	}
	if net.EdgeBetween(1, 2).freeSpeed != 30.0 {
		t.Errorf("Untagged residential way should fall back to 30 km/h, but got %f", net.EdgeBetween(1, 2).freeSpeed)
	}
	edge := net.EdgeBetween(1, 2)
	expectedWeight := edge.lengthMeters / (30.0 / 3.6)
	if math.Abs(edge.travelWeight-expectedWeight) > 1e-9 {
		t.Errorf("Travel weight should be free flow time in seconds, but got %f instead of %f", edge.travelWeight, expectedWeight)
	}
}

func TestBuildNetworkWalk(t *testing.T) {
	net, err := buildNetworkFromOSM([]byte(testOSMPayload), NETWORK_WALK, false)
	if err != nil {
		t.Error(err)
		return
	}
	if net.NodesCount() != 8 {
		t.Errorf("Walk network should keep all 8 nodes, but got %d", net.NodesCount())
	}
	if net.EdgesCount() != 14 {
		t.Errorf("Walk network should keep 14 directed edges, but got %d", net.EdgesCount())
	}
	// Footway is walkable
	if net.EdgeBetween(4, 5) == nil || net.EdgeBetween(5, 4) == nil {
		t.Errorf("Footway should be walkable in both directions")
	}
	// Oneway restrictions do not apply to pedestrians
	if net.EdgeBetween(4, 3) == nil {
		t.Errorf("Pedestrians should walk against driving direction")
	}
	if net.EdgeBetween(7, 8) == nil || net.EdgeBetween(8, 7) == nil {
		t.Errorf("Reversed oneway should be walkable in both directions")
	}
}

func TestBuildNetworkMissingNode(t *testing.T) {
	payload := `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
<node id="1" lat="55.752" lon="37.610"/>
<way id="100">
<nd ref="1"/><nd ref="99"/>
<tag k="highway" v="residential"/>
</way>
</osm>`
	_, err := buildNetworkFromOSM([]byte(payload), NETWORK_DRIVE, false)
	if err == nil {
		t.Errorf("Way referencing unknown node should fail the build")
	}
}

func TestBuildNetworkBrokenPayload(t *testing.T) {
	_, err := buildNetworkFromOSM([]byte(`<osm><way id="5">`), NETWORK_DRIVE, false)
	if err == nil {
		t.Errorf("Truncated XML should fail the build")
	}
}

func TestBuildNetworkUnknownMode(t *testing.T) {
	_, err := buildNetworkFromOSM([]byte(testOSMPayload), NETWORK_UNDEFINED, false)
	if err == nil {
		t.Errorf("Unknown mode should fail the build")
	}
}

func TestProcessTagsOneway(t *testing.T) {
	way := wayData{}
	way.processTags(osm.Tags{{Key: "highway", Value: "residential"}, {Key: "oneway", Value: "yes"}}, false)
	if !way.oneway || way.isReversed {
		t.Errorf("Oneway 'yes' should give plain oneway, but got oneway=%t reversed=%t", way.oneway, way.isReversed)
	}

	way = wayData{}
	way.processTags(osm.Tags{{Key: "highway", Value: "residential"}, {Key: "oneway", Value: "-1"}}, false)
	if !way.oneway || !way.isReversed {
		t.Errorf("Oneway '-1' should give reversed oneway, but got oneway=%t reversed=%t", way.oneway, way.isReversed)
	}

	way = wayData{}
	way.processTags(osm.Tags{{Key: "highway", Value: "residential"}, {Key: "oneway", Value: "reversible"}}, false)
	if way.oneway {
		t.Errorf("Reversible road should be treated as two-way")
	}

	way = wayData{}
	way.processTags(osm.Tags{{Key: "highway", Value: "residential"}, {Key: "junction", Value: "roundabout"}}, false)
	if !way.oneway {
		t.Errorf("Roundabout should always be oneway")
	}

	way = wayData{}
	way.processTags(osm.Tags{{Key: "highway", Value: "residential"}}, false)
	if !way.onewayDefault {
		t.Errorf("Untagged way should fall back to class default")
	}
}

func TestProcessTagsMaxspeed(t *testing.T) {
	way := wayData{}
	way.processTags(osm.Tags{{Key: "maxspeed", Value: "60"}}, false)
	if way.maxSpeed != 60.0 {
		t.Errorf("Plain number should be km/h, but got %f", way.maxSpeed)
	}

	way = wayData{}
	way.processTags(osm.Tags{{Key: "maxspeed", Value: "30 mph"}}, false)
	if math.Abs(way.maxSpeed-48.2802) > 0.001 {
		t.Errorf("Mph value should be converted to km/h, but got %f", way.maxSpeed)
	}

	way = wayData{}
	way.processTags(osm.Tags{{Key: "maxspeed", Value: "RU:urban"}}, false)
	if way.maxSpeed != -1.0 {
		t.Errorf("Unparsable value should leave speed undefined, but got %f", way.maxSpeed)
	}

	way = wayData{}
	way.processTags(osm.Tags{}, false)
	if way.maxSpeed != -1.0 {
		t.Errorf("Missing tag should leave speed undefined, but got %f", way.maxSpeed)
	}
}

func TestGetHighwayClass(t *testing.T) {
	if getHighwayClass("motorway_link") != HIGHWAY_MOTORWAY {
		t.Errorf("Link roads should collapse into the parent class")
	}
	if getHighwayClass("pedestrian") != HIGHWAY_FOOTWAY {
		t.Errorf("Pedestrian streets should collapse into footway class")
	}
	if getHighwayClass("spaceport") != HIGHWAY_UNDEFINED {
		t.Errorf("Unknown value should give undefined class")
	}
}
