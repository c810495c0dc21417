package urbansim

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

/* OSM payload processing */

type wayData struct {
	highway       string
	junction      string
	area          string
	motorVehicle  string
	access        string
	motorcar      string
	service       string
	foot          string
	building      string
	amenity       string
	leisure       string
	Nodes         []osm.NodeID
	ID            osm.WayID
	maxSpeed      float64
	freeSpeed     float64
	highwayClass  HighwayClass
	oneway        bool
	onewayDefault bool
	isReversed    bool
}

type nodeData struct {
	node     osm.Node
	ID       osm.NodeID
	useCount int
}

var (
	mphRegExp     = regexp.MustCompile(`\d+\.?\d* mph`)
	numericRegExp = regexp.MustCompile(`\d+\.?\d*`)
)

func (way *wayData) processTags(tags osm.Tags, verbose bool) {
	way.highway = tags.Find("highway")
	way.junction = tags.Find("junction")
	way.area = tags.Find("area")
	way.motorVehicle = tags.Find("motor_vehicle")
	way.access = tags.Find("access")
	way.motorcar = tags.Find("motorcar")
	way.service = tags.Find("service")
	way.foot = tags.Find("foot")
	way.building = tags.Find("building")
	way.amenity = tags.Find("amenity")
	way.leisure = tags.Find("leisure")

	way.maxSpeed = -1.0
	way.freeSpeed = -1.0
	maxSpeed := tags.Find("maxspeed")
	if maxSpeed != "" {
		if mphMaxSpeed := mphRegExp.FindString(maxSpeed); mphMaxSpeed != "" {
			value, err := strconv.ParseFloat(numericRegExp.FindString(mphMaxSpeed), 64)
			if err == nil {
				way.maxSpeed = value * 1.60934
			} else if verbose {
				fmt.Printf("\n\t[WARNING]: Provided `maxspeed` tag value should be a float (mph). Got '%s'. Way ID: '%d'\n", maxSpeed, way.ID)
			}
		} else if numMaxSpeed := numericRegExp.FindString(maxSpeed); numMaxSpeed != "" {
			value, err := strconv.ParseFloat(numMaxSpeed, 64)
			if err == nil {
				way.maxSpeed = value
			} else if verbose {
				fmt.Printf("\n\t[WARNING]: Provided `maxspeed` tag value should be a float (km/h). Got '%s'. Way ID: '%d'\n", maxSpeed, way.ID)
			}
		}
	}
	way.freeSpeed = way.maxSpeed

	oneway := tags.Find("oneway")
	switch oneway {
	case "yes", "true", "1":
		way.oneway = true
	case "no", "false", "0":
		way.oneway = false
	case "-1", "T", "reverse":
		way.oneway = true
		way.isReversed = true
	default:
		if _, ok := onewayReversible[oneway]; ok {
			way.oneway = false
		} else {
			way.onewayDefault = true
		}
	}
	if _, ok := junctionTypes[way.junction]; ok {
		way.oneway = true
	}
}

func (way *wayData) isPOI() bool {
	if way.building != "" || way.amenity != "" || way.leisure != "" {
		return true
	}
	return false
}

func (way *wayData) isHighway() bool {
	return way.highway != ""
}

func (way *wayData) isHighwayPOI() bool {
	if _, ok := poiHighwayTags[way.highway]; ok {
		return true
	}
	return false
}

func (way *wayData) isHighwayNegligible() bool {
	_, ok := negligibleHighwayTags[way.highway]
	return ok
}

func (way *wayData) findIncludedMode(mode NetworkMode) bool {
	accessType, ok := modeAccessIncludeValues[mode]
	if !ok {
		return false
	}
	switch mode {
	case NETWORK_DRIVE:
		// Check `motor_vehicle`
		if _, ok := accessType[ACCESS_MOTOR_VEHICLE][way.motorVehicle]; ok {
			return true
		}
		// Check `motorcar`
		if _, ok := accessType[ACCESS_MOTORCAR][way.motorcar]; ok {
			return true
		}
	case NETWORK_WALK:
		// Check `foot`
		if _, ok := accessType[ACCESS_FOOT][way.foot]; ok {
			return true
		}
	default:
		return false
	}
	return false
}

func (way *wayData) findExcludedMode(mode NetworkMode) bool {
	accessType, ok := modeAccessExcludeValues[mode]
	if !ok {
		return true
	}
	switch mode {
	case NETWORK_DRIVE:
		// Check `highway`
		if _, ok := accessType[ACCESS_HIGHWAY][way.highway]; ok {
			return false
		}
		// Check `motor_vehicle`
		if _, ok := accessType[ACCESS_MOTOR_VEHICLE][way.motorVehicle]; ok {
			return false
		}
		// Check `motorcar`
		if _, ok := accessType[ACCESS_MOTORCAR][way.motorcar]; ok {
			return false
		}
		// Check `access`
		if _, ok := accessType[ACCESS_OSM_ACCESS][way.access]; ok {
			return false
		}
		// Check `service`
		if _, ok := accessType[ACCESS_SERVICE][way.service]; ok {
			return false
		}
	case NETWORK_WALK:
		// Check `highway`
		if _, ok := accessType[ACCESS_HIGHWAY][way.highway]; ok {
			return false
		}
		// Check `foot`
		if _, ok := accessType[ACCESS_FOOT][way.foot]; ok {
			return false
		}
		// Check `service`
		if _, ok := accessType[ACCESS_SERVICE][way.service]; ok {
			return false
		}
		// Check `access`
		if _, ok := accessType[ACCESS_OSM_ACCESS][way.access]; ok {
			return false
		}
	default:
		return true
	}
	return true
}

// allowedForMode follows include-then-exclude access tag resolution
func (way *wayData) allowedForMode(mode NetworkMode) bool {
	if way.findIncludedMode(mode) {
		return true
	}
	return way.findExcludedMode(mode)
}

// buildNetworkFromOSM assembles road network for given mode from raw OSM XML payload
func buildNetworkFromOSM(payload []byte, mode NetworkMode, verbose bool) (*RoadNetwork, error) {
	if _, ok := modeAccessExcludeValues[mode]; !ok {
		return nil, fmt.Errorf("Unknown network mode: '%d'", mode)
	}
	ways, nodesSeen, err := scanWays(payload, mode, verbose)
	if err != nil {
		return nil, errors.Wrap(err, "Can't scan ways")
	}
	nodes, err := scanNodes(payload, nodesSeen, verbose)
	if err != nil {
		return nil, errors.Wrap(err, "Can't scan nodes")
	}
	net, err := assembleNetwork(ways, nodes, mode, verbose)
	if err != nil {
		return nil, errors.Wrap(err, "Can't assemble road network")
	}
	return net, nil
}

func scanWays(payload []byte, mode NetworkMode, verbose bool) ([]*wayData, map[osm.NodeID]struct{}, error) {
	if verbose {
		fmt.Printf("Scanning ways...")
	}
	st := time.Now()

	scanner := osmxml.New(context.Background(), bytes.NewReader(payload))
	defer scanner.Close()

	ways := make([]*wayData, 0)
	nodesSeen := make(map[osm.NodeID]struct{})
	for scanner.Scan() {
		obj := scanner.Object()
		if obj.ObjectID().Type() != "way" {
			continue
		}
		wayOSM := obj.(*osm.Way)
		if len(wayOSM.Nodes) < 2 {
			if verbose {
				fmt.Printf("\n\t[WARNING]: Way with %d nodes met. Way ID: '%d'\n", len(wayOSM.Nodes), wayOSM.ID)
			}
			continue
		}
		way := wayData{
			ID:    wayOSM.ID,
			Nodes: make([]osm.NodeID, 0, len(wayOSM.Nodes)),
		}
		way.processTags(wayOSM.Tags, verbose)
		if way.isPOI() || !way.isHighway() || way.isHighwayPOI() {
			continue
		}
		// Ignore ways with `area` tag provided
		if way.area != "" && way.area != "no" {
			continue
		}
		// Ignore ways of negligible types
		if way.isHighwayNegligible() {
			continue
		}
		way.highwayClass = getHighwayClass(way.highway)
		if way.highwayClass == HIGHWAY_UNDEFINED {
			if verbose {
				fmt.Printf("\n\t[WARNING]: Unhandled `highway` tag value: '%s'. Way ID: '%d'\n", way.highway, way.ID)
			}
			continue
		}
		if !way.allowedForMode(mode) {
			continue
		}
		if way.onewayDefault {
			// Apply default `oneway` if it hasn't been defined yet
			way.oneway = onewayDefaultByClass[way.highwayClass]
		}
		// Pedestrians are free to walk against driving direction
		if mode == NETWORK_WALK {
			way.oneway = false
			way.isReversed = false
		}
		for _, wayNode := range wayOSM.Nodes {
			way.Nodes = append(way.Nodes, wayNode.ID)
			nodesSeen[wayNode.ID] = struct{}{}
		}
		ways = append(ways, &way)
	}
	if scanner.Err() != nil {
		return nil, nil, errors.Wrap(scanner.Err(), "Scanner error on ways")
	}
	if verbose {
		fmt.Printf("Done in %v\n\tWays: %d\n", time.Since(st), len(ways))
	}
	return ways, nodesSeen, nil
}

func scanNodes(payload []byte, nodesSeen map[osm.NodeID]struct{}, verbose bool) (map[osm.NodeID]*nodeData, error) {
	if verbose {
		fmt.Printf("Scanning nodes...")
	}
	st := time.Now()

	scanner := osmxml.New(context.Background(), bytes.NewReader(payload))
	defer scanner.Close()

	nodes := make(map[osm.NodeID]*nodeData)
	for scanner.Scan() {
		obj := scanner.Object()
		if obj.ObjectID().Type() != "node" {
			continue
		}
		nodeOSM := obj.(*osm.Node)
		if _, ok := nodesSeen[nodeOSM.ID]; ok {
			nodes[nodeOSM.ID] = &nodeData{
				ID:   nodeOSM.ID,
				node: *nodeOSM,
			}
		}
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "Scanner error on nodes")
	}
	if verbose {
		fmt.Printf("Done in %v\n\tNodes: %d\n", time.Since(st), len(nodes))
	}
	return nodes, nil
}

func assembleNetwork(ways []*wayData, nodes map[osm.NodeID]*nodeData, mode NetworkMode, verbose bool) (*RoadNetwork, error) {
	if verbose {
		fmt.Printf("Counting node use cases...")
	}
	st := time.Now()
	for _, way := range ways {
		for i, nodeID := range way.Nodes {
			node, ok := nodes[nodeID]
			if !ok {
				return nil, fmt.Errorf("Missing node with ID: '%d'. Way ID: '%d'", nodeID, way.ID)
			}
			if i == 0 || i == len(way.Nodes)-1 {
				node.useCount += 2
			} else {
				node.useCount++
			}
		}
	}
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}

	if verbose {
		fmt.Printf("Preparing edges...")
	}
	st = time.Now()
	net := NewRoadNetwork(mode)
	for _, way := range ways {
		var sourceOSM osm.NodeID
		geometry := make(orb.LineString, 0, len(way.Nodes))
		for i, nodeID := range way.Nodes {
			node := nodes[nodeID]
			pt := orb.Point{node.node.Lon, node.node.Lat}
			if i == 0 {
				sourceOSM = nodeID
				geometry = append(geometry, pt)
				continue
			}
			geometry = append(geometry, pt)
			// Ways are split into segments at shared (crossing) nodes
			if node.useCount > 1 {
				source := nodes[sourceOSM]
				if net.Node(NetworkNodeID(sourceOSM)) == nil {
					net.addNode(networkNodeFromOSM(sourceOSM, source.node.Lon, source.node.Lat))
				}
				if net.Node(NetworkNodeID(nodeID)) == nil {
					net.addNode(networkNodeFromOSM(nodeID, node.node.Lon, node.node.Lat))
				}
				segmentGeom := make(orb.LineString, len(geometry))
				copy(segmentGeom, geometry)
				from := NetworkNodeID(sourceOSM)
				to := NetworkNodeID(nodeID)
				if way.isReversed {
					net.addEdge(networkEdgeFromOSM(to, from, DIRECTION_BACKWARD, way, segmentGeom))
				} else {
					net.addEdge(networkEdgeFromOSM(from, to, DIRECTION_FORWARD, way, segmentGeom))
					if !way.oneway {
						net.addEdge(networkEdgeFromOSM(to, from, DIRECTION_BACKWARD, way, segmentGeom))
					}
				}
				sourceOSM = nodeID
				geometry = orb.LineString{pt}
			}
		}
	}
	if verbose {
		fmt.Printf("Done in %v\n\tNodes: %d, Edges: %d\n", time.Since(st), net.NodesCount(), net.EdgesCount())
	}
	return net, nil
}
