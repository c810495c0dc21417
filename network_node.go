package urbansim

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

/* Nodes stuff */

type NetworkNodeID int64

type NetworkNode struct {
	incomingEdges  []NetworkEdgeID
	outcomingEdges []NetworkEdgeID
	geom           orb.Point
	ID             NetworkNodeID
}

// networkNodeFromOSM creates network node from scanned OSM node
func networkNodeFromOSM(osmNodeID osm.NodeID, lon, lat float64) *NetworkNode {
	node := NetworkNode{
		incomingEdges:  make([]NetworkEdgeID, 0),
		outcomingEdges: make([]NetworkEdgeID, 0),
		ID:             NetworkNodeID(osmNodeID),
		geom:           orb.Point{lon, lat},
	}
	return &node
}

// Degree returns number of edge endpoints incident to the node (incoming plus outcoming)
func (node *NetworkNode) Degree() int {
	return len(node.incomingEdges) + len(node.outcomingEdges)
}

// GeoPoint returns node position on Earth
func (node *NetworkNode) GeoPoint() GeoPoint {
	return GeoPoint{Lat: node.geom.Lat(), Lon: node.geom.Lon()}
}
