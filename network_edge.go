package urbansim

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/osm"
)

/* Edges stuff */

type NetworkEdgeID int

type NetworkEdge struct {
	geom         orb.LineString
	lengthMeters float64
	travelWeight float64
	freeSpeed    float64
	capacity     int
	ID           NetworkEdgeID
	osmWayID     osm.WayID
	highwayClass HighwayClass
	sourceNodeID NetworkNodeID
	targetNodeID NetworkNodeID
	wasOneway    bool
}

type DirectionType uint16

const (
	DIRECTION_FORWARD = DirectionType(iota + 1)
	DIRECTION_BACKWARD
)

// Fallback speed (km/h) for ways of classes missing in defaults table
const fallbackFreeSpeed = 30.0

// networkEdgeFromOSM creates directed network edge for single direction of prepared way segment
func networkEdgeFromOSM(sourceNodeID, targetNodeID NetworkNodeID, direction DirectionType, way *wayData, geom orb.LineString) *NetworkEdge {
	freeSpeed := way.freeSpeed
	if freeSpeed <= 0 {
		if defaultSpeed, ok := defaultSpeedByHighwayClass[way.highwayClass]; ok {
			freeSpeed = defaultSpeed
		} else {
			freeSpeed = fallbackFreeSpeed
		}
	}
	if direction == DIRECTION_BACKWARD {
		geom = reverseLineString(geom)
	}
	lengthMeters := geo.LengthHaversign(geom)
	edge := NetworkEdge{
		geom:         geom,
		lengthMeters: lengthMeters,
		travelWeight: travelTimeSeconds(lengthMeters, freeSpeed),
		freeSpeed:    freeSpeed,
		ID:           -1,
		osmWayID:     way.ID,
		highwayClass: way.highwayClass,
		sourceNodeID: sourceNodeID,
		targetNodeID: targetNodeID,
		wasOneway:    way.oneway,
	}
	return &edge
}

// travelTimeSeconds returns free flow traversal time for given length (meters) and speed (km/h)
func travelTimeSeconds(lengthMeters, freeSpeedKmh float64) float64 {
	if freeSpeedKmh <= 0 {
		freeSpeedKmh = fallbackFreeSpeed
	}
	return lengthMeters / (freeSpeedKmh / 3.6)
}

// LengthMeters returns edge length in meters
func (edge *NetworkEdge) LengthMeters() float64 {
	return edge.lengthMeters
}

// midpoint returns point in the middle of edge endpoints (used by spatial index)
func (edge *NetworkEdge) midpoint() orb.Point {
	if len(edge.geom) == 0 {
		return orb.Point{}
	}
	first := edge.geom[0]
	last := edge.geom[len(edge.geom)-1]
	mid := middlePointSegment(GeoPoint{Lat: first.Lat(), Lon: first.Lon()}, GeoPoint{Lat: last.Lat(), Lon: last.Lon()})
	return orb.Point{mid.Lon, mid.Lat}
}
