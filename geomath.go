package urbansim

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

const (
	earthRadius = 6370.986884258304
	pi180       = math.Pi / 180.0
	pi180Rev    = 180.0 / math.Pi
)

// GeoPoint representation of point on Earth
type GeoPoint struct {
	Lat float64
	Lon float64
}

// String returns pretty printed value for GeoPoint
func (gp GeoPoint) String() string {
	return fmt.Sprintf("Lon: %f | Lat: %f", gp.Lon, gp.Lat)
}

// degreesToRadians deg = r * pi / 180
func degreesToRadians(d float64) float64 {
	return d * pi180
}

// radiansTodegrees r = deg * 180 / pi
func radiansTodegrees(d float64) float64 {
	return d * pi180Rev
}

// greatCircleDistance returns distance between two geo-points (kilometers)
func greatCircleDistance(p, q GeoPoint) float64 {
	lat1 := degreesToRadians(p.Lat)
	lon1 := degreesToRadians(p.Lon)
	lat2 := degreesToRadians(q.Lat)
	lon2 := degreesToRadians(q.Lon)
	diffLat := lat2 - lat1
	diffLon := lon2 - lon1
	a := math.Pow(math.Sin(diffLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(diffLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	ans := c * earthRadius
	return ans
}

// middlePointSegment return middle point for given segment
func middlePointSegment(p, q GeoPoint) GeoPoint {
	lat1 := degreesToRadians(p.Lat)
	lon1 := degreesToRadians(p.Lon)
	lat2 := degreesToRadians(q.Lat)
	lon2 := degreesToRadians(q.Lon)

	Bx := math.Cos(lat2) * math.Cos(lon2-lon1)
	By := math.Cos(lat2) * math.Sin(lon2-lon1)

	latMid := math.Atan2(math.Sin(lat1)+math.Sin(lat2), math.Sqrt((math.Cos(lat1)+Bx)*(math.Cos(lat1)+Bx)+By*By))
	lonMid := lon1 + math.Atan2(By, math.Cos(lat1)+Bx)
	return GeoPoint{Lat: radiansTodegrees(latMid), Lon: radiansTodegrees(lonMid)}
}

// coordinateCentroid returns arithmetic mean of given points (degree space, not spherical)
func coordinateCentroid(points []GeoPoint) GeoPoint {
	totalPoints := len(points)
	if totalPoints == 0 {
		return GeoPoint{}
	}
	if totalPoints == 1 {
		return points[0]
	}
	lat, lon := 0.0, 0.0
	for i := 0; i < totalPoints; i++ {
		lat += points[i].Lat
		lon += points[i].Lon
	}
	return GeoPoint{
		Lat: lat / float64(totalPoints),
		Lon: lon / float64(totalPoints),
	}
}

// findDistance returns distance between two points (assuming they are Euclidean: Lon == X, Lat == Y)
func findDistance(p, q GeoPoint) float64 {
	xdistance := p.Lon - q.Lon
	ydistance := p.Lat - q.Lat
	return math.Sqrt(xdistance*xdistance + ydistance*ydistance)
}

// roundCoordinate rounds coordinate value to 5 decimal places (about 1 meter resolution)
func roundCoordinate(v float64) float64 {
	return math.Round(v*100000.0) / 100000.0
}

// reverseLineString reverses order of points in given line. Returns new slice
func reverseLineString(line orb.LineString) orb.LineString {
	inputLen := len(line)
	output := make(orb.LineString, inputLen)
	for i, pt := range line {
		j := inputLen - i - 1
		output[j] = pt
	}
	return output
}
