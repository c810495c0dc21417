package urbansim

import (
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// PrepareGeoJSONLinestring returns GeoJSON representation of LineString
func PrepareGeoJSONLinestring(pts []GeoPoint) string {
	pts2d := make([][]float64, len(pts))
	for i := range pts {
		pts2d[i] = []float64{pts[i].Lon, pts[i].Lat}
	}
	b, err := geojson.NewLineStringGeometry(pts2d).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// PrepareGeoJSONPoint returns GeoJSON representation of Point
func PrepareGeoJSONPoint(pt GeoPoint) string {
	b, err := geojson.NewPointGeometry([]float64{pt.Lon, pt.Lat}).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// NetworkToGeoJSON converts road network edges into GeoJSON feature collection
func NetworkToGeoJSON(net *RoadNetwork) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, edge := range net.edges {
		pts2d := make([][]float64, len(edge.geom))
		for i := range edge.geom {
			pts2d[i] = []float64{edge.geom[i].Lon(), edge.geom[i].Lat()}
		}
		feature := geojson.NewLineStringFeature(pts2d)
		feature.SetProperty("id", int(edge.ID))
		feature.SetProperty("source_node", int64(edge.sourceNodeID))
		feature.SetProperty("target_node", int64(edge.targetNodeID))
		feature.SetProperty("highway_class", edge.highwayClass.String())
		feature.SetProperty("length_meters", edge.lengthMeters)
		feature.SetProperty("travel_weight", edge.travelWeight)
		feature.SetProperty("capacity", edge.capacity)
		fc.AddFeature(feature)
	}
	return fc
}

// RecordsToGeoJSON converts trajectory records into GeoJSON feature collection of points
func RecordsToGeoJSON(records []TrajectoryRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range records {
		feature := geojson.NewPointFeature([]float64{records[i].Lon, records[i].Lat})
		feature.SetProperty("tick", records[i].Tick)
		feature.SetProperty("agent_id", records[i].AgentID)
		feature.SetProperty("kind", records[i].Kind.String())
		feature.SetProperty("status", records[i].Status.String())
		fc.AddFeature(feature)
	}
	return fc
}

// ExportGeoJSON saves feature collection to file
func ExportGeoJSON(fc *geojson.FeatureCollection, fname string) error {
	b, err := fc.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Can't marshal feature collection")
	}
	if err := os.WriteFile(fname, b, 0644); err != nil {
		return errors.Wrap(err, "Can't write file")
	}
	return nil
}
