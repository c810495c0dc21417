package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/nmezzetti/urbansim"
)

var (
	lat         = flag.Float64("lat", 55.7522, "Latitude of the simulated area center")
	lon         = flag.Float64("lon", 37.6156, "Longitude of the simulated area center")
	radius      = flag.Float64("radius", 1000.0, "Radius of the simulated area (meters)")
	vehicles    = flag.Int("vehicles", 100, "Number of vehicle agents (cars and trucks)")
	pedestrians = flag.Int("pedestrians", 0, "Number of pedestrian agents")
	duration    = flag.Int("ticks", 100, "Duration of the simulation (ticks)")
	timeOfDay   = flag.String("time", "offpeak", "Time of day shaping demand. Expected values: morning / evening / offpeak")
	seed        = flag.Int64("seed", 42, "Random seed. Same seed gives same records")
	workers     = flag.Int("workers", 10, "Number of parallel routing workers")
	barrierStr  = flag.String("barriers", "", "Road barriers as 'lat,lon' pairs separated by semicolon. E.g.: '55.75,37.61;55.76,37.62'")
	out         = flag.String("out", "trajectories.csv", "Filename of 'Comma-Separated Values' (CSV) formatted file for agent trajectories")
	edgesOut    = flag.String("edges", "", "Filename of CSV formatted file for road network edges (optional)")
	geojsonOut  = flag.String("geojson", "", "Filename of GeoJSON formatted file for agent trajectories (optional)")
	cacheDir    = flag.String("cache", "network_cache", "Directory for cached OSM payloads")
	endpointURL = flag.String("url", "", "Overpass API endpoint. Default endpoint is used when empty")
	verbose     = flag.Bool("verbose", true, "Print progress of simulation stages?")
)

func main() {

	flag.Parse()

	dayTime := urbansim.TimeOfDayFromString(*timeOfDay)
	if dayTime == urbansim.TIME_UNDEFINED {
		fmt.Printf("Unknown time of day: '%s'\n", *timeOfDay)
		return
	}
	barriers, err := parseBarriers(*barrierStr)
	if err != nil {
		fmt.Println(err)
		return
	}

	storeOptions := []func(*urbansim.NetworkStore){
		urbansim.WithCacheDir(*cacheDir),
		urbansim.WithStoreVerbose(*verbose),
	}
	if *endpointURL != "" {
		storeOptions = append(storeOptions, urbansim.WithEndpointURL(*endpointURL))
	}
	store := urbansim.NewNetworkStore(storeOptions...)
	engine := urbansim.NewEngine(store, urbansim.WithWorkers(*workers), urbansim.WithEngineVerbose(*verbose))

	result, err := engine.RunScenario(urbansim.ScenarioRequest{
		Center:        urbansim.GeoPoint{Lat: *lat, Lon: *lon},
		RadiusMeters:  *radius,
		TimeOfDay:     dayTime,
		Vehicles:      *vehicles,
		Pedestrians:   *pedestrians,
		DurationTicks: *duration,
		Seed:          *seed,
		Barriers:      barriers,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	if result.EmptyPopulation {
		fmt.Println("[WARNING]: No agents entered the simulation. Check population size and network connectivity")
	}

	/* Trajectories file */
	err = urbansim.ExportRecordsToCSV(result.Records, *out)
	if err != nil {
		fmt.Println(err)
		return
	}

	/* Edges file (optional) */
	if *edgesOut != "" {
		err = result.Network.ExportEdgesToCSV(*edgesOut)
		if err != nil {
			fmt.Println(err)
			return
		}
	}

	/* GeoJSON file (optional) */
	if *geojsonOut != "" {
		err = urbansim.ExportGeoJSON(urbansim.RecordsToGeoJSON(result.Records), *geojsonOut)
		if err != nil {
			fmt.Println(err)
			return
		}
	}

	fmt.Printf("Run '%s' finished in %v\n", result.RunID, result.Elapsed)
	fmt.Printf("\tAgents: %d (discarded tasks: %d)\n", result.Report.AgentsCreated, result.Report.TasksDiscarded)
	fmt.Printf("\tRecords: %d\n", len(result.Records))
	fmt.Printf("\tSuccess rate: %.2f\n", result.Stats.SuccessRate)
	fmt.Printf("\tDelay index: %.2f\n", result.Stats.DelayIndex)
	fmt.Printf("\tAverage travel time: %.1f ticks\n", result.Stats.AverageTravelTime)
	fmt.Printf("\tTotal distance: %.2f km\n", result.Stats.TotalDistanceKm)
}

// parseBarriers extracts barrier points from 'lat,lon;lat,lon' formatted string
func parseBarriers(value string) ([]urbansim.GeoPoint, error) {
	if value == "" {
		return nil, nil
	}
	pairs := strings.Split(value, ";")
	barriers := make([]urbansim.GeoPoint, 0, len(pairs))
	for _, pair := range pairs {
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("Barrier should be 'lat,lon' pair. Got: '%s'", pair)
		}
		barrierLat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("Can't parse barrier latitude: '%s'", parts[0])
		}
		barrierLon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("Can't parse barrier longitude: '%s'", parts[1])
		}
		barriers = append(barriers, urbansim.GeoPoint{Lat: barrierLat, Lon: barrierLon})
	}
	return barriers, nil
}
