package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/nmezzetti/urbansim"
)

// Run lifecycle statuses exposed by the API
const (
	statusRunning = "running"
	statusDone    = "done"
	statusFailed  = "failed"
)

// simulationRequest is a JSON body for launching new simulation run
type simulationRequest struct {
	Lat           float64     `json:"lat"`
	Lon           float64     `json:"lon"`
	RadiusMeters  float64     `json:"radius_meters"`
	TimeOfDay     string      `json:"time_of_day"`
	Vehicles      int         `json:"vehicles"`
	Pedestrians   int         `json:"pedestrians"`
	DurationTicks int         `json:"duration_ticks"`
	Seed          int64       `json:"seed"`
	Barriers      [][]float64 `json:"barriers"`
}

// simulationRun keeps state of single launched run in the registry
type simulationRun struct {
	ID     string
	Status string
	Error  string
	Result *urbansim.ScenarioResult
}

// trajectoryPoint is a single sampled agent position in the API response
type trajectoryPoint struct {
	Tick    int     `json:"tick"`
	AgentID string  `json:"agent_id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Kind    string  `json:"kind"`
	Status  string  `json:"status"`
}

// simulationResponse is a JSON answer for run state queries
type simulationResponse struct {
	ID              string                  `json:"id"`
	Status          string                  `json:"status"`
	Error           string                  `json:"error,omitempty"`
	EmptyPopulation bool                    `json:"empty_population,omitempty"`
	AgentsCreated   int                     `json:"agents_created,omitempty"`
	TasksDiscarded  int                     `json:"tasks_discarded,omitempty"`
	BlockedEdges    int                     `json:"blocked_edges,omitempty"`
	Stats           *urbansim.ScenarioStats `json:"stats,omitempty"`
	Records         []trajectoryPoint       `json:"records,omitempty"`
}

var (
	runsMu sync.RWMutex
	runs   = map[string]*simulationRun{}
	engine *urbansim.Engine
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, going with environment as is")
	}
	listenAddr := envString("LISTEN_ADDR", ":8080")
	cacheDir := envString("CACHE_DIR", "network_cache")
	overpassURL := envString("OVERPASS_URL", "")
	workers := envInt("ROUTING_WORKERS", 10)
	maxAgents := envInt("MAX_AGENTS", 0)

	storeOptions := []func(*urbansim.NetworkStore){
		urbansim.WithCacheDir(cacheDir),
	}
	if overpassURL != "" {
		storeOptions = append(storeOptions, urbansim.WithEndpointURL(overpassURL))
	}
	engineOptions := []func(*urbansim.Engine){
		urbansim.WithWorkers(workers),
	}
	if maxAgents > 0 {
		engineOptions = append(engineOptions, urbansim.WithMaxAgents(maxAgents))
	}
	engine = urbansim.NewEngine(urbansim.NewNetworkStore(storeOptions...), engineOptions...)

	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler).Methods("GET")
	router.HandleFunc("/api/simulations", launchHandler).Methods("POST")
	router.HandleFunc("/api/simulations/{id}", runHandler).Methods("GET")
	router.HandleFunc("/api/simulations/{id}/geojson", runGeoJSONHandler).Methods("GET")

	log.WithFields(log.Fields{"addr": listenAddr, "workers": workers}).Info("Starting urbansim server")
	log.Fatal(http.ListenAndServe(listenAddr, router))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// launchHandler validates request, registers new run and starts it in the background
func launchHandler(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	timeOfDay := urbansim.TIME_OFFPEAK
	if req.TimeOfDay != "" {
		timeOfDay = urbansim.TimeOfDayFromString(req.TimeOfDay)
		if timeOfDay == urbansim.TIME_UNDEFINED {
			writeError(w, http.StatusBadRequest, "unknown time of day: "+req.TimeOfDay)
			return
		}
	}
	barriers := make([]urbansim.GeoPoint, 0, len(req.Barriers))
	for _, pair := range req.Barriers {
		if len(pair) != 2 {
			writeError(w, http.StatusBadRequest, "barrier should be [lat, lon] pair")
			return
		}
		barriers = append(barriers, urbansim.GeoPoint{Lat: pair[0], Lon: pair[1]})
	}

	runID := uuid.NewString()
	run := &simulationRun{ID: runID, Status: statusRunning}
	runsMu.Lock()
	runs[runID] = run
	runsMu.Unlock()

	request := urbansim.ScenarioRequest{
		Center:        urbansim.GeoPoint{Lat: req.Lat, Lon: req.Lon},
		RadiusMeters:  req.RadiusMeters,
		TimeOfDay:     timeOfDay,
		Vehicles:      req.Vehicles,
		Pedestrians:   req.Pedestrians,
		DurationTicks: req.DurationTicks,
		Seed:          req.Seed,
		Barriers:      barriers,
		RunID:         runID,
	}
	log.WithFields(log.Fields{"run_id": runID, "vehicles": req.Vehicles, "pedestrians": req.Pedestrians}).Info("Launching simulation")
	go executeRun(run, request)

	writeJSON(w, http.StatusAccepted, simulationResponse{ID: runID, Status: statusRunning})
}

// executeRun drives single scenario to completion and stores the outcome
func executeRun(run *simulationRun, request urbansim.ScenarioRequest) {
	result, err := engine.RunScenario(request)
	runsMu.Lock()
	defer runsMu.Unlock()
	if err != nil {
		run.Status = statusFailed
		run.Error = err.Error()
		log.WithError(err).WithField("run_id", run.ID).Error("Simulation failed")
		return
	}
	run.Status = statusDone
	run.Result = result
	log.WithFields(log.Fields{"run_id": run.ID, "records": len(result.Records), "elapsed": result.Elapsed}).Info("Simulation finished")
}

func runHandler(w http.ResponseWriter, r *http.Request) {
	runsMu.RLock()
	run, ok := runs[mux.Vars(r)["id"]]
	if !ok {
		runsMu.RUnlock()
		writeError(w, http.StatusNotFound, "no such run")
		return
	}
	resp := simulationResponse{ID: run.ID, Status: run.Status, Error: run.Error}
	if run.Result != nil {
		resp.EmptyPopulation = run.Result.EmptyPopulation
		resp.AgentsCreated = run.Result.Report.AgentsCreated
		resp.TasksDiscarded = run.Result.Report.TasksDiscarded
		resp.BlockedEdges = run.Result.BlockedEdges
		resp.Stats = run.Result.Stats
		resp.Records = make([]trajectoryPoint, 0, len(run.Result.Records))
		for _, record := range run.Result.Records {
			resp.Records = append(resp.Records, trajectoryPoint{
				Tick:    record.Tick,
				AgentID: record.AgentID,
				Lat:     record.Lat,
				Lon:     record.Lon,
				Kind:    record.Kind.String(),
				Status:  record.Status.String(),
			})
		}
	}
	runsMu.RUnlock()
	writeJSON(w, http.StatusOK, resp)
}

// runGeoJSONHandler serves finished run records as GeoJSON feature collection
func runGeoJSONHandler(w http.ResponseWriter, r *http.Request) {
	runsMu.RLock()
	run, ok := runs[mux.Vars(r)["id"]]
	if !ok {
		runsMu.RUnlock()
		writeError(w, http.StatusNotFound, "no such run")
		return
	}
	if run.Status != statusDone {
		status := run.Status
		runsMu.RUnlock()
		writeError(w, http.StatusConflict, "run is not finished yet: "+status)
		return
	}
	fc := urbansim.RecordsToGeoJSON(run.Result.Records)
	runsMu.RUnlock()
	data, err := fc.MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "can't marshal records")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
