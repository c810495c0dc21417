package urbansim

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

/* Network storage stuff */

const (
	defaultOverpassURL  = "https://overpass-api.de/api/interpreter"
	defaultFetchTimeout = 180 * time.Second
	defaultCacheDir     = "network_cache"
)

// GraphSource provides road networks for scenario runs
type GraphSource interface {
	FetchNetwork(center GeoPoint, radiusMeters float64, mode NetworkMode) (*RoadNetwork, error)
}

// NetworkStore loads road networks from Overpass-like endpoint and caches raw payloads on disk
type NetworkStore struct {
	client      *http.Client
	endpointURL string
	cacheDir    string
	verbose     bool
}

// NewNetworkStore creates network store. Options pattern is used for additional parameters
func NewNetworkStore(options ...func(*NetworkStore)) *NetworkStore {
	store := &NetworkStore{
		client:      &http.Client{Timeout: defaultFetchTimeout},
		endpointURL: defaultOverpassURL,
		cacheDir:    defaultCacheDir,
	}
	for _, option := range options {
		option(store)
	}
	return store
}

// WithEndpointURL sets custom Overpass-like endpoint for store
func WithEndpointURL(endpointURL string) func(*NetworkStore) {
	return func(store *NetworkStore) {
		store.endpointURL = endpointURL
	}
}

// WithCacheDir sets directory for cached network payloads
func WithCacheDir(cacheDir string) func(*NetworkStore) {
	return func(store *NetworkStore) {
		store.cacheDir = cacheDir
	}
}

// WithFetchTimeout sets timeout for single fetch call
func WithFetchTimeout(timeout time.Duration) func(*NetworkStore) {
	return func(store *NetworkStore) {
		store.client.Timeout = timeout
	}
}

// WithStoreVerbose sets verbose mode for store
func WithStoreVerbose(verbose bool) func(*NetworkStore) {
	return func(store *NetworkStore) {
		store.verbose = verbose
	}
}

// FetchNetwork returns road network built for given center, radius (meters) and travel mode.
// Raw payload is cached on disk, warm calls never touch the endpoint
func (store *NetworkStore) FetchNetwork(center GeoPoint, radiusMeters float64, mode NetworkMode) (*RoadNetwork, error) {
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("Radius should be positive. Got '%f'", radiusMeters)
	}
	if _, ok := modeAccessExcludeValues[mode]; !ok {
		return nil, fmt.Errorf("Unknown network mode: '%d'", mode)
	}

	cacheFname := filepath.Join(store.cacheDir, store.cacheFileName(center, radiusMeters, mode))
	payload, cached := store.readCached(cacheFname)
	if cached {
		net, err := buildNetworkFromOSM(payload, mode, store.verbose)
		if err == nil {
			return net, nil
		}
		if store.verbose {
			fmt.Printf("\n\t[WARNING]: Cached payload is not usable, refetching. File: '%s'\n", cacheFname)
		}
	}

	payload, err := store.fetchPayload(center, radiusMeters)
	if err != nil {
		return nil, markKind(ErrNetworkUnavailable, err)
	}
	net, err := buildNetworkFromOSM(payload, mode, store.verbose)
	if err != nil {
		return nil, markKind(ErrNetworkUnavailable, errors.Wrap(err, "Malformed payload"))
	}
	if err := store.writeCached(cacheFname, payload); err != nil && store.verbose {
		fmt.Printf("\n\t[WARNING]: Can't cache payload: %s\n", err.Error())
	}
	return net, nil
}

// cacheFileName builds content-addressed file name for given fetch parameters.
// Center coordinates are rounded to 4 decimal places so close-enough requests share single cache entry
func (store *NetworkStore) cacheFileName(center GeoPoint, radiusMeters float64, mode NetworkMode) string {
	key := fmt.Sprintf("%.4f_%.4f_%.0f_%s", center.Lat, center.Lon, radiusMeters, mode)
	sum := md5.Sum([]byte(key))
	return fmt.Sprintf("network_%s.osm", hex.EncodeToString(sum[:]))
}

func (store *NetworkStore) readCached(fname string) ([]byte, bool) {
	payload, err := os.ReadFile(fname)
	if err != nil || len(payload) == 0 {
		return nil, false
	}
	if store.verbose {
		fmt.Printf("Using cached network payload '%s'\n", fname)
	}
	return payload, true
}

func (store *NetworkStore) writeCached(fname string, payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(fname), 0755); err != nil {
		return errors.Wrap(err, "Can't create cache directory")
	}
	if err := os.WriteFile(fname, payload, 0644); err != nil {
		return errors.Wrap(err, "Can't write cache file")
	}
	return nil
}

func (store *NetworkStore) fetchPayload(center GeoPoint, radiusMeters float64) ([]byte, error) {
	if store.verbose {
		fmt.Printf("Fetching network payload...")
	}
	st := time.Now()
	query := overpassQuery(center, radiusMeters)
	resp, err := store.client.PostForm(store.endpointURL, url.Values{"data": []string{query}})
	if err != nil {
		return nil, errors.Wrap(err, "Can't call endpoint")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Endpoint answered with status '%d'", resp.StatusCode)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read response body")
	}
	if store.verbose {
		fmt.Printf("Done in %v\n\tBytes: %d\n", time.Since(st), len(payload))
	}
	return payload, nil
}

// overpassQuery builds Overpass QL query gathering highway ways with their nodes around the center
func overpassQuery(center GeoPoint, radiusMeters float64) string {
	return fmt.Sprintf("[out:xml][timeout:180];(way[\"highway\"](around:%.0f,%.5f,%.5f);>;);out body;", radiusMeters, center.Lat, center.Lon)
}
