package urbansim

// NetworkMode represents travel network flavor requested from the store
type NetworkMode uint16

const (
	NETWORK_DRIVE = NetworkMode(iota + 1)
	NETWORK_WALK
	NETWORK_UNDEFINED = NetworkMode(0)
)

func (iotaIdx NetworkMode) String() string {
	return [...]string{"undefined", "drive", "walk"}[iotaIdx]
}

// NetworkModeFromString returns matched network mode for given alias
func NetworkModeFromString(alias string) NetworkMode {
	switch alias {
	case "drive":
		return NETWORK_DRIVE
	case "walk":
		return NETWORK_WALK
	default:
		return NETWORK_UNDEFINED
	}
}

type AccessType uint16

const (
	ACCESS_HIGHWAY = AccessType(iota + 1)
	ACCESS_MOTOR_VEHICLE
	ACCESS_MOTORCAR
	ACCESS_OSM_ACCESS
	ACCESS_SERVICE
	ACCESS_FOOT
)

func (iotaIdx AccessType) String() string {
	return [...]string{"highway", "motor_vehicle", "motorcar", "access", "service", "foot"}[iotaIdx-1]
}

var (
	modeAccessIncludeValues = map[NetworkMode]map[AccessType]map[string]struct{}{
		NETWORK_DRIVE: {
			ACCESS_MOTOR_VEHICLE: {
				"yes": struct{}{},
			},
			ACCESS_MOTORCAR: {
				"yes": struct{}{},
			},
		},
		NETWORK_WALK: {
			ACCESS_FOOT: {
				"yes": struct{}{},
			},
		},
	}

	modeAccessExcludeValues = map[NetworkMode]map[AccessType]map[string]struct{}{
		NETWORK_DRIVE: {
			ACCESS_HIGHWAY: {
				"cycleway":      struct{}{},
				"footway":       struct{}{},
				"pedestrian":    struct{}{},
				"steps":         struct{}{},
				"track":         struct{}{},
				"corridor":      struct{}{},
				"elevator":      struct{}{},
				"escalator":     struct{}{},
				"service":       struct{}{},
				"living_street": struct{}{},
			},
			ACCESS_MOTOR_VEHICLE: {
				"no": struct{}{},
			},
			ACCESS_MOTORCAR: {
				"no": struct{}{},
			},
			ACCESS_OSM_ACCESS: {
				"private": struct{}{},
			},
			ACCESS_SERVICE: {
				"parking":          struct{}{},
				"parking_aisle":    struct{}{},
				"driveway":         struct{}{},
				"private":          struct{}{},
				"emergency_access": struct{}{},
			},
		},
		NETWORK_WALK: {
			ACCESS_HIGHWAY: {
				"cycleway":      struct{}{},
				"motor":         struct{}{},
				"motorway":      struct{}{},
				"motorway_link": struct{}{},
			},
			ACCESS_FOOT: {
				"no": struct{}{},
			},
			ACCESS_SERVICE: {
				"private": struct{}{},
			},
			ACCESS_OSM_ACCESS: {
				"private": struct{}{},
			},
		},
	}

	negligibleHighwayTags = map[string]struct{}{
		"path":         {},
		"construction": {},
		"proposed":     {},
		"raceway":      {},
		"bridleway":    {},
		"rest_area":    {},
		"su":           {},
		"road":         {},
		"abandoned":    {},
		"planned":      {},
		"trailhead":    {},
		"stairs":       {},
		"dismantled":   {},
		"disused":      {},
		"razed":        {},
		"access":       {},
		"corridor":     {},
		"stop":         {},
	}

	poiHighwayTags = map[string]struct{}{
		"bus_stop": {},
		"platform": {},
	}

	junctionTypes = map[string]struct{}{
		"circular":   {},
		"roundabout": {},
	}

	// See ref.: https://wiki.openstreetmap.org/wiki/Tag:oneway%3Dreversible
	onewayReversible = map[string]struct{}{
		"reversible":  {},
		"alternating": {},
	}
)
