package urbansim

type HighwayClass uint16

const (
	HIGHWAY_MOTORWAY = HighwayClass(iota + 1)
	HIGHWAY_TRUNK
	HIGHWAY_PRIMARY
	HIGHWAY_SECONDARY
	HIGHWAY_TERTIARY
	HIGHWAY_RESIDENTIAL
	HIGHWAY_LIVING_STREET
	HIGHWAY_SERVICE
	HIGHWAY_FOOTWAY
	HIGHWAY_TRACK
	HIGHWAY_UNCLASSIFIED
	HIGHWAY_UNDEFINED = HighwayClass(0)
)

func (iotaIdx HighwayClass) String() string {
	return [...]string{"undefined", "motorway", "trunk", "primary", "secondary", "tertiary", "residential", "living_street", "service", "footway", "track", "unclassified"}[iotaIdx]
}

func getHighwayClass(str string) HighwayClass {
	if found, ok := highwayClasses[str]; ok {
		return found
	}
	return HIGHWAY_UNDEFINED
}

var (
	highwayClasses = map[string]HighwayClass{
		"motorway":         HIGHWAY_MOTORWAY,
		"motorway_link":    HIGHWAY_MOTORWAY,
		"trunk":            HIGHWAY_TRUNK,
		"trunk_link":       HIGHWAY_TRUNK,
		"primary":          HIGHWAY_PRIMARY,
		"primary_link":     HIGHWAY_PRIMARY,
		"secondary":        HIGHWAY_SECONDARY,
		"secondary_link":   HIGHWAY_SECONDARY,
		"tertiary":         HIGHWAY_TERTIARY,
		"tertiary_link":    HIGHWAY_TERTIARY,
		"residential":      HIGHWAY_RESIDENTIAL,
		"residential_link": HIGHWAY_RESIDENTIAL,
		"living_street":    HIGHWAY_LIVING_STREET,
		"service":          HIGHWAY_SERVICE,
		"services":         HIGHWAY_SERVICE,
		"cycleway":         HIGHWAY_FOOTWAY,
		"footway":          HIGHWAY_FOOTWAY,
		"pedestrian":       HIGHWAY_FOOTWAY,
		"steps":            HIGHWAY_FOOTWAY,
		"track":            HIGHWAY_TRACK,
		"unclassified":     HIGHWAY_UNCLASSIFIED,
	}

	onewayDefaultByClass = map[HighwayClass]bool{
		HIGHWAY_MOTORWAY:      false,
		HIGHWAY_TRUNK:         false,
		HIGHWAY_PRIMARY:       false,
		HIGHWAY_SECONDARY:     false,
		HIGHWAY_TERTIARY:      false,
		HIGHWAY_RESIDENTIAL:   false,
		HIGHWAY_LIVING_STREET: false,
		HIGHWAY_SERVICE:       false,
		HIGHWAY_FOOTWAY:       true,
		HIGHWAY_TRACK:         true,
		HIGHWAY_UNCLASSIFIED:  false,
	}

	// Free flow speeds in km/h for ways carrying no usable `maxspeed` tag
	defaultSpeedByHighwayClass = map[HighwayClass]float64{
		HIGHWAY_MOTORWAY:      120,
		HIGHWAY_TRUNK:         100,
		HIGHWAY_PRIMARY:       80,
		HIGHWAY_SECONDARY:     60,
		HIGHWAY_TERTIARY:      40,
		HIGHWAY_RESIDENTIAL:   30,
		HIGHWAY_LIVING_STREET: 15,
		HIGHWAY_SERVICE:       30,
		HIGHWAY_FOOTWAY:       5,
		HIGHWAY_TRACK:         30,
		HIGHWAY_UNCLASSIFIED:  30,
	}
)
