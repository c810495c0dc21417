package urbansim

// TimeOfDay represents demand period of simulated scenario
type TimeOfDay uint16

const (
	TIME_MORNING = TimeOfDay(iota + 1)
	TIME_EVENING
	TIME_OFFPEAK
	TIME_UNDEFINED = TimeOfDay(0)
)

func (iotaIdx TimeOfDay) String() string {
	return [...]string{"undefined", "morning", "evening", "offpeak"}[iotaIdx]
}

// TimeOfDayFromString returns matched time of day for given alias
func TimeOfDayFromString(alias string) TimeOfDay {
	switch alias {
	case "morning":
		return TIME_MORNING
	case "evening":
		return TIME_EVENING
	case "offpeak":
		return TIME_OFFPEAK
	default:
		return TIME_UNDEFINED
	}
}

var (
	// Share of trucks among generated vehicles. Morning demand carries freight deliveries
	truckRatioByTimeOfDay = map[TimeOfDay]float64{
		TIME_MORNING: 0.15,
		TIME_EVENING: 0.05,
		TIME_OFFPEAK: 0.05,
	}
)
