package urbansim

/* Traffic lights stuff */

const (
	lightCycleTicks = 30
	lightGreenTicks = 15
)

// IsGreenLight reports whether movement along edge (from, to) is allowed at given tick.
// Signals are deterministic: edges split into two parity groups by node ID sum,
// each group gets green for its half of the cycle
func IsGreenLight(from, to NetworkNodeID, tick int) bool {
	phase := tick % lightCycleTicks
	if (from+to)%2 == 0 {
		return phase < lightGreenTicks
	}
	return phase >= lightGreenTicks
}
