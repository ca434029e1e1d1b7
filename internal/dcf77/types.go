// Package dcf77 classifies the pulse stream of a DCF77 receiver into time
// bits and scores how well recent pulses matched their canonical durations.
// This package has NO hardware dependencies; time comes from an injected
// clock or is passed explicitly.
package dcf77

// Timing constants of the DCF77 second pulse, in milliseconds.
const (
	// MaxDeviation is the deviation at which signal quality drops to 0%.
	MaxDeviation = 50

	PulseZero    = 100  // high pulse encoding a 0 bit
	PulseOne     = 200  // high pulse encoding a 1 bit
	GapAfterOne  = 800  // low gap following a 1 bit
	GapAfterZero = 900  // low gap following a 0 bit
	MinuteGap    = 1000 // extra low time of the missing 59th pulse

	// BitsPerMinute is the number of pulses between two minute markers.
	BitsPerMinute = 59

	// minLevel is the shortest level accepted as a real pulse or gap.
	minLevel = PulseZero - MaxDeviation
)

// Kind classifies an observation.
type Kind string

const (
	KindNoise        Kind = "NOISE"
	KindBit          Kind = "BIT"
	KindGap          Kind = "GAP"
	KindMinuteMarker Kind = "MINUTE_MARKER"
)

// Observation describes one level that just ended.
type Observation struct {
	// Level is the input level after the edge.
	Level bool
	// Duration is how long the previous level lasted.
	Duration uint32
	// Expected is the canonical duration the level was matched against
	// (0 for noise).
	Expected uint32
	// Deviation is Duration - Expected (MaxDeviation for noise).
	Deviation int32
	Kind      Kind
	// Bit is the decoded bit of the last pulse.
	Bit uint8
	// BitIndex is the position of Bit within the minute, or -1 before the
	// first minute marker.
	BitIndex int
	// Quality is the signal quality after this observation.
	Quality int
}

// Counts tracks classified edges since startup.
type Counts struct {
	Edges         int
	Noise         int
	Zeros         int
	Ones          int
	MinuteMarkers int
}
