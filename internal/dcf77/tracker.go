package dcf77

import "github.com/flobbe/wordclock/internal/clock"

// Tracker detects edges in the sampled receiver level and keeps a rolling
// two-slot history of absolute timing deviations.
type Tracker struct {
	clock clock.Clock

	level     bool
	lastEdge  uint32
	baselined bool

	bit      uint8
	bitIndex int
	synced   bool

	lags   [2]uint32
	counts Counts
}

// NewTracker creates a Tracker reading time from c. Quality starts at 0.
func NewTracker(c clock.Clock) *Tracker {
	return &Tracker{
		clock:    c,
		bitIndex: -1,
		lags:     [2]uint32{MaxDeviation, MaxDeviation},
	}
}

// ProcessSignal samples the receiver level. It returns an observation when
// the level changed and a previous edge is known.
func (t *Tracker) ProcessSignal(level bool) (Observation, bool) {
	if level == t.level {
		return Observation{}, false
	}
	return t.ProcessEdge(level, t.clock.Millis())
}

// ProcessEdge handles a sample taken at now (milliseconds). Samples equal to
// the previous level are ignored.
func (t *Tracker) ProcessEdge(level bool, now uint32) (Observation, bool) {
	if level == t.level {
		return Observation{}, false
	}
	length := now - t.lastEdge
	prevBaselined := t.baselined

	t.level = level
	t.lastEdge = now
	t.baselined = true

	if !prevBaselined {
		return Observation{}, false
	}

	t.counts.Edges++
	obs := t.classify(level, length)
	t.push(obs.Deviation)
	obs.Quality = t.SignalQuality()
	return obs, true
}

func (t *Tracker) classify(level bool, length uint32) Observation {
	obs := Observation{
		Level:    level,
		Duration: length,
		BitIndex: t.bitIndex,
		Bit:      t.bit,
	}

	if length < minLevel {
		t.counts.Noise++
		obs.Kind = KindNoise
		obs.Deviation = MaxDeviation
		return obs
	}

	if !level {
		// falling edge: a high pulse just ended
		obs.Expected = nearest(length, PulseZero, PulseOne)
		t.bit = 0
		if obs.Expected == PulseOne {
			t.bit = 1
			t.counts.Ones++
		} else {
			t.counts.Zeros++
		}
		if t.synced {
			t.bitIndex++
			if t.bitIndex >= BitsPerMinute {
				// no marker where one was due
				t.synced = false
				t.bitIndex = -1
			}
		}
		obs.Kind = KindBit
		obs.Bit = t.bit
		obs.BitIndex = t.bitIndex
	} else {
		// rising edge: the gap after a 1 is 100ms shorter
		base := uint32(GapAfterZero)
		if t.bit == 1 {
			base = GapAfterOne
		}
		obs.Expected = nearest(length, base, base+MinuteGap)
		obs.Kind = KindGap
		if obs.Expected > MinuteGap {
			// the next pulse is bit 0 of the new minute
			t.synced = true
			t.bitIndex = -1
			t.counts.MinuteMarkers++
			obs.Kind = KindMinuteMarker
			obs.BitIndex = -1
		}
	}
	obs.Deviation = int32(int64(length) - int64(obs.Expected))
	return obs
}

func (t *Tracker) push(deviation int32) {
	lag := deviation
	if lag < 0 {
		lag = -lag
	}
	if lag > MaxDeviation {
		lag = MaxDeviation
	}
	t.lags[1] = t.lags[0]
	t.lags[0] = uint32(lag)
}

// SignalQuality returns 0..100; 100 means the last two levels matched their
// canonical durations exactly.
func (t *Tracker) SignalQuality() int {
	q := 100 - int(t.lags[0]+t.lags[1])*100/(2*MaxDeviation)
	if q < 0 {
		return 0
	}
	if q > 100 {
		return 100
	}
	return q
}

// BitIndex returns the index of the last decoded bit within the current
// minute, or -1 when no bit has been decoded since the last minute marker
// or the tracker is not synchronised.
func (t *Tracker) BitIndex() int {
	return t.bitIndex
}

// Synced reports whether a minute marker has been seen and the bit index is
// meaningful.
func (t *Tracker) Synced() bool {
	return t.synced
}

// LastBit returns the value of the last decoded bit.
func (t *Tracker) LastBit() uint8 {
	return t.bit
}

// Level returns the last recorded input level.
func (t *Tracker) Level() bool {
	return t.level
}

// Counts returns a copy of the classification counters.
func (t *Tracker) Counts() Counts {
	return t.counts
}

func nearest(value, n1, n2 uint32) uint32 {
	if absDiff(value, n1) < absDiff(value, n2) {
		return n1
	}
	return n2
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
