package domain

import (
	"time"

	"codeberg.org/mutker/raplmon/internal/errors"
)

const (
	microJoulesPerJoule = 1e6
	secondsPerHour      = 3600
)

// Tracker converts a wrapping energy counter into power and energy
// figures. One tracker owns one domain; it is mutated only by the poll
// loop that holds it, so no locking is needed.
type Tracker struct {
	reader          Reader
	name            string
	maxRange        uint64
	lastCounter     uint64 // 0 means no sample taken yet
	lastTime        time.Time
	cumulativeUJ    uint64
	cumulativeStart time.Time
	peakWatts       float64
}

// NewTracker binds a reader and reads the domain's name and counter
// range once. Either read failing makes the whole domain unusable.
func NewTracker(reader Reader) (*Tracker, error) {
	errFactory := errors.New()

	name, err := reader.DisplayName()
	if err != nil {
		return nil, errFactory.Wrap(ErrMetadataUnreadable, err)
	}

	maxRange, err := reader.MaxRange()
	if err != nil {
		return nil, errFactory.Wrap(ErrMetadataUnreadable, err)
	}

	return &Tracker{
		reader:   reader,
		name:     name,
		maxRange: maxRange,
	}, nil
}

// Sample reads the counter once and returns the instantaneous power in
// watts. The first call after construction only seeds the tracker and
// always returns 0. A counter value below the previous one is treated
// as exactly one wraparound; samples spaced longer than the counter's
// wrap period (e.g. across a system suspend) silently lose the extra
// wraps. Errors leave the tracker state untouched and the next cycle
// retries.
func (t *Tracker) Sample() (float64, error) {
	errFactory := errors.New()

	counter, readTime, err := t.reader.ReadCounter()
	if err != nil {
		return 0, errFactory.Wrap(ErrCounterUnreadable, err)
	}

	if counter > t.maxRange {
		return 0, errFactory.WithData(ErrCounterOutOfRange, struct {
			Domain   string
			Counter  uint64
			MaxRange uint64
		}{
			Domain:   t.name,
			Counter:  counter,
			MaxRange: t.maxRange,
		})
	}

	if t.lastCounter == 0 {
		// First real sample: start the cumulative window here rather
		// than at construction so average power is not skewed by setup
		// latency.
		t.lastCounter = counter
		t.lastTime = readTime
		t.cumulativeStart = readTime

		return 0, nil
	}

	deltaSeconds := readTime.Sub(t.lastTime).Seconds()
	if deltaSeconds <= 0 {
		return 0, errFactory.WithData(ErrZeroInterval, t.name)
	}

	var deltaUJ uint64
	if counter >= t.lastCounter {
		deltaUJ = counter - t.lastCounter
	} else {
		deltaUJ = counter + (t.maxRange - t.lastCounter)
	}

	watts := float64(deltaUJ) / deltaSeconds / microJoulesPerJoule

	t.cumulativeUJ += deltaUJ
	t.lastCounter = counter
	t.lastTime = readTime
	if watts > t.peakWatts {
		t.peakWatts = watts
	}

	return watts, nil
}

// Name returns the domain's display name.
func (t *Tracker) Name() string {
	return t.name
}

// AveragePower returns the mean power in watts since the first sample.
// Before the cumulative window spans any time it returns 0.
func (t *Tracker) AveragePower() float64 {
	window := t.lastTime.Sub(t.cumulativeStart).Seconds()
	if window <= 0 {
		return 0
	}

	return float64(t.cumulativeUJ) / window / microJoulesPerJoule
}

// CumulativeEnergyWattHours returns the energy consumed since tracking
// started, in watt-hours.
func (t *Tracker) CumulativeEnergyWattHours() float64 {
	return float64(t.cumulativeUJ) / microJoulesPerJoule / secondsPerHour
}

// PeakPower returns the highest instantaneous power observed so far.
func (t *Tracker) PeakPower() float64 {
	return t.peakWatts
}
