package gpu

import (
	"fmt"
	"math"
	"time"

	"codeberg.org/mutker/raplmon/internal/domain"
	"codeberg.org/mutker/raplmon/internal/errors"
	"codeberg.org/mutker/raplmon/internal/logger"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

const milliJoulesToMicroJoules = 1000

// Reader exposes a GPU's total-energy counter through the same
// contract the RAPL trackers consume. NVML reports millijoules since
// driver load; values are scaled to microjoules so all trackers share
// one unit.
type Reader struct {
	device nvml.Device
	name   string
}

func (r *Reader) DisplayName() (string, error) {
	return r.name, nil
}

// MaxRange returns the counter ceiling. NVML does not declare a wrap
// range for the energy counter, so the full 64-bit range is used.
func (r *Reader) MaxRange() (uint64, error) {
	return math.MaxUint64, nil
}

func (r *Reader) ReadCounter() (uint64, time.Time, error) {
	errFactory := errors.New()

	energy, ret := r.device.GetTotalEnergyConsumption()
	readTime := time.Now()
	if !IsNVMLSuccess(ret) {
		return 0, time.Time{}, errFactory.Wrap(ErrEnergyReadFailed, newNVMLError(ret))
	}

	return energy * milliJoulesToMicroJoules, readTime, nil
}

// Discover initializes NVML and constructs one tracker per GPU whose
// energy counter is readable. Call Shutdown when the trackers are no
// longer needed.
func Discover() ([]*domain.Tracker, error) {
	errFactory := errors.New()

	if ret := nvml.Init(); !IsNVMLSuccess(ret) {
		return nil, errFactory.Wrap(ErrInitFailed, newNVMLError(ret))
	}

	count, ret := nvml.DeviceGetCount()
	if !IsNVMLSuccess(ret) {
		nvml.Shutdown()
		return nil, errFactory.Wrap(ErrDeviceCountFailed, newNVMLError(ret))
	}

	var trackers []*domain.Tracker
	for i := 0; i < count; i++ {
		device, ret := nvml.DeviceGetHandleByIndex(i)
		if !IsNVMLSuccess(ret) {
			logger.Warn().Str("error", nvml.ErrorString(ret)).Int("index", i).Msg("Skipping GPU")
			continue
		}

		name, ret := device.GetName()
		if !IsNVMLSuccess(ret) {
			name = "unknown"
		}

		reader := &Reader{
			device: device,
			name:   fmt.Sprintf("gpu:%d/%s", i, name),
		}

		// Older GPUs do not support the total-energy counter at all.
		if _, _, err := reader.ReadCounter(); err != nil {
			logger.Warn().Err(err).Str("gpu", reader.name).Msg("Energy counter unsupported, skipping GPU")
			continue
		}

		tracker, err := domain.NewTracker(reader)
		if err != nil {
			logger.Warn().Err(err).Str("gpu", reader.name).Msg("Skipping GPU")
			continue
		}

		logger.Debug().Str("domain", tracker.Name()).Msg("Discovered GPU domain")
		trackers = append(trackers, tracker)
	}

	if len(trackers) == 0 {
		nvml.Shutdown()
		return nil, errFactory.New(ErrNoDevices)
	}

	return trackers, nil
}

// Shutdown releases the NVML handle held by Discover.
func Shutdown() {
	if ret := nvml.Shutdown(); !IsNVMLSuccess(ret) {
		logger.Warn().Str("error", nvml.ErrorString(ret)).Msg("NVML shutdown failed")
	}
}
