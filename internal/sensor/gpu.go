package sensor

import (
	"context"
	"fmt"
	"sync"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	apperrors "github.com/agbru/resmon/internal/errors"
)

// GPUSensor reads accelerator utilization through NVML. The reported value
// is the mean of the graphics utilization domain across all enumerated
// devices.
//
// A host without the NVML library, without a loaded driver, or without any
// device is a soft "no data" condition, not an error: Sample returns
// apperrors.SensorUnavailableError and the caller substitutes 0. Devices
// that exist but expose no utilization domain are likewise soft-skipped.
type GPUSensor struct {
	initOnce sync.Once
	initRet  nvml.Return

	// Probe calls, overridable in tests.
	initFn        func() nvml.Return
	shutdownFn    func() nvml.Return
	deviceCountFn func() (int, nvml.Return)
	utilizationFn func(index int) (uint32, nvml.Return)
}

// NewGPUSensor creates a GPU utilization sensor. NVML is initialized lazily
// on the first Sample call; construction never touches the driver.
func NewGPUSensor() *GPUSensor {
	return &GPUSensor{
		initFn:        nvml.Init,
		shutdownFn:    nvml.Shutdown,
		deviceCountFn: nvml.DeviceGetCount,
		utilizationFn: func(index int) (uint32, nvml.Return) {
			device, ret := nvml.DeviceGetHandleByIndex(index)
			if ret != nvml.SUCCESS {
				return 0, ret
			}
			util, ret := device.GetUtilizationRates()
			if ret != nvml.SUCCESS {
				return 0, ret
			}
			return util.Gpu, nvml.SUCCESS
		},
	}
}

// Metric reports the GPU dimension.
func (s *GPUSensor) Metric() Metric { return GPU }

// Sample returns the mean graphics utilization across all devices.
func (s *GPUSensor) Sample(_ context.Context) (float64, error) {
	s.initOnce.Do(func() {
		s.initRet = s.initFn()
	})

	switch s.initRet {
	case nvml.SUCCESS:
	case nvml.ERROR_LIBRARY_NOT_FOUND, nvml.ERROR_DRIVER_NOT_LOADED:
		return 0, apperrors.SensorUnavailableError{
			Metric: GPU.String(),
			Reason: "nvml not available: " + nvml.ErrorString(s.initRet),
		}
	default:
		return 0, apperrors.SensorReadError{
			Metric: GPU.String(),
			Cause:  fmt.Errorf("nvml init: %s", nvml.ErrorString(s.initRet)),
		}
	}

	count, ret := s.deviceCountFn()
	if ret != nvml.SUCCESS {
		return 0, apperrors.SensorReadError{
			Metric: GPU.String(),
			Cause:  fmt.Errorf("nvml device count: %s", nvml.ErrorString(ret)),
		}
	}
	if count == 0 {
		return 0, apperrors.SensorUnavailableError{Metric: GPU.String(), Reason: "no devices found"}
	}

	var total float64
	sampled := 0
	for i := range count {
		usage, ret := s.utilizationFn(i)
		switch ret {
		case nvml.SUCCESS:
			total += float64(usage)
			sampled++
		case nvml.ERROR_NOT_SUPPORTED:
			// Device exposes no utilization domain; skip it.
		default:
			return 0, apperrors.SensorReadError{
				Metric: GPU.String(),
				Cause:  fmt.Errorf("nvml utilization for device %d: %s", i, nvml.ErrorString(ret)),
			}
		}
	}

	if sampled == 0 {
		return 0, apperrors.SensorUnavailableError{Metric: GPU.String(), Reason: "no device reports a utilization domain"}
	}

	return clampPercent(total / float64(sampled)), nil
}

// Close releases the NVML handle if it was ever initialized.
func (s *GPUSensor) Close() error {
	s.initOnce.Do(func() {
		// Never initialized; mark so Close stays a no-op.
		s.initRet = nvml.ERROR_UNINITIALIZED
	})
	if s.initRet != nvml.SUCCESS {
		return nil
	}
	if ret := s.shutdownFn(); ret != nvml.SUCCESS {
		return fmt.Errorf("nvml shutdown: %s", nvml.ErrorString(ret))
	}
	return nil
}

// Compile-time interface compliance check.
var _ Sensor = (*GPUSensor)(nil)
