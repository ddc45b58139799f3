package sensors

import (
	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/pentafan/pentafan/internal/util"
)

// DriveReader provides the temperatures of all monitored drives
type DriveReader interface {
	DriveTemperatures() []float64
	Readings() []DriveReading
}

// TemperatureSource combines the cpu sensor and the drives into the temperature a fan is controlled by
type TemperatureSource struct {
	cpu    Sensor
	drives DriveReader
}

func NewSource(cpu Sensor, drives DriveReader) *TemperatureSource {
	return &TemperatureSource{
		cpu:    cpu,
		drives: drives,
	}
}

func (s *TemperatureSource) CpuTemperature() (float64, error) {
	return s.cpu.GetValue()
}

func (s *TemperatureSource) DriveTemperatures() []float64 {
	return s.drives.DriveTemperatures()
}

func (s *TemperatureSource) DriveReadings() []DriveReading {
	return s.drives.Readings()
}

// EffectiveTemperature returns the temperature for the given mode.
// Drive readings never fail, without any the cpu temperature is used.
func (s *TemperatureSource) EffectiveTemperature(mode configuration.TemperatureSourceMode) (float64, error) {
	switch mode {
	case configuration.TemperatureSourceDrives:
		drives := s.DriveTemperatures()
		if len(drives) > 0 {
			return util.Max(drives), nil
		}
		return s.CpuTemperature()
	case configuration.TemperatureSourceBoth:
		cpu, err := s.CpuTemperature()
		if err != nil {
			return 0, err
		}
		drives := s.DriveTemperatures()
		return util.Max(append([]float64{cpu}, drives...)), nil
	default:
		return s.CpuTemperature()
	}
}
