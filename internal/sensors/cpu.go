package sensors

import (
	"fmt"

	"github.com/pentafan/pentafan/internal/util"
	"github.com/spf13/afero"
)

type CpuSensor struct {
	Path string `json:"path"`

	fs afero.Fs
}

func NewCpuSensor(fs afero.Fs, path string) *CpuSensor {
	return &CpuSensor{
		Path: path,
		fs:   fs,
	}
}

func (s *CpuSensor) GetId() string {
	return "cpu"
}

func (s *CpuSensor) GetLabel() string {
	return fmt.Sprintf("CPU (%s)", s.Path)
}

// GetValue reads the thermal zone, which reports millidegrees
func (s *CpuSensor) GetValue() (float64, error) {
	millidegrees, err := util.ReadIntFromFile(s.fs, s.Path)
	if err != nil {
		return 0, fmt.Errorf("cannot read cpu temperature from %s: %w", s.Path, err)
	}
	return float64(millidegrees) / 1000, nil
}

// Exists reports whether the thermal zone file is present
func (s *CpuSensor) Exists() bool {
	return util.FileExists(s.fs, s.Path)
}
