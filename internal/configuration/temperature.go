package configuration

import "time"

type TemperatureSourceMode string

const (
	TemperatureSourceCpu    TemperatureSourceMode = "cpu"
	TemperatureSourceDrives TemperatureSourceMode = "drives"
	TemperatureSourceBoth   TemperatureSourceMode = "both"
)

var TemperatureSourceModes = []TemperatureSourceMode{
	TemperatureSourceCpu,
	TemperatureSourceDrives,
	TemperatureSourceBoth,
}

type TemperatureConfig struct {
	Source TemperatureSourceMode `json:"source" yaml:"source"`

	// CpuThermalZone is a file containing the cpu temperature in millidegrees
	CpuThermalZone string `json:"cpuThermalZone" yaml:"cpuThermalZone"`

	// DriveCacheDuration bounds how often drives are enumerated and queried
	DriveCacheDuration time.Duration `json:"driveCacheDuration" yaml:"driveCacheDuration"`
	// CommandTimeout applies to each lsblk, findmnt and smartctl invocation
	CommandTimeout time.Duration `json:"commandTimeout" yaml:"commandTimeout"`

	LsblkPath    string `json:"lsblkPath" yaml:"lsblkPath"`
	FindmntPath  string `json:"findmntPath" yaml:"findmntPath"`
	SmartctlPath string `json:"smartctlPath" yaml:"smartctlPath"`
	SysfsPath    string `json:"sysfsPath" yaml:"sysfsPath"`

	// BootDrive overrides boot drive detection, it is never used for temperature readings
	BootDrive string `json:"bootDrive,omitempty" yaml:"bootDrive,omitempty"`
}
