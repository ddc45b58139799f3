package sensors

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/pentafan/pentafan/internal/ui"
	"github.com/pentafan/pentafan/internal/util"
	"github.com/spf13/afero"
)

var (
	smartAttributeIdPattern = regexp.MustCompile(`^\s*(190|194)\s`)
	smartTemperatureKeywords = []string{
		"Temperature_Celsius",
		"Temperature_Internal",
		"Temperature",
		"Current Temperature",
		"Drive Temperature",
		"Airflow_Temperature_Cel",
		"Composite Temperature",
	}
)

// DiskSensor reads the temperature of a single block device
type DiskSensor struct {
	Device string `json:"device"`

	fs           afero.Fs
	sysBase      string
	smartctlPath string
	run          CommandRunner
}

func NewDiskSensor(fs afero.Fs, sysBase string, smartctlPath string, run CommandRunner, device string) *DiskSensor {
	return &DiskSensor{
		Device:       device,
		fs:           fs,
		sysBase:      sysBase,
		smartctlPath: smartctlPath,
		run:          run,
	}
}

func (s *DiskSensor) GetId() string {
	return s.Device
}

func (s *DiskSensor) GetLabel() string {
	return fmt.Sprintf("Disk (/dev/%s)", s.Device)
}

func (s *DiskSensor) GetValue() (float64, error) {
	// Primary: sysfs hwmon (drivetemp for SATA, nvme-hwmon for NVMe)
	if temp, err := readDiskTempFromSysfsAt(s.fs, s.sysBase, s.Device); err == nil {
		return temp, nil
	}

	// Fallback: smartctl, which also covers usb bridges
	output, err := s.run(s.smartctlPath, []string{"-A", "/dev/" + s.Device})
	if len(strings.TrimSpace(output)) == 0 {
		if err == nil {
			err = fmt.Errorf("empty output")
		}
		return 0, fmt.Errorf("smartctl on %s: %w", s.Device, err)
	}
	if err != nil {
		// smartctl encodes disk health in its exit status, the attribute table is still valid
		ui.Debug("smartctl on %s exited with: %v", s.Device, err)
	}
	return parseSmartctlTemperature(output, s.Device)
}

func readDiskTempFromSysfsAt(fs afero.Fs, sysBase, deviceName string) (float64, error) {
	patterns := []string{
		fmt.Sprintf("%s/class/block/%s/device/hwmon/hwmon*/temp*_input", sysBase, deviceName),
	}
	// NVMe: nvme0n1 → nvme0 controller path (strip namespace suffix after "nvme<digits>")
	if strings.HasPrefix(deviceName, "nvme") {
		ctrl := deviceName
		if idx := strings.Index(deviceName[4:], "n"); idx >= 0 {
			ctrl = deviceName[:4+idx]
		}
		patterns = append(patterns,
			fmt.Sprintf("%s/class/nvme/%s/hwmon*/temp*_input", sysBase, ctrl))
	}
	for _, pattern := range patterns {
		matches, err := afero.Glob(fs, pattern)
		if err != nil || len(matches) == 0 {
			continue
		}
		p := selectTempInput(matches)
		millidegrees, err := util.ReadIntFromFile(fs, p)
		if err != nil {
			continue
		}
		return float64(millidegrees) / 1000, nil
	}
	return 0, fmt.Errorf("no sysfs hwmon temperature for %s", deviceName)
}

// selectTempInput prefers temp1_input (composite/device temperature)
func selectTempInput(paths []string) string {
	for _, p := range paths {
		if path.Base(p) == "temp1_input" {
			return p
		}
	}
	return paths[0]
}

// parseSmartctlTemperature extracts the drive temperature from `smartctl -A` output.
// The first line carrying a temperature keyword or a 190/194 attribute wins.
func parseSmartctlTemperature(output string, device string) (float64, error) {
	for _, line := range strings.Split(output, "\n") {
		if containsAny(line, smartTemperatureKeywords) {
			if value, ok := lastNumericField(line); ok {
				return float64(value), nil
			}
			continue
		}
		if smartAttributeIdPattern.MatchString(line) {
			fields := strings.Fields(line)
			value, err := strconv.Atoi(fields[len(fields)-1])
			if err != nil {
				return 0, fmt.Errorf("invalid smart attribute on %s: %s", device, strings.TrimSpace(line))
			}
			return float64(value), nil
		}
	}
	return 0, fmt.Errorf("no temperature attribute in smartctl output for %s", device)
}

func containsAny(line string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(line, keyword) {
			return true
		}
	}
	return false
}

// lastNumericField returns the last whitespace separated field consisting only of digits
func lastNumericField(line string) (int, bool) {
	fields := strings.Fields(line)
	for i := len(fields) - 1; i >= 0; i-- {
		if !isDigits(fields[i]) {
			continue
		}
		value, err := strconv.Atoi(fields[i])
		if err != nil {
			return 0, false
		}
		return value, true
	}
	return 0, false
}

func isDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
