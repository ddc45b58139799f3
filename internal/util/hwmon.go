package util

import (
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// GetDeviceName read the name of a device
func GetDeviceName(fs afero.Fs, devicePath string) string {
	return readTrimmed(fs, devicePath+"/name")
}

// GetLabel read the label of a in/output of a device
func GetLabel(fs afero.Fs, devicePath string, input string) string {
	labelPath := strings.TrimSuffix(devicePath+"/"+input, "input") + "label"
	label := readTrimmed(fs, labelPath)
	if len(label) <= 0 {
		label = path.Base(devicePath)
	}
	return label
}

// GetDeviceModalias read the modalias of a device
func GetDeviceModalias(fs afero.Fs, devicePath string) string {
	return readTrimmed(fs, devicePath+"/device/modalias")
}

// GetDeviceType read the type of a device
func GetDeviceType(fs afero.Fs, devicePath string) string {
	return readTrimmed(fs, devicePath+"/device/type")
}

// FindHwmonDevicePaths returns all hwmon device directories below basePath, sorted
func FindHwmonDevicePaths(fs afero.Fs, basePath string) []string {
	matches, err := afero.Glob(fs, basePath+"/hwmon*")
	if err != nil {
		return []string{}
	}
	sort.Strings(matches)
	return matches
}

func readTrimmed(fs afero.Fs, p string) string {
	content, err := afero.ReadFile(fs, p)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}
