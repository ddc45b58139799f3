package hwmon

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"

	"github.com/md14454/gosensors"
	"github.com/pentafan/pentafan/internal/util"
	"github.com/spf13/afero"
)

const (
	BusTypeIsa  = 1
	BusTypePci  = 2
	BusTypeAcpi = 5
)

var pwmOutputPattern = regexp.MustCompile(`^pwm(\d+)$`)

// HwMonController is a hwmon chip with its pwm outputs and temperature inputs
type HwMonController struct {
	Name     string
	DType    string
	Modalias string
	Platform string
	Path     string

	PwmOutputs []PwmOutput
	Sensors    []TempInput
}

type PwmOutput struct {
	Index   int
	Label   string
	Path    string
	Value   int
	Enabled int
	// Writable means the output can be driven by the daemon
	Writable bool
}

type TempInput struct {
	Index int
	Label string
	Input string
	// Value in degrees celsius
	Value float64
	Max   int
	Min   int
}

// GetChips returns all hwmon chips known to libsensors,
// augmented by chips found in sysfs which libsensors does not report (like pwm-fan)
func GetChips(fs afero.Fs, hwmonBase string) []*HwMonController {
	var list []*HwMonController
	known := map[string]bool{}

	gosensors.Init()
	defer gosensors.Cleanup()
	chips := gosensors.GetDetectedChips()

	for i := 0; i < len(chips); i++ {
		chip := chips[i]
		c := newController(fs, computeIdentifier(fs, chip), chip.Path)
		c.Sensors = GetTempSensors(fs, chip)
		known[path.Base(chip.Path)] = true
		if len(c.PwmOutputs) <= 0 && len(c.Sensors) <= 0 {
			continue
		}
		list = append(list, c)
	}

	for _, devicePath := range util.FindHwmonDevicePaths(fs, hwmonBase) {
		if known[path.Base(devicePath)] {
			continue
		}
		name := util.GetDeviceName(fs, devicePath)
		if len(name) <= 0 {
			name = path.Base(devicePath)
		}
		c := newController(fs, name, devicePath)
		if len(c.PwmOutputs) <= 0 {
			continue
		}
		list = append(list, c)
	}

	return list
}

func newController(fs afero.Fs, name string, devicePath string) *HwMonController {
	platform := findPlatform(devicePath)
	if len(platform) <= 0 {
		platform = name
	}
	return &HwMonController{
		Name:       name,
		DType:      util.GetDeviceType(fs, devicePath),
		Modalias:   util.GetDeviceModalias(fs, devicePath),
		Platform:   platform,
		Path:       devicePath,
		PwmOutputs: FindPwmOutputs(fs, devicePath),
	}
}

func GetTempSensors(fs afero.Fs, chip gosensors.Chip) []TempInput {
	var sensorList []TempInput

	features := chip.GetFeatures()
	for j := 0; j < len(features); j++ {
		feature := features[j]

		if feature.Type != gosensors.FeatureTypeTemp {
			continue
		}

		subfeatures := feature.GetSubFeatures()
		inputSubFeature, ok := getSubFeature(subfeatures, gosensors.SubFeatureTypeTempInput)
		if !ok {
			continue
		}

		max := -1
		if maxSubFeature, ok := getSubFeature(subfeatures, gosensors.SubFeatureTypeTempMax); ok {
			max = int(maxSubFeature.GetValue())
		}

		min := -1
		if minSubFeature, ok := getSubFeature(subfeatures, gosensors.SubFeatureTypeTempMin); ok {
			min = int(minSubFeature.GetValue())
		}

		sensorList = append(sensorList, TempInput{
			Index: len(sensorList) + 1,
			Label: util.GetLabel(fs, chip.Path, inputSubFeature.Name),
			Input: fmt.Sprintf("%s/%s", chip.Path, inputSubFeature.Name),
			Value: inputSubFeature.GetValue(),
			Max:   max,
			Min:   min,
		})
	}

	return sensorList
}

// FindPwmOutputs lists all pwmN nodes of a hwmon device, ordered by channel
func FindPwmOutputs(fs afero.Fs, devicePath string) []PwmOutput {
	entries, err := afero.ReadDir(fs, devicePath)
	if err != nil {
		return nil
	}

	var result []PwmOutput
	for _, entry := range entries {
		match := pwmOutputPattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		index, _ := strconv.Atoi(match[1])
		pwmPath := devicePath + "/" + entry.Name()

		value, err := util.ReadIntFromFile(fs, pwmPath)
		if err != nil {
			value = -1
		}
		enabled, err := util.ReadIntFromFile(fs, pwmPath+"_enable")
		if err != nil {
			enabled = -1
		}

		result = append(result, PwmOutput{
			Index:    index,
			Label:    util.GetLabel(fs, devicePath, fmt.Sprintf("fan%d_input", index)),
			Path:     pwmPath,
			Value:    value,
			Enabled:  enabled,
			Writable: util.IsWritable(fs, pwmPath),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Index < result[j].Index
	})
	return result
}

func getSubFeature(subfeatures []gosensors.SubFeature, input gosensors.SubFeatureType) (gosensors.SubFeature, bool) {
	for _, a := range subfeatures {
		if a.Type == input {
			return a, true
		}
	}
	return gosensors.SubFeature{}, false
}

func computeIdentifier(fs afero.Fs, chip gosensors.Chip) (name string) {
	name = chip.Prefix

	devicePath := chip.Path
	if len(name) <= 0 {
		name = util.GetDeviceName(fs, devicePath)
	}

	if len(name) <= 0 {
		name = path.Base(devicePath)
	}

	identifier := name
	switch chip.Bus.Type {
	case BusTypeIsa:
		identifier = fmt.Sprintf("%s-isa-%d%03x", identifier, chip.Bus.Nr, chip.Addr)
	case BusTypePci:
		identifier = fmt.Sprintf("%s-pci-%d%03x", identifier, chip.Bus.Nr, chip.Addr)
	case BusTypeAcpi:
		identifier = fmt.Sprintf("%s-acpi-%d", identifier, chip.Bus.Nr)
	}

	return identifier
}

func findPlatform(devicePath string) string {
	platformRegex := regexp.MustCompile(".*/platform/[^/]+")
	return platformRegex.FindString(devicePath)
}
