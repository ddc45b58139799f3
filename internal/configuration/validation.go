package configuration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pentafan/pentafan/internal/ui"
	"golang.org/x/exp/slices"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if config.ControllerAdjustmentTickRate <= 0 {
		return fmt.Errorf("controllerAdjustmentTickRate must be > 0, was: %s", config.ControllerAdjustmentTickRate)
	}

	err := validateTemperature(&config.Temperature)
	if err != nil {
		return err
	}

	err = validateFans(config)
	if err != nil {
		return err
	}

	if config.Api.Enabled && config.Statistics.Enabled && config.Api.Port == config.Statistics.Port {
		return fmt.Errorf("api and statistics cannot share port %d", config.Api.Port)
	}

	return nil
}

func validateTemperature(config *TemperatureConfig) error {
	if !slices.Contains(TemperatureSourceModes, config.Source) {
		supported := make([]string, 0, len(TemperatureSourceModes))
		for _, mode := range TemperatureSourceModes {
			supported = append(supported, string(mode))
		}
		return fmt.Errorf("unsupported temperature source '%s', use one of: %s", config.Source, strings.Join(supported, " | "))
	}

	if len(config.CpuThermalZone) <= 0 {
		return errors.New("temperature: cpuThermalZone is missing")
	}

	if config.Source != TemperatureSourceCpu {
		if config.DriveCacheDuration <= 0 {
			return fmt.Errorf("temperature: driveCacheDuration must be > 0, was: %s", config.DriveCacheDuration)
		}
		if config.CommandTimeout <= 0 {
			return fmt.Errorf("temperature: commandTimeout must be > 0, was: %s", config.CommandTimeout)
		}
	}

	return nil
}

func validateFans(config *Configuration) error {
	if len(config.Fans) <= 0 {
		return errors.New("no fan configured")
	}

	var ids []string
	for idx, fanConfig := range config.Fans {
		if len(fanConfig.ID) <= 0 {
			return fmt.Errorf("fan #%d: id is missing", idx+1)
		}
		if slices.Contains(ids, fanConfig.ID) {
			return fmt.Errorf("duplicate fan id detected: %s", fanConfig.ID)
		}
		ids = append(ids, fanConfig.ID)

		err := ValidateFan(fanConfig)
		if err != nil {
			return err
		}

		if !fanConfig.Enabled {
			ui.Warning("Fan %s: automatic control is disabled, the fan will be stopped", fanConfig.ID)
		}
	}

	return nil
}

// ValidateFan checks a single fan channel configuration.
// Invalid values are rejected, never adjusted.
func ValidateFan(fanConfig FanConfig) error {
	if fanConfig.Lv3 <= fanConfig.Lv0 {
		return fmt.Errorf("fan %s: lv3 (%.1f) must be greater than lv0 (%.1f)", fanConfig.ID, fanConfig.Lv3, fanConfig.Lv0)
	}
	if fanConfig.Lv1 < fanConfig.Lv0 || fanConfig.Lv2 < fanConfig.Lv1 || fanConfig.Lv3 < fanConfig.Lv2 {
		return fmt.Errorf("fan %s: temperature levels must be ascending (lv0 <= lv1 <= lv2 <= lv3)", fanConfig.ID)
	}

	if fanConfig.Hysteresis < 0 {
		return fmt.Errorf("fan %s: hysteresis must be >= 0", fanConfig.ID)
	}
	if fanConfig.AverageSamples < 1 {
		return fmt.Errorf("fan %s: averageSamples must be >= 1", fanConfig.ID)
	}

	if fanConfig.DcMin < 0 || fanConfig.DcMin > 1 {
		return fmt.Errorf("fan %s: dcMin must be in [0..1]", fanConfig.ID)
	}
	if fanConfig.DcMax < fanConfig.DcMin || fanConfig.DcMax > 1 {
		return fmt.Errorf("fan %s: dcMax must be in [dcMin..1]", fanConfig.ID)
	}

	return validateDevice(fanConfig.ID, fanConfig.Device)
}

func validateDevice(fanId string, config DeviceConfig) error {
	if len(config.Path) <= 0 && len(config.Glob) <= 0 {
		return fmt.Errorf("fan %s: device needs either a path or a glob", fanId)
	}
	if config.MinValue < 0 {
		return fmt.Errorf("fan %s: device minValue must be >= 0", fanId)
	}
	if config.MaxValue <= config.MinValue {
		return fmt.Errorf("fan %s: device maxValue (%d) must be greater than minValue (%d)", fanId, config.MaxValue, config.MinValue)
	}
	return nil
}
