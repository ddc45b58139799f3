package configuration

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// TemperatureSourceModeHookFunc returns a mapstructure decode hook that accepts
// the temperature source mode case-insensitively.
func TemperatureSourceModeHookFunc() mapstructure.DecodeHookFuncType {
	modeType := reflect.TypeOf(TemperatureSourceMode(""))

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != modeType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return TemperatureSourceMode(strings.ToLower(strings.TrimSpace(v))), nil
		case TemperatureSourceMode:
			return v, nil
		default:
			return nil, fmt.Errorf("temperature source must be a string, got %T", data)
		}
	}
}

// fanDefaultsHookFunc fills in the default values of keys that are
// missing from a fan definition block. Keys that are present, even with
// a zero value, are left untouched so they can be rejected by validation.
func fanDefaultsHookFunc() mapstructure.DecodeHookFuncType {
	fanType := reflect.TypeOf(FanConfig{})
	defaults := DefaultFanConfig("")
	defaultValues := map[string]interface{}{
		"lv0":            defaults.Lv0,
		"lv1":            defaults.Lv1,
		"lv2":            defaults.Lv2,
		"lv3":            defaults.Lv3,
		"hysteresis":     defaults.Hysteresis,
		"averageSamples": defaults.AverageSamples,
		"dcMin":          defaults.DcMin,
		"dcMax":          defaults.DcMax,
		"enabled":        defaults.Enabled,
		"device":         map[string]interface{}{},
	}

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != fanType {
			return data, nil
		}
		return mergeDefaults(data, defaultValues), nil
	}
}

// deviceDefaultsHookFunc is the fanDefaultsHookFunc equivalent for the device block
func deviceDefaultsHookFunc() mapstructure.DecodeHookFuncType {
	deviceType := reflect.TypeOf(DeviceConfig{})
	defaults := DefaultDeviceConfig()
	defaultValues := map[string]interface{}{
		"glob":     defaults.Glob,
		"minValue": defaults.MinValue,
		"maxValue": defaults.MaxValue,
	}

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != deviceType {
			return data, nil
		}
		return mergeDefaults(data, defaultValues), nil
	}
}

// mergeDefaults returns a copy of data with all keys of defaults added that
// are not already present. Keys are compared case-insensitively, since viper
// lowercases keys. data is returned as is if it is not a map.
func mergeDefaults(data interface{}, defaults map[string]interface{}) interface{} {
	result := map[string]interface{}{}
	switch v := data.(type) {
	case map[string]interface{}:
		for key, value := range v {
			result[key] = value
		}
	case map[interface{}]interface{}:
		for key, value := range v {
			result[fmt.Sprintf("%v", key)] = value
		}
	default:
		return data
	}

	for key, value := range defaults {
		if !containsKeyFold(result, key) {
			result[key] = value
		}
	}
	return result
}

func containsKeyFold(m map[string]interface{}, key string) bool {
	for k := range m {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}
