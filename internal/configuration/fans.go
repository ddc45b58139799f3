package configuration

const (
	DefaultPwmGlob     = "/sys/class/hwmon/hwmon*/pwm1"
	DefaultPwmMinValue = 0
	DefaultPwmMaxValue = 255
)

type FanConfig struct {
	ID string `json:"id" yaml:"id"`

	// Lv0 is the temperature (°C) at and below which the fan runs at DcMin
	Lv0 float64 `json:"lv0" yaml:"lv0"`
	Lv1 float64 `json:"lv1" yaml:"lv1"`
	Lv2 float64 `json:"lv2" yaml:"lv2"`
	// Lv3 is the temperature (°C) at and above which the fan runs at DcMax
	Lv3 float64 `json:"lv3" yaml:"lv3"`

	Hysteresis     float64 `json:"hysteresis" yaml:"hysteresis"`
	AverageSamples int     `json:"averageSamples" yaml:"averageSamples"`

	DcMin float64 `json:"dcMin" yaml:"dcMin"`
	DcMax float64 `json:"dcMax" yaml:"dcMax"`

	// Enabled is the initial state of automatic control, a disabled fan is stopped
	Enabled bool `json:"enabled" yaml:"enabled"`

	Device DeviceConfig `json:"device" yaml:"device"`
}

type DeviceConfig struct {
	// Path skips discovery and uses the given pwm node
	Path string `json:"path" yaml:"path"`
	// Glob is the pattern used to discover pwm nodes
	Glob     string `json:"glob" yaml:"glob"`
	Inverted bool   `json:"inverted" yaml:"inverted"`
	MinValue int    `json:"minValue" yaml:"minValue"`
	MaxValue int    `json:"maxValue" yaml:"maxValue"`
}

func DefaultFanConfig(id string) FanConfig {
	return FanConfig{
		ID:             id,
		Lv0:            35,
		Lv1:            40,
		Lv2:            45,
		Lv3:            50,
		Hysteresis:     2,
		AverageSamples: 5,
		DcMin:          0,
		DcMax:          1,
		Enabled:        true,
		Device:         DefaultDeviceConfig(),
	}
}

func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		Glob:     DefaultPwmGlob,
		MinValue: DefaultPwmMinValue,
		MaxValue: DefaultPwmMaxValue,
	}
}
