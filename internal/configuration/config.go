package configuration

import (
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/pentafan/pentafan/internal/ui"
	"github.com/spf13/viper"
)

const (
	DefaultConfigName = "pentafan"
	DefaultConfigPath = "/etc/pentafan/pentafan.yaml"
)

type Configuration struct {
	// Time interval between each duty cycle update of a fan channel
	ControllerAdjustmentTickRate time.Duration `json:"controllerAdjustmentTickRate" yaml:"controllerAdjustmentTickRate"`

	Temperature TemperatureConfig `json:"temperature" yaml:"temperature"`
	Fans        []FanConfig       `json:"fans" yaml:"fans"`

	Statistics StatisticsConfig `json:"statistics" yaml:"statistics"`
	Api        ApiConfig        `json:"api" yaml:"api"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName(DefaultConfigName)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/pentafan/")
	}

	viper.SetEnvPrefix("PENTAFAN")
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("ControllerAdjustmentTickRate", 1*time.Second)

	viper.SetDefault("temperature.source", string(TemperatureSourceCpu))
	viper.SetDefault("temperature.cpuThermalZone", "/sys/class/thermal/thermal_zone0/temp")
	viper.SetDefault("temperature.driveCacheDuration", 60*time.Second)
	viper.SetDefault("temperature.commandTimeout", 5*time.Second)
	viper.SetDefault("temperature.lsblkPath", "lsblk")
	viper.SetDefault("temperature.findmntPath", "findmnt")
	viper.SetDefault("temperature.smartctlPath", "smartctl")
	viper.SetDefault("temperature.sysfsPath", "/sys")
	viper.SetDefault("temperature.bootDrive", "")

	viper.SetDefault("fans", []FanConfig{})

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)
}

// DetectConfigFile returns the path of the config file viper would use,
// exits the process if there is none
func DetectConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.FatalWithoutStacktrace("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

// DetectAndReadConfigFile detects the config file, reads it and returns its path
func DetectAndReadConfigFile() string {
	path := DetectConfigFile()
	LoadConfig()
	return path
}

// LoadConfig decodes the current viper state into CurrentConfig
func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(decodeHooks()))
	if err != nil {
		ui.FatalWithoutStacktrace("unable to decode into struct, %v", err)
	}
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		fanDefaultsHookFunc(),
		deviceDefaultsHookFunc(),
		TemperatureSourceModeHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// FindFan returns the fan configuration with the given id
func (c *Configuration) FindFan(id string) (FanConfig, bool) {
	for _, fan := range c.Fans {
		if fan.ID == id {
			return fan, true
		}
	}
	return FanConfig{}, false
}

// DefaultConfiguration returns the configuration written by "config init"
func DefaultConfiguration() Configuration {
	return Configuration{
		ControllerAdjustmentTickRate: 1 * time.Second,
		Temperature: TemperatureConfig{
			Source:             TemperatureSourceCpu,
			CpuThermalZone:     "/sys/class/thermal/thermal_zone0/temp",
			DriveCacheDuration: 60 * time.Second,
			CommandTimeout:     5 * time.Second,
			LsblkPath:          "lsblk",
			FindmntPath:        "findmnt",
			SmartctlPath:       "smartctl",
			SysfsPath:          "/sys",
		},
		Fans: []FanConfig{
			DefaultFanConfig("penta"),
		},
		Statistics: StatisticsConfig{
			Enabled: false,
			Port:    9000,
		},
		Api: ApiConfig{
			Enabled: false,
			Host:    "localhost",
			Port:    9001,
		},
	}
}
