package sensor

import (
	"fmt"
	"strings"

	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/pentafan/pentafan/internal/sensors"
	"github.com/pentafan/pentafan/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

var sourceMode string

var Command = &cobra.Command{
	Use:   "sensor",
	Short: "Print the cpu, drive and effective temperature",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()
		if err := configuration.Validate(); err != nil {
			ui.FatalWithoutStacktrace("%v", err)
		}

		config := configuration.CurrentConfig.Temperature
		mode := config.Source
		if len(sourceMode) > 0 {
			mode = configuration.TemperatureSourceMode(strings.ToLower(sourceMode))
		}
		if !slices.Contains(configuration.TemperatureSourceModes, mode) {
			return fmt.Errorf("unsupported temperature source '%s', use one of: cpu | drives | both", sourceMode)
		}

		fs := afero.NewOsFs()
		cpu := sensors.NewCpuSensor(fs, config.CpuThermalZone)
		drives := sensors.NewDriveTemperatureReader(fs, config, sensors.NewCommandRunner(config))
		source := sensors.NewSource(cpu, drives)

		fmt.Print(formatTemperatures(source, mode))
		return nil
	},
}

func formatTemperatures(source *sensors.TemperatureSource, mode configuration.TemperatureSourceMode) string {
	var b strings.Builder

	if cpu, err := source.CpuTemperature(); err == nil {
		fmt.Fprintf(&b, "cpu: %.1f\n", cpu)
	} else {
		fmt.Fprintf(&b, "cpu: N/A (%v)\n", err)
	}

	if mode != configuration.TemperatureSourceCpu {
		for _, reading := range source.DriveReadings() {
			fmt.Fprintf(&b, "%s: %.1f\n", reading.Device, reading.Temperature)
		}
	}

	if effective, err := source.EffectiveTemperature(mode); err == nil {
		fmt.Fprintf(&b, "effective (%s): %.1f\n", mode, effective)
	} else {
		fmt.Fprintf(&b, "effective (%s): N/A\n", mode)
	}
	return b.String()
}

func init() {
	Command.Flags().StringVarP(
		&sourceMode,
		"source", "s",
		"",
		"Temperature source to evaluate (cpu | drives | both), defaults to the configured one",
	)
}
