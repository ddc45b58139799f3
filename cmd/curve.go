package cmd

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/pentafan/pentafan/internal/controller"
	"github.com/pentafan/pentafan/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var curveFanId string

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the temperature to duty cycle ramp of the configured fans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()
		if err := configuration.Validate(); err != nil {
			ui.FatalWithoutStacktrace("%v", err)
		}

		printed := 0
		for _, config := range configuration.CurrentConfig.Fans {
			if len(curveFanId) > 0 && config.ID != curveFanId {
				continue
			}
			if printed > 0 {
				ui.Printfln("")
			}
			if err := printCurve(config); err != nil {
				return err
			}
			printed++
		}
		if printed == 0 {
			return fmt.Errorf("no fan with id found: %s", curveFanId)
		}
		return nil
	},
}

func printCurve(config configuration.FanConfig) error {
	c, err := controller.NewDutyCycleController(config)
	if err != nil {
		return err
	}

	ui.Printfln(config.ID)
	tableString, err := renderTable(table.Table{
		Headers: []string{"", ""},
		Rows: [][]string{
			{"lv0", fmt.Sprintf("%.1f°C", config.Lv0)},
			{"lv1", fmt.Sprintf("%.1f°C", config.Lv1)},
			{"lv2", fmt.Sprintf("%.1f°C", config.Lv2)},
			{"lv3", fmt.Sprintf("%.1f°C", config.Lv3)},
			{"Duty", fmt.Sprintf("%.2f..%.2f", config.DcMin, config.DcMax)},
			{"Hysteresis", fmt.Sprintf("%.1f°C (%.3f duty)", config.Hysteresis, c.HysteresisThreshold())},
			{"Samples", fmt.Sprintf("%d", config.AverageSamples)},
		},
	})
	if err != nil {
		return err
	}
	ui.Printfln(tableString)

	from, to := curveRange(config)
	var values []float64
	for temperature := from; temperature <= to; temperature += 0.5 {
		values = append(values, c.Ramp(temperature)*100)
	}

	caption := fmt.Sprintf("Duty %% / Temperature (%.0f°C..%.0f°C)", from, to)
	graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
	ui.Printfln(graph)
	return nil
}

// curveRange pads the ramp with a flat section on both sides
func curveRange(config configuration.FanConfig) (float64, float64) {
	padding := (config.Lv3 - config.Lv0) / 2
	return config.Lv0 - padding, config.Lv3 + padding
}

func init() {
	curveCmd.Flags().StringVarP(&curveFanId, "id", "i", "", "Fan ID as specified in the config, all fans if empty")
	rootCmd.AddCommand(curveCmd)
}
