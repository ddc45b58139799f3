package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/pentafan/pentafan/internal/hwmon"
	"github.com/pentafan/pentafan/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long:  `Detects all pwm outputs and temperature sensors and prints them as a list`,
	Run: func(cmd *cobra.Command, args []string) {
		controllers := hwmon.GetChips(afero.NewOsFs(), "/sys/class/hwmon")

		for _, controller := range controllers {
			if len(controller.Name) <= 0 {
				continue
			}

			ui.Printfln("> %s (%s)", controller.Name, controller.Path)

			var pwmRows [][]string
			for _, output := range controller.PwmOutputs {
				valueText := "N/A"
				if output.Value >= 0 {
					valueText = strconv.Itoa(output.Value)
				}
				enabledText := "N/A"
				if output.Enabled >= 0 {
					enabledText = strconv.Itoa(output.Enabled)
				}
				pwmRows = append(pwmRows, []string{
					"", strconv.Itoa(output.Index), output.Label, output.Path, valueText, enabledText, fmt.Sprintf("%v", output.Writable),
				})
			}
			pwmTable := table.Table{
				Headers: []string{"PWM    ", "Index", "Label", "Path", "Value", "Mode", "Writable"},
				Rows:    pwmRows,
			}

			var sensorRows [][]string
			for _, sensor := range controller.Sensors {
				_, file := filepath.Split(sensor.Input)
				labelAndFile := fmt.Sprintf("%s (%s)", sensor.Label, file)
				sensorRows = append(sensorRows, []string{
					"", strconv.Itoa(sensor.Index), labelAndFile, fmt.Sprintf("%.1f", sensor.Value),
				})
			}
			sensorTable := table.Table{
				Headers: []string{"Sensors", "Index", "Label", "Value"},
				Rows:    sensorRows,
			}

			tables := []table.Table{pwmTable, sensorTable}
			for idx, t := range tables {
				if t.Rows == nil {
					continue
				}
				tableString, err := renderTable(t)
				if err != nil {
					ui.Fatal("Error printing table: %v", err)
				}
				if idx < (len(tables) - 1) {
					ui.Printf(tableString)
				} else {
					ui.Printfln(tableString)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
