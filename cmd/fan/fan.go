package fan

import (
	"fmt"

	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/pentafan/pentafan/internal/fans"
	"github.com/pentafan/pentafan/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var fanId string

var Command = &cobra.Command{
	Use:              "fan",
	Short:            "Fan related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&fanId,
		"id", "i",
		"",
		"Fan ID as specified in the config",
	)
	_ = Command.MarkPersistentFlagRequired("id")
}

// getFan locates the pwm device of the given fan without changing its control mode
func getFan(id string) (*fans.HwMonFan, error) {
	configPath := configuration.DetectAndReadConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	err := configuration.Validate()
	if err != nil {
		ui.FatalWithoutStacktrace("%v", err)
	}

	config, ok := configuration.CurrentConfig.FindFan(id)
	if !ok {
		var availableFanIds []string
		for _, fanConfig := range configuration.CurrentConfig.Fans {
			availableFanIds = append(availableFanIds, fanConfig.ID)
		}
		return nil, fmt.Errorf("no fan with id found: %s, options: %s", id, availableFanIds)
	}

	fs := afero.NewOsFs()
	pwmOutput, err := fans.NewHwMonLocator(fs, config.Device).Locate()
	if err != nil {
		return nil, err
	}
	return fans.NewHwMonFan(config.ID, pwmOutput, fs, config.Device), nil
}
