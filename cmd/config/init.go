package config

import (
	"fmt"

	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/pentafan/pentafan/internal/ui"
	"github.com/pentafan/pentafan/internal/util"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "/etc/pentafan/pentafan.yaml"

var (
	outputPath string
	force      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes a configuration file with default values",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := writeDefaultConfig(afero.NewOsFs(), outputPath, force)
		if err != nil {
			return err
		}
		ui.Success("Configuration written to %s", outputPath)
		return nil
	},
}

func renderDefaultConfig() ([]byte, error) {
	return yaml.Marshal(configuration.DefaultConfiguration())
}

func writeDefaultConfig(fs afero.Fs, path string, overwrite bool) error {
	if !overwrite && util.FileExists(fs, path) {
		return fmt.Errorf("%s already exists, use --force to overwrite it", path)
	}
	data, err := renderDefaultConfig()
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(path, data)
}

func init() {
	initCmd.Flags().StringVarP(&outputPath, "output", "o", defaultConfigPath, "Path of the configuration file to write")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")
	Command.AddCommand(initCmd)
}
