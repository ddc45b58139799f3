package sensors

import (
	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/pentafan/pentafan/internal/util"
)

// Sensor is a single temperature reading in degrees celsius
type Sensor interface {
	GetId() string
	GetLabel() string

	// GetValue returns the current temperature of this sensor
	GetValue() (float64, error)
}

// CommandRunner executes a command and returns its output
type CommandRunner func(executable string, args []string) (string, error)

// NewCommandRunner returns a CommandRunner which applies the given timeout to every invocation
func NewCommandRunner(config configuration.TemperatureConfig) CommandRunner {
	return func(executable string, args []string) (string, error) {
		return util.SafeCmdExecution(executable, args, config.CommandTimeout)
	}
}
