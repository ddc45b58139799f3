package fan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pentafan/pentafan/internal/fans"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Get/Set the current pwm mode setting of a fan",
	Long:  ``,
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		fan, err := getFan(fanId)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			pwmEnabled, err := parseControlMode(args[0])
			if err != nil {
				return err
			}
			err = fan.SetPwmEnabled(pwmEnabled)
			if err != nil {
				return err
			}
		}

		pwmEnabled, err := fan.GetPwmEnabled()
		if err != nil {
			return err
		}
		fmt.Print(describeControlMode(pwmEnabled))
		return nil
	},
}

func parseControlMode(arg string) (fans.ControlMode, error) {
	argAsInt, err := strconv.Atoi(arg)
	if err != nil {
		switch strings.ToLower(arg) {
		case "auto":
			return fans.ControlModeAutomatic, nil
		case "pwm":
			return fans.ControlModePWM, nil
		case "disabled":
			return fans.ControlModeDisabled, nil
		default:
			return 0, fmt.Errorf("unknown mode: %s, must be an integer in (0..2) or one of: 'auto', 'pwm', 'disabled'", arg)
		}
	}

	mode := fans.ControlMode(argAsInt)
	switch mode {
	case fans.ControlModeAutomatic, fans.ControlModePWM, fans.ControlModeDisabled:
		return mode, nil
	default:
		return 0, fmt.Errorf("unknown mode: %d, must be an integer in (0..2) or one of: 'auto', 'pwm', 'disabled'", argAsInt)
	}
}

func describeControlMode(pwmEnabled int) string {
	switch fans.ControlMode(pwmEnabled) {
	case fans.ControlModeDisabled:
		return fmt.Sprintf("No control, 100%% all the time (%d)", pwmEnabled)
	case fans.ControlModePWM:
		return fmt.Sprintf("Manual PWM control, gives pentafan control (%d)", pwmEnabled)
	case fans.ControlModeAutomatic:
		return fmt.Sprintf("Automatic control by integrated hardware (%d)", pwmEnabled)
	default:
		return fmt.Sprintf("Unknown (%d)", pwmEnabled)
	}
}

func init() {
	Command.AddCommand(modeCmd)
}
