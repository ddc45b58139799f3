package fan

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var dutyCmd = &cobra.Command{
	Use:   "duty",
	Short: "Get/Set the duty cycle of a fan ([0..1], 0 is stopped, 1 is full speed)",
	Long:  `Unlike 'speed', the duty cycle respects the pwm range and the 'inverted' setting of the fan.`,
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		fan, err := getFan(fanId)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			duty, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return err
			}
			if duty < 0 || duty > 1 {
				return fmt.Errorf("duty cycle must be in [0..1], was: %s", args[0])
			}
			_, err = fan.SetDuty(duty)
			return err
		}

		pwm, err := fan.GetPwm()
		if err != nil {
			return err
		}
		fmt.Printf("%.3f", fan.PwmToDuty(pwm))
		return nil
	},
}

func init() {
	Command.AddCommand(dutyCmd)
}
