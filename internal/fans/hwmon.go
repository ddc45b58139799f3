package fans

import (
	"fmt"
	"math"
	"sync"

	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/pentafan/pentafan/internal/ui"
	"github.com/pentafan/pentafan/internal/util"
	"github.com/spf13/afero"
)

type HwMonFan struct {
	ID                 string                     `json:"id"`
	PwmOutput          string                     `json:"pwmOutput"`
	Config             configuration.DeviceConfig `json:"config"`
	OriginalPwmEnabled int                        `json:"originalPwmEnabled"`

	fs         afero.Fs
	mu         sync.Mutex
	lastSetPwm *int
	lastDuty   float64
}

// Open locates the pwm node of a fan and switches it to manual control
func Open(id string, locator DeviceLocator, fs afero.Fs, config configuration.DeviceConfig) (*HwMonFan, error) {
	pwmOutput, err := locator.Locate()
	if err != nil {
		return nil, err
	}

	fan := NewHwMonFan(id, pwmOutput, fs, config)
	fan.OriginalPwmEnabled = NoControlMode

	if util.FileExists(fs, fan.pwmEnablePath()) {
		pwmEnabled, err := fan.GetPwmEnabled()
		if err != nil {
			ui.Warning("Cannot read pwm_enable value of %s: %v", id, err)
		} else {
			fan.OriginalPwmEnabled = pwmEnabled
		}

		// the driver may default to automatic control, which would fight our writes
		err = fan.SetPwmEnabled(ControlModePWM)
		if err != nil {
			ui.Warning("Could not enable manual pwm control on %s, trying to continue anyway: %v", id, err)
		}
	}

	return fan, nil
}

func NewHwMonFan(id string, pwmOutput string, fs afero.Fs, config configuration.DeviceConfig) *HwMonFan {
	return &HwMonFan{
		ID:                 id,
		PwmOutput:          pwmOutput,
		Config:             config,
		OriginalPwmEnabled: NoControlMode,
		fs:                 fs,
	}
}

func (fan *HwMonFan) GetId() string {
	return fan.ID
}

// DutyToPwm converts a duty cycle to the native value of the pwm node,
// this is the only place where polarity is applied
func (fan *HwMonFan) DutyToPwm(duty float64) int {
	if math.IsNaN(duty) {
		duty = 1
	}
	duty = util.Coerce(duty, 0, 1)
	if fan.Config.Inverted {
		duty = 1 - duty
	}
	minValue := float64(fan.Config.MinValue)
	maxValue := float64(fan.Config.MaxValue)
	return int(math.Round(util.Lerp(duty, minValue, maxValue)))
}

// PwmToDuty is the inverse of DutyToPwm
func (fan *HwMonFan) PwmToDuty(pwm int) float64 {
	duty := util.Coerce(util.Ratio(float64(pwm), float64(fan.Config.MinValue), float64(fan.Config.MaxValue)), 0, 1)
	if fan.Config.Inverted {
		duty = 1 - duty
	}
	return duty
}

func (fan *HwMonFan) SetDuty(duty float64) (bool, error) {
	pwm := fan.DutyToPwm(duty)

	fan.mu.Lock()
	defer fan.mu.Unlock()

	if fan.lastSetPwm != nil && *fan.lastSetPwm == pwm {
		return false, nil
	}

	ui.Debug("Setting %s (%s) to duty %.3f (pwm %d) ...", fan.ID, fan.PwmOutput, duty, pwm)
	err := fan.writePwm(pwm)
	if err != nil {
		return false, err
	}
	fan.lastDuty = util.Coerce(duty, 0, 1)
	return true, nil
}

func (fan *HwMonFan) GetDuty() (float64, bool) {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	return fan.lastDuty, fan.lastSetPwm != nil
}

func (fan *HwMonFan) GetPwm() (int, error) {
	return util.ReadIntFromFile(fan.fs, fan.PwmOutput)
}

// SetPwm writes a raw value, bypassing polarity and the duty cycle mapping
func (fan *HwMonFan) SetPwm(pwm int) error {
	if pwm < fan.Config.MinValue || pwm > fan.Config.MaxValue {
		return fmt.Errorf("pwm value %d of %s is out of range [%d..%d]", pwm, fan.ID, fan.Config.MinValue, fan.Config.MaxValue)
	}

	fan.mu.Lock()
	defer fan.mu.Unlock()

	err := fan.writePwm(pwm)
	if err != nil {
		return err
	}
	fan.lastDuty = fan.PwmToDuty(pwm)
	return nil
}

// writePwm must be called with mu held
func (fan *HwMonFan) writePwm(pwm int) error {
	err := util.WriteIntToFile(fan.fs, pwm, fan.PwmOutput)
	if err != nil {
		return fmt.Errorf("%w: writing %d to %s: %v", ErrIOFailure, pwm, fan.PwmOutput, err)
	}
	fan.lastSetPwm = &pwm
	return nil
}

func (fan *HwMonFan) pwmEnablePath() string {
	return fan.PwmOutput + "_enable"
}

func (fan *HwMonFan) GetPwmEnabled() (int, error) {
	return util.ReadIntFromFile(fan.fs, fan.pwmEnablePath())
}

// SetPwmEnabled writes the given value to pwmX_enable
// Possible values (unsure if these are true for all scenarios):
// 0 - no control (results in max speed)
// 1 - manual pwm control
// 2 - motherboard pwm control
func (fan *HwMonFan) SetPwmEnabled(value ControlMode) error {
	err := util.WriteIntToFile(fan.fs, int(value), fan.pwmEnablePath())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	currentValue, err := fan.GetPwmEnabled()
	if err != nil {
		return fmt.Errorf("%w: reading back pwm mode of %s: %v", ErrIOFailure, fan.ID, err)
	}
	if currentValue != int(value) {
		return fmt.Errorf("PWM mode stuck to %d", currentValue)
	}
	return nil
}

func (fan *HwMonFan) RestoreControlMode() error {
	if fan.OriginalPwmEnabled == NoControlMode || fan.OriginalPwmEnabled == int(ControlModePWM) {
		return nil
	}
	ui.Info("Restoring pwm_enable of %s to %d", fan.ID, fan.OriginalPwmEnabled)
	return fan.SetPwmEnabled(ControlMode(fan.OriginalPwmEnabled))
}
