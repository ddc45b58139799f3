package fans

import (
	"errors"
)

const (
	MaxPwmValue = 255
	MinPwmValue = 0
)

var (
	// ErrDeviceNotFound is returned when no writable pwm node could be located
	ErrDeviceNotFound = errors.New("no writable pwm device found")
	// ErrIOFailure wraps any failed write to a pwm node
	ErrIOFailure = errors.New("pwm device i/o failure")
)

type ControlMode int

const (
	// ControlModeDisabled completely disables control, resulting in a 100% voltage/PWM signal output
	ControlModeDisabled ControlMode = 0
	// ControlModePWM enables manual, fixed speed control via setting the pwm value
	ControlModePWM ControlMode = 1
	// ControlModeAutomatic enables automatic control by the integrated control of the mainboard
	ControlModeAutomatic ControlMode = 2
)

// NoControlMode is stored as original control mode of fans without a pwm_enable node
const NoControlMode = -1

// Fan is a pwm output driven by a normalized duty cycle
type Fan interface {
	GetId() string

	// SetDuty writes the given duty cycle in [0..1], 0 meaning stopped and 1 full speed.
	// written is false when the native value was unchanged and no write was issued.
	SetDuty(duty float64) (written bool, err error)
	// GetDuty returns the last successfully written duty cycle
	GetDuty() (duty float64, ok bool)

	// GetPwm returns the current raw value of the pwm node
	GetPwm() (int, error)
	SetPwm(pwm int) error

	GetPwmEnabled() (int, error)
	SetPwmEnabled(value ControlMode) error

	// RestoreControlMode writes back the pwm_enable value found when the fan was opened
	RestoreControlMode() error
}
