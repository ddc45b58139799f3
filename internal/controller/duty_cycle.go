package controller

import (
	"fmt"
	"math"

	"github.com/asecurityteam/rolling"
	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/pentafan/pentafan/internal/util"
)

// ControllerState is the mutable history of a single fan channel
type ControllerState struct {
	window   *rolling.PointPolicy
	size     int
	count    int
	lastDuty *float64
}

func NewControllerState(size int) *ControllerState {
	return &ControllerState{
		window: util.CreateRollingWindow(size),
		size:   size,
	}
}

// Len returns the number of samples currently retained
func (s *ControllerState) Len() int {
	return s.count
}

func (s *ControllerState) append(sample float64) {
	s.window.Append(sample)
	if s.count < s.size {
		s.count++
	}
}

// Average of the retained samples, 0 if there are none
func (s *ControllerState) Average() float64 {
	if s.count == 0 {
		return 0
	}
	// slots that were never written hold 0 and do not affect the sum
	return util.GetWindowSum(s.window) / float64(s.count)
}

func (s *ControllerState) LastDuty() (float64, bool) {
	if s.lastDuty == nil {
		return 0, false
	}
	return *s.lastDuty, true
}

func (s *ControllerState) Reset() {
	s.window = util.CreateRollingWindow(s.size)
	s.count = 0
	s.lastDuty = nil
}

// StateSnapshot is a copy of a ControllerState safe to hand to readers
type StateSnapshot struct {
	Average  float64  `json:"average"`
	Samples  int      `json:"samples"`
	LastDuty *float64 `json:"lastDuty"`
}

func (s *ControllerState) Snapshot() StateSnapshot {
	snapshot := StateSnapshot{
		Average: s.Average(),
		Samples: s.count,
	}
	if s.lastDuty != nil {
		duty := *s.lastDuty
		snapshot.LastDuty = &duty
	}
	return snapshot
}

// DutyCycleController maps temperature samples to a duty cycle
// using a two point linear ramp between lv0 and lv3
type DutyCycleController struct {
	lv0            float64
	lv3            float64
	hysteresis     float64
	dcMin          float64
	dcMax          float64
	averageSamples int
}

func NewDutyCycleController(config configuration.FanConfig) (*DutyCycleController, error) {
	if !(config.Lv3 > config.Lv0) {
		return nil, fmt.Errorf("lv3 (%.1f) must be greater than lv0 (%.1f)", config.Lv3, config.Lv0)
	}
	if config.AverageSamples < 1 {
		return nil, fmt.Errorf("averageSamples must be >= 1, was: %d", config.AverageSamples)
	}
	if config.DcMin < 0 || config.DcMax > 1 || config.DcMin > config.DcMax {
		return nil, fmt.Errorf("duty cycle range [%.2f..%.2f] is invalid", config.DcMin, config.DcMax)
	}
	return &DutyCycleController{
		lv0:            config.Lv0,
		lv3:            config.Lv3,
		hysteresis:     config.Hysteresis,
		dcMin:          config.DcMin,
		dcMax:          config.DcMax,
		averageSamples: config.AverageSamples,
	}, nil
}

func (c *DutyCycleController) NewState() *ControllerState {
	return NewControllerState(c.averageSamples)
}

// Ramp evaluates the linear ramp for the given temperature
func (c *DutyCycleController) Ramp(temperature float64) float64 {
	if temperature <= c.lv0 {
		return c.dcMin
	}
	if temperature >= c.lv3 {
		return c.dcMax
	}
	ratio := util.Ratio(temperature, c.lv0, c.lv3)
	return util.Lerp(ratio, c.dcMin, c.dcMax)
}

// HysteresisThreshold is the hysteresis band expressed in duty cycle units
func (c *DutyCycleController) HysteresisThreshold() float64 {
	return c.hysteresis / (c.lv3 - c.lv0) * (c.dcMax - c.dcMin)
}

// Update records a new temperature sample and returns the duty cycle to apply
func (c *DutyCycleController) Update(state *ControllerState, sample float64) float64 {
	state.append(sample)
	duty := util.Coerce(c.Ramp(state.Average()), c.dcMin, c.dcMax)

	if last, ok := state.LastDuty(); ok {
		if math.Abs(duty-last) < c.HysteresisThreshold() {
			duty = last
		}
	}

	state.lastDuty = &duty
	return duty
}
