package controller

import (
	"context"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/pentafan/pentafan/internal/fans"
	"github.com/pentafan/pentafan/internal/ui"
)

// ControllerMap holds all running controllers, keyed by fan id
var ControllerMap = cmap.New[FanController]()

// TemperatureSource provides the temperature a channel is controlled by
type TemperatureSource interface {
	EffectiveTemperature(mode configuration.TemperatureSourceMode) (float64, error)
}

type FanController interface {
	// Run starts the control loop, blocking until ctx is done
	Run(ctx context.Context) error
	// UpdateFanSpeed runs a single control tick
	UpdateFanSpeed() error

	GetFanId() string
	GetSnapshot() FanSnapshot
	GetStatistics() FanControllerStatistics

	SetEnabled(enabled bool)
	IsEnabled() bool
}

type FanControllerStatistics struct {
	TickCount               int `json:"tickCount"`
	WriteCount              int `json:"writeCount"`
	WriteFailureCount       int `json:"writeFailureCount"`
	TemperatureFailureCount int `json:"temperatureFailureCount"`
	UnexpectedPwmValueCount int `json:"unexpectedPwmValueCount"`
}

// FanSnapshot is the externally visible state of a controller
type FanSnapshot struct {
	FanId       string                  `json:"fanId"`
	Enabled     bool                    `json:"enabled"`
	Temperature *float64                `json:"temperature"`
	State       StateSnapshot           `json:"state"`
	Duty        *float64                `json:"duty"`
	Pwm         *int                    `json:"pwm"`
	LastError   string                  `json:"lastError,omitempty"`
	UpdatedAt   time.Time               `json:"updatedAt"`
	Statistics  FanControllerStatistics `json:"statistics"`
}

type DefaultFanController struct {
	fan        fans.Fan
	source     TemperatureSource
	mode       configuration.TemperatureSourceMode
	updateRate time.Duration

	dutyController *DutyCycleController

	mu          sync.RWMutex
	state       *ControllerState
	enabled     bool
	temperature *float64
	duty        *float64
	pwm         *int
	lastError   error
	updatedAt   time.Time
	statistics  FanControllerStatistics
}

func NewFanController(
	config configuration.FanConfig,
	fan fans.Fan,
	source TemperatureSource,
	mode configuration.TemperatureSourceMode,
	updateRate time.Duration,
) (*DefaultFanController, error) {
	dutyController, err := NewDutyCycleController(config)
	if err != nil {
		return nil, err
	}
	return &DefaultFanController{
		fan:            fan,
		source:         source,
		mode:           mode,
		updateRate:     updateRate,
		dutyController: dutyController,
		state:          dutyController.NewState(),
		enabled:        config.Enabled,
	}, nil
}

func (f *DefaultFanController) GetFanId() string {
	return f.fan.GetId()
}

func (f *DefaultFanController) Run(ctx context.Context) error {
	ui.Info("Starting controller loop for fan '%s' (mode: %s, rate: %s)", f.GetFanId(), f.mode, f.updateRate)

	err := f.UpdateFanSpeed()
	if err != nil {
		ui.Error("Error in FanController for fan %s: %v", f.GetFanId(), err)
	}

	ticker := time.NewTicker(f.updateRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			ui.Info("Stopping controller loop for fan '%s'", f.GetFanId())
			f.restore()
			return nil
		case <-ticker.C:
			err = f.UpdateFanSpeed()
			if err != nil {
				ui.Error("Error in FanController for fan %s: %v", f.GetFanId(), err)
			}
		}
	}
}

// restore hands the fan back to whoever controlled it before us,
// or spins it up to full speed if that is not possible
func (f *DefaultFanController) restore() {
	err := f.fan.RestoreControlMode()
	if err == nil {
		return
	}
	ui.Warning("Unable to restore control mode of %s: %v", f.GetFanId(), err)
	_, err = f.fan.SetDuty(1)
	if err != nil {
		ui.Warning("Unable to restore fan %s, make sure it is running!", f.GetFanId())
	}
}

func (f *DefaultFanController) UpdateFanSpeed() error {
	temperature, err := f.source.EffectiveTemperature(f.mode)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.statistics.TickCount++
	f.updatedAt = time.Now()
	if err != nil {
		f.statistics.TemperatureFailureCount++
		f.lastError = err
		return err
	}
	f.temperature = &temperature

	duty := f.dutyController.Update(f.state, temperature)
	target := duty
	if !f.enabled {
		target = 0
	}
	ui.Debug("Duty of %s: %.3f (avg temperature: %.1f)", f.GetFanId(), target, f.state.Average())

	f.checkForThirdPartyChange()

	written, err := f.fan.SetDuty(target)
	if err != nil {
		f.statistics.WriteFailureCount++
		f.lastError = err
		return err
	}
	if written {
		f.statistics.WriteCount++
	}
	f.lastError = nil
	f.duty = &target
	if pwm, err := f.fan.GetPwm(); err == nil {
		f.pwm = &pwm
	}
	return nil
}

// checkForThirdPartyChange must be called with mu held
func (f *DefaultFanController) checkForThirdPartyChange() {
	currentPwm, err := f.fan.GetPwm()
	if err != nil {
		return
	}
	if f.pwm != nil && *f.pwm != currentPwm {
		ui.Warning("PWM of %s was changed by third party! Last set PWM value was: %d but is now: %d",
			f.GetFanId(), *f.pwm, currentPwm)
		f.statistics.UnexpectedPwmValueCount++
	}
}

func (f *DefaultFanController) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enabled != enabled {
		ui.Info("Automatic control of fan %s: %t", f.GetFanId(), enabled)
	}
	f.enabled = enabled
}

func (f *DefaultFanController) IsEnabled() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.enabled
}

func (f *DefaultFanController) GetStatistics() FanControllerStatistics {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.statistics
}

func (f *DefaultFanController) GetSnapshot() FanSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()

	snapshot := FanSnapshot{
		FanId:      f.GetFanId(),
		Enabled:    f.enabled,
		State:      f.state.Snapshot(),
		UpdatedAt:  f.updatedAt,
		Statistics: f.statistics,
	}
	if f.temperature != nil {
		temperature := *f.temperature
		snapshot.Temperature = &temperature
	}
	if f.duty != nil {
		duty := *f.duty
		snapshot.Duty = &duty
	}
	if f.pwm != nil {
		pwm := *f.pwm
		snapshot.Pwm = &pwm
	}
	if f.lastError != nil {
		snapshot.LastError = f.lastError.Error()
	}
	return snapshot
}
