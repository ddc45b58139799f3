package fans

import (
	"errors"
	"testing"

	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPwmPath = "/sys/class/hwmon/hwmon0/pwm1"

type staticLocator struct {
	path string
	err  error
}

func (l staticLocator) Locate() (string, error) {
	return l.path, l.err
}

func createTestFan(fs afero.Fs, config configuration.DeviceConfig) *HwMonFan {
	writeSysfsFile(fs, testPwmPath, "0")
	return NewHwMonFan("penta", testPwmPath, fs, config)
}

func TestHwMonFan_GetId(t *testing.T) {
	// GIVEN
	fan := NewHwMonFan("penta", testPwmPath, afero.NewMemMapFs(), configuration.DefaultDeviceConfig())

	// WHEN
	result := fan.GetId()

	// THEN
	assert.Equal(t, "penta", result)
}

func TestHwMonFan_DutyToPwm(t *testing.T) {
	fan := NewHwMonFan("penta", testPwmPath, afero.NewMemMapFs(), configuration.DefaultDeviceConfig())

	tests := []struct {
		duty     float64
		expected int
	}{
		{0, 0},
		{1, 255},
		{0.5, 128},
		{0.4667, 119},
		{-0.5, 0},
		{1.5, 255},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, fan.DutyToPwm(tt.duty), "duty %f", tt.duty)
	}
}

func TestHwMonFan_DutyToPwm_Inverted(t *testing.T) {
	// GIVEN
	config := configuration.DefaultDeviceConfig()
	config.Inverted = true
	fan := NewHwMonFan("penta", testPwmPath, afero.NewMemMapFs(), config)

	// THEN
	assert.Equal(t, 255, fan.DutyToPwm(0))
	assert.Equal(t, 0, fan.DutyToPwm(1))
	assert.Equal(t, 191, fan.DutyToPwm(0.25))
}

func TestHwMonFan_DutyToPwm_CustomRange(t *testing.T) {
	// GIVEN
	config := configuration.DefaultDeviceConfig()
	config.MinValue = 50
	config.MaxValue = 150
	fan := NewHwMonFan("penta", testPwmPath, afero.NewMemMapFs(), config)

	// THEN
	assert.Equal(t, 50, fan.DutyToPwm(0))
	assert.Equal(t, 100, fan.DutyToPwm(0.5))
	assert.Equal(t, 150, fan.DutyToPwm(1))
}

func TestHwMonFan_PwmToDuty_Inverted(t *testing.T) {
	// GIVEN
	config := configuration.DefaultDeviceConfig()
	config.Inverted = true
	fan := NewHwMonFan("penta", testPwmPath, afero.NewMemMapFs(), config)

	// THEN
	assert.Equal(t, 1.0, fan.PwmToDuty(0))
	assert.Equal(t, 0.0, fan.PwmToDuty(255))
}

func TestHwMonFan_SetDuty(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	fan := createTestFan(fs, configuration.DefaultDeviceConfig())

	// WHEN
	written, err := fan.SetDuty(0.5)

	// THEN
	require.NoError(t, err)
	assert.True(t, written)
	content, _ := afero.ReadFile(fs, testPwmPath)
	assert.Equal(t, "128", string(content))
	duty, ok := fan.GetDuty()
	assert.True(t, ok)
	assert.Equal(t, 0.5, duty)
}

func TestHwMonFan_SetDuty_SkipsUnchangedValue(t *testing.T) {
	// GIVEN
	fs := newRecordingFs(afero.NewMemMapFs())
	fan := createTestFan(fs, configuration.DefaultDeviceConfig())
	initialWrites := fs.writeCount(testPwmPath)

	// WHEN
	var results []bool
	for _, duty := range []float64{0.4667, 0.4667, 0.4668, 1} {
		written, err := fan.SetDuty(duty)
		require.NoError(t, err)
		results = append(results, written)
	}

	// THEN
	assert.Equal(t, []bool{true, false, false, true}, results)
	assert.Equal(t, 2, fs.writeCount(testPwmPath)-initialWrites)
	pwm, err := fan.GetPwm()
	require.NoError(t, err)
	assert.Equal(t, 255, pwm)
}

func TestHwMonFan_SetDuty_IOFailure(t *testing.T) {
	// GIVEN
	fs := newRecordingFs(afero.NewMemMapFs())
	fan := createTestFan(fs, configuration.DefaultDeviceConfig())
	fs.deny(testPwmPath)

	// WHEN
	written, err := fan.SetDuty(0.5)

	// THEN
	assert.True(t, errors.Is(err, ErrIOFailure))
	assert.False(t, written)
	_, ok := fan.GetDuty()
	assert.False(t, ok)
}

func TestHwMonFan_SetDuty_RetriesAfterFailure(t *testing.T) {
	// GIVEN
	base := afero.NewMemMapFs()
	fs := newRecordingFs(base)
	fan := createTestFan(fs, configuration.DefaultDeviceConfig())
	fs.deny(testPwmPath)
	_, _ = fan.SetDuty(0.5)

	// WHEN
	fan.fs = base
	_, err := fan.SetDuty(0.5)

	// THEN
	require.NoError(t, err)
	content, _ := afero.ReadFile(base, testPwmPath)
	assert.Equal(t, "128", string(content))
}

func TestHwMonFan_SetPwm_OutOfRange(t *testing.T) {
	// GIVEN
	fan := createTestFan(afero.NewMemMapFs(), configuration.DefaultDeviceConfig())

	// WHEN
	err := fan.SetPwm(300)

	// THEN
	assert.Error(t, err)
}

func TestHwMonFan_SetPwm(t *testing.T) {
	// GIVEN
	fan := createTestFan(afero.NewMemMapFs(), configuration.DefaultDeviceConfig())

	// WHEN
	err := fan.SetPwm(51)

	// THEN
	require.NoError(t, err)
	pwm, _ := fan.GetPwm()
	assert.Equal(t, 51, pwm)
	duty, _ := fan.GetDuty()
	assert.InDelta(t, 0.2, duty, 0.0001)
}

func TestOpen_EnablesManualControl(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	writeSysfsFile(fs, testPwmPath, "0")
	writeSysfsFile(fs, testPwmPath+"_enable", "2")

	// WHEN
	fan, err := Open("penta", staticLocator{path: testPwmPath}, fs, configuration.DefaultDeviceConfig())

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 2, fan.OriginalPwmEnabled)
	enabled, err := fan.GetPwmEnabled()
	require.NoError(t, err)
	assert.Equal(t, int(ControlModePWM), enabled)
}

func TestOpen_WithoutEnableNode(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	writeSysfsFile(fs, testPwmPath, "0")

	// WHEN
	fan, err := Open("penta", staticLocator{path: testPwmPath}, fs, configuration.DefaultDeviceConfig())

	// THEN
	require.NoError(t, err)
	assert.Equal(t, NoControlMode, fan.OriginalPwmEnabled)
	exists, _ := afero.Exists(fs, testPwmPath+"_enable")
	assert.False(t, exists)
}

func TestOpen_EnableNodeNotWritable(t *testing.T) {
	// GIVEN
	fs := newRecordingFs(afero.NewMemMapFs())
	writeSysfsFile(fs, testPwmPath, "0")
	writeSysfsFile(fs, testPwmPath+"_enable", "2")
	fs.deny(testPwmPath + "_enable")

	// WHEN
	fan, err := Open("penta", staticLocator{path: testPwmPath}, fs, configuration.DefaultDeviceConfig())

	// THEN
	require.NoError(t, err)
	_, err = fan.SetDuty(1)
	require.NoError(t, err)
}

func TestHwMonFan_SetPwmEnabled_ReadBackFailure(t *testing.T) {
	// GIVEN
	fs := newRecordingFs(afero.NewMemMapFs())
	writeSysfsFile(fs, testPwmPath, "0")
	writeSysfsFile(fs, testPwmPath+"_enable", "2")
	fan := NewHwMonFan("penta", testPwmPath, fs, configuration.DefaultDeviceConfig())
	fs.denyRead(testPwmPath + "_enable")

	// WHEN
	err := fan.SetPwmEnabled(ControlModePWM)

	// THEN
	assert.ErrorIs(t, err, ErrIOFailure)
	assert.NotContains(t, err.Error(), "stuck")
	assert.Contains(t, err.Error(), "input/output error")
}

func TestHwMonFan_SetPwmEnabled_Stuck(t *testing.T) {
	// GIVEN
	fs := newRecordingFs(afero.NewMemMapFs())
	writeSysfsFile(fs, testPwmPath, "0")
	writeSysfsFile(fs, testPwmPath+"_enable", "2")
	fan := NewHwMonFan("penta", testPwmPath, newDiscardingFs(fs), configuration.DefaultDeviceConfig())

	// WHEN
	err := fan.SetPwmEnabled(ControlModePWM)

	// THEN
	assert.EqualError(t, err, "PWM mode stuck to 2")
}

func TestOpen_DeviceNotFound(t *testing.T) {
	// GIVEN
	locator := staticLocator{err: ErrDeviceNotFound}

	// WHEN
	_, err := Open("penta", locator, afero.NewMemMapFs(), configuration.DefaultDeviceConfig())

	// THEN
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestHwMonFan_RestoreControlMode(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	writeSysfsFile(fs, testPwmPath, "0")
	writeSysfsFile(fs, testPwmPath+"_enable", "2")
	fan, err := Open("penta", staticLocator{path: testPwmPath}, fs, configuration.DefaultDeviceConfig())
	require.NoError(t, err)

	// WHEN
	err = fan.RestoreControlMode()

	// THEN
	require.NoError(t, err)
	enabled, _ := fan.GetPwmEnabled()
	assert.Equal(t, 2, enabled)
}
