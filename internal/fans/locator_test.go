package fans

import (
	"errors"
	"testing"

	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHwMonLocator_Candidates_Sorted(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	writeSysfsFile(fs, "/sys/class/hwmon/hwmon2/pwm1", "0")
	writeSysfsFile(fs, "/sys/class/hwmon/hwmon0/pwm1", "0")
	writeSysfsFile(fs, "/sys/class/hwmon/hwmon1/temp1_input", "40000")
	locator := NewHwMonLocator(fs, configuration.DefaultDeviceConfig())

	// WHEN
	candidates, err := locator.Candidates()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/sys/class/hwmon/hwmon0/pwm1",
		"/sys/class/hwmon/hwmon2/pwm1",
	}, candidates)
}

func TestHwMonLocator_Locate_FirstWritable(t *testing.T) {
	// GIVEN
	fs := newRecordingFs(afero.NewMemMapFs())
	writeSysfsFile(fs, "/sys/class/hwmon/hwmon0/pwm1", "0")
	writeSysfsFile(fs, "/sys/class/hwmon/hwmon3/pwm1", "0")
	fs.deny("/sys/class/hwmon/hwmon0/pwm1")
	locator := NewHwMonLocator(fs, configuration.DefaultDeviceConfig())

	// WHEN
	path, err := locator.Locate()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "/sys/class/hwmon/hwmon3/pwm1", path)
}

func TestHwMonLocator_Locate_NoMatch(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	locator := NewHwMonLocator(fs, configuration.DefaultDeviceConfig())

	// WHEN
	_, err := locator.Locate()

	// THEN
	assert.True(t, errors.Is(err, ErrDeviceNotFound))
}

func TestHwMonLocator_Locate_ReadOnly(t *testing.T) {
	// GIVEN
	base := afero.NewMemMapFs()
	writeSysfsFile(base, "/sys/class/hwmon/hwmon0/pwm1", "0")
	locator := NewHwMonLocator(afero.NewReadOnlyFs(base), configuration.DefaultDeviceConfig())

	// WHEN
	_, err := locator.Locate()

	// THEN
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestHwMonLocator_Locate_PathOverride(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	writeSysfsFile(fs, "/sys/class/hwmon/hwmon0/pwm1", "0")
	writeSysfsFile(fs, "/sys/devices/platform/pwm-fan/hwmon/hwmon5/pwm1", "0")
	config := configuration.DefaultDeviceConfig()
	config.Path = "/sys/devices/platform/pwm-fan/hwmon/hwmon5/pwm1"
	locator := NewHwMonLocator(fs, config)

	// WHEN
	path, err := locator.Locate()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, config.Path, path)
}

func TestHwMonLocator_Locate_PathOverrideMissing(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	writeSysfsFile(fs, "/sys/class/hwmon/hwmon0/pwm1", "0")
	config := configuration.DefaultDeviceConfig()
	config.Path = "/sys/class/hwmon/hwmon9/pwm1"
	locator := NewHwMonLocator(fs, config)

	// WHEN
	_, err := locator.Locate()

	// THEN
	assert.ErrorIs(t, err, ErrDeviceNotFound)
	assert.Contains(t, err.Error(), "hwmon9")
}
