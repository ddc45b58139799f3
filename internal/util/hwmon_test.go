package util

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestGetDeviceName(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/sys/class/hwmon/hwmon0/name", []byte("pwmfan\n"), 0o644)

	// THEN
	assert.Equal(t, "pwmfan", GetDeviceName(fs, "/sys/class/hwmon/hwmon0"))
	assert.Equal(t, "", GetDeviceName(fs, "/sys/class/hwmon/hwmon1"))
}

func TestGetLabel(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/sys/class/hwmon/hwmon0/temp1_label", []byte("Composite\n"), 0o644)

	// THEN
	assert.Equal(t, "Composite", GetLabel(fs, "/sys/class/hwmon/hwmon0", "temp1_input"))
	assert.Equal(t, "hwmon0", GetLabel(fs, "/sys/class/hwmon/hwmon0", "temp2_input"))
}

func TestFindHwmonDevicePaths(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	_ = fs.MkdirAll("/sys/class/hwmon/hwmon2", 0o755)
	_ = fs.MkdirAll("/sys/class/hwmon/hwmon0", 0o755)

	// WHEN
	result := FindHwmonDevicePaths(fs, "/sys/class/hwmon")

	// THEN
	assert.Equal(t, []string{"/sys/class/hwmon/hwmon0", "/sys/class/hwmon/hwmon2"}, result)
}
