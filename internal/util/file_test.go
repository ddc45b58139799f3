package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIntFromFile(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	path := "/sys/class/thermal/thermal_zone0/temp"
	require.NoError(t, afero.WriteFile(fs, path, []byte("48312\n"), 0444))

	// WHEN
	value, err := ReadIntFromFile(fs, path)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 48312, value)
}

func TestReadIntFromFile_Empty(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	path := "/sys/class/hwmon/hwmon0/pwm1"
	require.NoError(t, afero.WriteFile(fs, path, []byte(" \n"), 0644))

	// WHEN
	value, err := ReadIntFromFile(fs, path)

	// THEN
	assert.EqualError(t, err, "file is empty: "+path)
	assert.Equal(t, -1, value)
}

func TestReadIntFromFile_Missing(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()

	// WHEN
	_, err := ReadIntFromFile(fs, "/does/not/exist")

	// THEN
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteIntToFile(t *testing.T) {
	// GIVEN
	fs := afero.NewMemMapFs()
	path := "/sys/class/hwmon/hwmon0/pwm1"
	require.NoError(t, afero.WriteFile(fs, path, []byte("255"), 0644))

	// WHEN
	err := WriteIntToFile(fs, 64, path)

	// THEN
	assert.NoError(t, err)
	content, _ := afero.ReadFile(fs, path)
	assert.Equal(t, "64", string(content))
}

func TestIsWritable(t *testing.T) {
	// GIVEN
	base := afero.NewMemMapFs()
	path := "/sys/class/hwmon/hwmon0/pwm1"
	require.NoError(t, afero.WriteFile(base, path, []byte("0"), 0644))
	readOnly := afero.NewReadOnlyFs(base)

	// THEN
	assert.True(t, IsWritable(base, path))
	assert.False(t, IsWritable(readOnly, path))
	assert.False(t, IsWritable(base, "/sys/class/hwmon/hwmon1/pwm1"))
}

func TestWriteFileAtomic(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "etc", "pentafan.yaml")

	// WHEN
	err := WriteFileAtomic(path, []byte("fans: []\n"))

	// THEN
	assert.NoError(t, err)
	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "fans: []\n", string(content))
}
