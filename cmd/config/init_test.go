package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDefaultConfig(t *testing.T) {
	// WHEN
	data, err := renderDefaultConfig()

	// THEN
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "controllerAdjustmentTickRate: 1s")
	assert.Contains(t, text, "source: cpu")
	assert.Contains(t, text, "lv0: 35")
	assert.Contains(t, text, "lv3: 50")
	assert.Contains(t, text, "glob: /sys/class/hwmon/hwmon*/pwm1")
}

func TestWriteDefaultConfig(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "etc", "pentafan.yaml")

	// WHEN
	err := writeDefaultConfig(afero.NewOsFs(), path, false)

	// THEN
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "fans:")
}

func TestWriteDefaultConfig_DoesNotOverwrite(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "pentafan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("custom"), 0o644))

	// WHEN
	err := writeDefaultConfig(afero.NewOsFs(), path, false)
	errForced := writeDefaultConfig(afero.NewOsFs(), path, true)

	// THEN
	assert.Error(t, err)
	require.NoError(t, errForced)
	content, _ := os.ReadFile(path)
	assert.NotEqual(t, "custom", string(content))
}
