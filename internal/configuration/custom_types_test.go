package configuration

import (
	"testing"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, input map[string]interface{}) Configuration {
	var result Configuration
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: decodeHooks(),
		Result:     &result,
	})
	require.NoError(t, err)
	require.NoError(t, decoder.Decode(input))
	return result
}

func TestDecode_FanDefaults(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"fans": []interface{}{
			map[string]interface{}{
				"id":  "penta",
				"lv0": 30,
			},
		},
	}

	// WHEN
	result := decode(t, input)

	// THEN
	require.Len(t, result.Fans, 1)
	fan := result.Fans[0]
	assert.Equal(t, "penta", fan.ID)
	assert.Equal(t, 30.0, fan.Lv0)
	assert.Equal(t, 50.0, fan.Lv3)
	assert.Equal(t, 2.0, fan.Hysteresis)
	assert.Equal(t, 5, fan.AverageSamples)
	assert.Equal(t, 1.0, fan.DcMax)
	assert.True(t, fan.Enabled)
	assert.Equal(t, DefaultPwmGlob, fan.Device.Glob)
	assert.Equal(t, DefaultPwmMaxValue, fan.Device.MaxValue)
}

func TestDecode_ExplicitZeroIsKept(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"fans": []interface{}{
			map[string]interface{}{
				"id":             "penta",
				"averagesamples": 0,
				"enabled":        false,
				"device": map[string]interface{}{
					"inverted": true,
					"maxvalue": 100,
				},
			},
		},
	}

	// WHEN
	result := decode(t, input)

	// THEN
	fan := result.Fans[0]
	assert.Equal(t, 0, fan.AverageSamples)
	assert.False(t, fan.Enabled)
	assert.True(t, fan.Device.Inverted)
	assert.Equal(t, 100, fan.Device.MaxValue)
	assert.Equal(t, DefaultPwmGlob, fan.Device.Glob)
	assert.EqualError(t, ValidateFan(fan), "fan penta: averageSamples must be >= 1")
}

func TestDecode_TemperatureSource(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"controllerAdjustmentTickRate": "2s",
		"temperature": map[string]interface{}{
			"source":             " Both ",
			"driveCacheDuration": "90s",
		},
	}

	// WHEN
	result := decode(t, input)

	// THEN
	assert.Equal(t, TemperatureSourceBoth, result.Temperature.Source)
	assert.Equal(t, 90*time.Second, result.Temperature.DriveCacheDuration)
	assert.Equal(t, 2*time.Second, result.ControllerAdjustmentTickRate)
}

func TestTemperatureSourceModeHookFunc_InvalidType(t *testing.T) {
	// GIVEN
	var result TemperatureConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: TemperatureSourceModeHookFunc(),
		Result:     &result,
	})
	require.NoError(t, err)

	// WHEN
	err = decoder.Decode(map[string]interface{}{"source": 3})

	// THEN
	assert.Error(t, err)
}

func TestMergeDefaults_NotAMap(t *testing.T) {
	assert.Equal(t, "abc", mergeDefaults("abc", map[string]interface{}{"a": 1}))
}
