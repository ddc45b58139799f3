package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/pentafan/pentafan/internal/sensors"
	"github.com/qdm12/reprint"
)

// TemperatureProvider is implemented by sensors.TemperatureSource
type TemperatureProvider interface {
	CpuTemperature() (float64, error)
	EffectiveTemperature(mode configuration.TemperatureSourceMode) (float64, error)
	DriveReadings() []sensors.DriveReading
}

type TemperatureResponse struct {
	Source    configuration.TemperatureSourceMode `json:"source"`
	Cpu       *float64                            `json:"cpu"`
	Drives    []sensors.DriveReading              `json:"drives"`
	Effective *float64                            `json:"effective"`
	Error     string                              `json:"error,omitempty"`
}

func registerTemperatureEndpoints(rest *echo.Echo, temperatures TemperatureProvider) {
	group := rest.Group("/temperature")

	group.GET("/", func(c echo.Context) error {
		return getTemperature(c, temperatures)
	})
}

func getTemperature(c echo.Context, temperatures TemperatureProvider) error {
	mode := configuration.CurrentConfig.Temperature.Source
	response := TemperatureResponse{
		Source: mode,
		Drives: temperatures.DriveReadings(),
	}

	if cpu, err := temperatures.CpuTemperature(); err == nil {
		response.Cpu = &cpu
	} else {
		response.Error = err.Error()
	}
	if effective, err := temperatures.EffectiveTemperature(mode); err == nil {
		response.Effective = &effective
	}

	return c.JSONPretty(http.StatusOK, reprint.This(response), indentationChar)
}
