package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/run"
	"github.com/pentafan/pentafan/internal/api"
	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/pentafan/pentafan/internal/controller"
	"github.com/pentafan/pentafan/internal/fans"
	"github.com/pentafan/pentafan/internal/sensors"
	"github.com/pentafan/pentafan/internal/statistics"
	"github.com/pentafan/pentafan/internal/ui"
	"github.com/spf13/afero"
)

func RunDaemon() {
	if os.Geteuid() != 0 {
		ui.Fatal("Fan control requires root permissions to be able to modify fan speeds, please run pentafan as root")
	}

	fs := afero.NewOsFs()
	config := configuration.CurrentConfig

	cpu := sensors.NewCpuSensor(fs, config.Temperature.CpuThermalZone)
	if !cpu.Exists() {
		ui.Fatal("CPU thermal zone %s does not exist", config.Temperature.CpuThermalZone)
	}
	drives := sensors.NewDriveTemperatureReader(fs, config.Temperature, sensors.NewCommandRunner(config.Temperature))
	source := sensors.NewSource(cpu, drives)

	fanControllers, fanList := InitializeControllers(fs, config, source)
	if len(fanControllers) == 0 {
		ui.Fatal("No valid fan configurations, exiting.")
	}

	statistics.Register(statistics.NewFanCollector(fanList))
	statistics.Register(statistics.NewControllerCollector(fanControllers))
	sensorDrives := drives
	if config.Temperature.Source == configuration.TemperatureSourceCpu {
		sensorDrives = nil
	}
	statistics.Register(statistics.NewSensorCollector([]sensors.Sensor{cpu}, sensorDrives))

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	if config.Statistics.Enabled {
		// === Prometheus Exporter
		server := api.CreateStatisticsServer()
		addr := fmt.Sprintf(":%d", config.Statistics.Port)
		addWebserver(&g, "statistics", server, addr)
	}
	if config.Api.Enabled {
		// === REST Api
		server := api.CreateRestService(source)
		addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)
		addWebserver(&g, "api", server, addr)
	}
	if config.Temperature.Source != configuration.TemperatureSourceCpu {
		// === drive temperature monitoring
		mon := NewDriveMonitor(drives, config.Temperature.DriveCacheDuration)
		g.Add(func() error {
			err := mon.Run(ctx)
			ui.Info("Drive monitor stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Error monitoring drives: %v", err)
			}
		})
	}
	{
		// === fan controllers
		for _, fanController := range fanControllers {
			c := fanController
			g.Add(func() error {
				err := c.Run(ctx)
				ui.Info("Fan controller for fan %s stopped.", c.GetFanId())
				return err
			}, func(err error) {
				if err != nil {
					ui.Warning("Something went wrong: %v", err)
				}
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

func addWebserver(g *run.Group, name string, server *echo.Echo, addr string) {
	g.Add(func() error {
		ui.Info("Starting %s server on %s", name, addr)
		err := server.Start(addr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		ui.Error("Cannot start %s server (%v)", name, err)
		return err
	}, func(err error) {
		ui.Info("Stopping %s server...", name)
		timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			ui.Warning("Error stopping %s server: %v", name, err)
		}
	})
}

// InitializeControllers opens the pwm device of every configured fan and creates its controller.
// Fans whose device cannot be opened are left out.
func InitializeControllers(fs afero.Fs, config configuration.Configuration, source controller.TemperatureSource) ([]controller.FanController, []fans.Fan) {
	var controllers []controller.FanController
	var fanList []fans.Fan
	claimed := map[string]string{}

	for _, fanConfig := range config.Fans {
		locator := fans.NewHwMonLocator(fs, fanConfig.Device)
		fan, err := fans.Open(fanConfig.ID, locator, fs, fanConfig.Device)
		if err != nil {
			if errors.Is(err, fans.ErrDeviceNotFound) {
				ui.Error("Fan %s: %v, disabling this fan", fanConfig.ID, err)
			} else {
				ui.Error("Fan %s: unable to open pwm device: %v", fanConfig.ID, err)
			}
			continue
		}
		if owner, ok := claimed[fan.PwmOutput]; ok {
			ui.Error("Fan %s: pwm device %s is already used by fan %s, disabling this fan", fanConfig.ID, fan.PwmOutput, owner)
			continue
		}
		claimed[fan.PwmOutput] = fanConfig.ID

		fanController, err := controller.NewFanController(fanConfig, fan, source, config.Temperature.Source, config.ControllerAdjustmentTickRate)
		if err != nil {
			ui.Error("Fan %s: %v", fanConfig.ID, err)
			continue
		}
		logThresholds(fanConfig, fan)

		controller.ControllerMap.Set(fanConfig.ID, fanController)
		controllers = append(controllers, fanController)
		fanList = append(fanList, fan)
	}

	return controllers, fanList
}

func logThresholds(config configuration.FanConfig, fan *fans.HwMonFan) {
	ui.Info("Fan %s uses %s (inverted: %t)", config.ID, fan.PwmOutput, config.Device.Inverted)
	ui.Info("Fan %s: lv0 %.1f°C, lv1 %.1f°C, lv2 %.1f°C, lv3 %.1f°C, duty %.2f..%.2f",
		config.ID, config.Lv0, config.Lv1, config.Lv2, config.Lv3, config.DcMin, config.DcMax)
	ui.Info("Fan %s: hysteresis %.1f°C, moving average over %d samples", config.ID, config.Hysteresis, config.AverageSamples)
}
