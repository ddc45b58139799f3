package internal

import (
	"context"
	"time"

	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/pentafan/pentafan/internal/sensors"
	"github.com/pentafan/pentafan/internal/ui"
)

// DriveMonitor refreshes the drive temperature cache in the background,
// so control ticks do not have to wait for smartctl
type DriveMonitor interface {
	Run(ctx context.Context) error
}

type driveMonitor struct {
	drives      *sensors.DriveTemperatureReader
	pollingRate time.Duration
}

func NewDriveMonitor(drives *sensors.DriveTemperatureReader, pollingRate time.Duration) DriveMonitor {
	if pollingRate <= 0 {
		fallback := configuration.DefaultConfiguration().Temperature.DriveCacheDuration
		ui.Warning("Invalid drive polling rate %s, using %s", pollingRate, fallback)
		pollingRate = fallback
	}
	return driveMonitor{
		drives:      drives,
		pollingRate: pollingRate,
	}
}

func (m driveMonitor) Run(ctx context.Context) error {
	m.refresh()
	m.drives.SetBackgroundRefresh(true)
	defer m.drives.SetBackgroundRefresh(false)

	tick := time.NewTicker(m.pollingRate)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			m.refresh()
		}
	}
}

func (m driveMonitor) refresh() {
	readings := m.drives.Refresh()
	ui.Debug("Drive temperatures: %v", readings)
}
