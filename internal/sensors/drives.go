package sensors

import (
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/pentafan/pentafan/internal/ui"
	"github.com/spf13/afero"
)

// DefaultBootDrive is assumed when the root mount cannot be resolved
const DefaultBootDrive = "mmcblk0"

var (
	// mmcblk0p2, nvme0n1p1, loop0p1
	numberedPartitionPattern = regexp.MustCompile(`^(.*\d)p\d+$`)
	// sda1, vdb12
	trailingDigitsPattern = regexp.MustCompile(`\d+$`)
)

// DriveReading is the last known temperature of a drive
type DriveReading struct {
	Device      string  `json:"device"`
	Temperature float64 `json:"temperature"`
}

// DriveTemperatureReader lists non boot drives and reads their temperatures.
// Results are cached since smartctl may spin up idle disks.
type DriveTemperatureReader struct {
	config configuration.TemperatureConfig
	fs     afero.Fs
	run    CommandRunner
	now    func() time.Time

	// refreshMu serializes drive queries, mu only guards the fields below
	refreshMu sync.Mutex

	mu         sync.Mutex
	readings   []DriveReading
	updatedAt  time.Time
	hasData    bool
	refreshing bool
	background bool
}

func NewDriveTemperatureReader(fs afero.Fs, config configuration.TemperatureConfig, run CommandRunner) *DriveTemperatureReader {
	return &DriveTemperatureReader{
		config: config,
		fs:     fs,
		run:    run,
		now:    time.Now,
	}
}

// DriveTemperatures returns the temperatures of all non boot drives,
// drives without a readable temperature are left out
func (r *DriveTemperatureReader) DriveTemperatures() []float64 {
	readings := r.Readings()
	result := make([]float64, 0, len(readings))
	for _, reading := range readings {
		result = append(result, reading.Temperature)
	}
	return result
}

// Readings returns the cached readings. Stale readings are served while
// a refresh is running or when background refresh is enabled; the drives
// are only queried by the caller when no usable readings exist.
func (r *DriveTemperatureReader) Readings() []DriveReading {
	r.mu.Lock()
	if r.hasData && (r.isFresh() || r.refreshing || r.background) {
		ui.Debug("Using cached drive temperatures: %v", r.readings)
		result := copyReadings(r.readings)
		r.mu.Unlock()
		return result
	}
	r.mu.Unlock()

	return r.refresh(false)
}

// Refresh queries all drives and replaces the cached readings
func (r *DriveTemperatureReader) Refresh() []DriveReading {
	return r.refresh(true)
}

// SetBackgroundRefresh hands refreshing over to a background task,
// Readings then never queries drives once a first result exists
func (r *DriveTemperatureReader) SetBackgroundRefresh(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.background = enabled
}

func (r *DriveTemperatureReader) refresh(force bool) []DriveReading {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	r.mu.Lock()
	if !force && r.isFresh() {
		// refreshed by someone else while waiting
		result := copyReadings(r.readings)
		r.mu.Unlock()
		return result
	}
	r.refreshing = true
	r.mu.Unlock()

	readings := r.readAll()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.readings = readings
	r.updatedAt = r.now()
	r.hasData = true
	r.refreshing = false
	return copyReadings(r.readings)
}

// isFresh must be called with mu held
func (r *DriveTemperatureReader) isFresh() bool {
	return r.hasData && r.now().Sub(r.updatedAt) < r.config.DriveCacheDuration
}

func (r *DriveTemperatureReader) readAll() []DriveReading {
	drives := r.ListNonBootDrives()
	ui.Debug("Found drives: %v", drives)

	var readings []DriveReading
	for _, drive := range drives {
		sensor := NewDiskSensor(r.fs, r.config.SysfsPath, r.config.SmartctlPath, r.run, drive)
		temperature, err := sensor.GetValue()
		if err != nil {
			ui.Warning("Temperature not found for %s: %v", drive, err)
			continue
		}
		ui.Debug("Read temperature %.1f°C from %s", temperature, drive)
		readings = append(readings, DriveReading{Device: drive, Temperature: temperature})
	}
	return readings
}

// ListNonBootDrives returns the names of all block devices of type disk,
// excluding the drive the root filesystem is mounted from
func (r *DriveTemperatureReader) ListNonBootDrives() []string {
	bootDrive := r.BootDrive()

	output, err := r.run(r.config.LsblkPath, []string{"-nd", "-o", "NAME,TYPE"})
	if err != nil {
		ui.Error("Error listing drives: %v", err)
		return []string{}
	}

	drives := []string{}
	for _, drive := range parseLsblkDisks(output) {
		if drive == bootDrive {
			continue
		}
		drives = append(drives, drive)
	}
	return drives
}

// BootDrive returns the name of the drive holding the root filesystem
func (r *DriveTemperatureReader) BootDrive() string {
	if len(r.config.BootDrive) > 0 {
		return path.Base(r.config.BootDrive)
	}

	output, err := r.run(r.config.FindmntPath, []string{"-n", "-o", "SOURCE", "/"})
	source := strings.TrimSpace(output)
	if err != nil || len(source) == 0 {
		ui.Debug("Unable to detect boot drive, assuming %s: %v", DefaultBootDrive, err)
		return DefaultBootDrive
	}
	// btrfs subvolumes are reported as /dev/sda2[/@]
	if idx := strings.Index(source, "["); idx > 0 {
		source = source[:idx]
	}
	return stripPartition(path.Base(source))
}

func parseLsblkDisks(output string) []string {
	var result []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[1] != "disk" {
			continue
		}
		result = append(result, fields[0])
	}
	return result
}

// stripPartition maps a partition name to the name of its drive
func stripPartition(name string) string {
	if match := numberedPartitionPattern.FindStringSubmatch(name); match != nil {
		return match[1]
	}
	if strings.HasPrefix(name, "mmcblk") || strings.HasPrefix(name, "nvme") || strings.HasPrefix(name, "loop") {
		return name
	}
	return trailingDigitsPattern.ReplaceAllString(name, "")
}

func copyReadings(readings []DriveReading) []DriveReading {
	result := make([]DriveReading, len(readings))
	copy(result, readings)
	return result
}
