package fans

import (
	"fmt"
	"sort"

	"github.com/pentafan/pentafan/internal/configuration"
	"github.com/pentafan/pentafan/internal/ui"
	"github.com/pentafan/pentafan/internal/util"
	"github.com/spf13/afero"
)

// DeviceLocator finds the pwm control node a fan is driven by
type DeviceLocator interface {
	Locate() (string, error)
}

// HwMonLocator scans hwmon pwm nodes and picks the first one
// that can be opened for reading and writing
type HwMonLocator struct {
	fs   afero.Fs
	path string
	glob string
}

func NewHwMonLocator(fs afero.Fs, config configuration.DeviceConfig) *HwMonLocator {
	return &HwMonLocator{
		fs:   fs,
		path: config.Path,
		glob: config.Glob,
	}
}

// Candidates returns all pwm nodes in the order they are probed
func (l *HwMonLocator) Candidates() ([]string, error) {
	if len(l.path) > 0 {
		return []string{l.path}, nil
	}

	matches, err := afero.Glob(l.fs, l.glob)
	if err != nil {
		return nil, fmt.Errorf("invalid pwm glob '%s': %w", l.glob, err)
	}
	sort.Strings(matches)
	return matches, nil
}

func (l *HwMonLocator) Locate() (string, error) {
	candidates, err := l.Candidates()
	if err != nil {
		return "", err
	}

	for _, candidate := range candidates {
		if util.IsWritable(l.fs, candidate) {
			return candidate, nil
		}
		ui.Debug("Skipping pwm node %s, it is not writable", candidate)
	}

	if len(l.path) > 0 {
		return "", fmt.Errorf("%w: %s", ErrDeviceNotFound, l.path)
	}
	return "", fmt.Errorf("%w: %s", ErrDeviceNotFound, l.glob)
}
