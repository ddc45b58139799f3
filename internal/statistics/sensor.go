package statistics

import (
	"github.com/pentafan/pentafan/internal/sensors"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemSensor = "sensor"

type SensorCollector struct {
	sensors []sensors.Sensor
	drives  *sensors.DriveTemperatureReader

	value *prometheus.Desc
	drive *prometheus.Desc
}

// NewSensorCollector exports the given sensors and, if drives is not nil,
// the cached readings of all drives
func NewSensorCollector(sensors []sensors.Sensor, drives *sensors.DriveTemperatureReader) *SensorCollector {
	return &SensorCollector{
		sensors: sensors,
		drives:  drives,
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "value"),
			"Current temperature of the sensor in degrees celsius",
			[]string{"id"}, nil,
		),
		drive: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "drive_temperature"),
			"Last known temperature of a drive in degrees celsius",
			[]string{"device"}, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
	ch <- collector.drive
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, sensor := range collector.sensors {
		value, err := sensor.GetValue()
		if err != nil {
			continue
		}
		ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, value, sensor.GetId())
	}
	if collector.drives == nil {
		return
	}
	for _, reading := range collector.drives.Readings() {
		ch <- prometheus.MustNewConstMetric(collector.drive, prometheus.GaugeValue, reading.Temperature, reading.Device)
	}
}
