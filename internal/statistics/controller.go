package statistics

import (
	"github.com/pentafan/pentafan/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

type ControllerCollector struct {
	controllers []controller.FanController

	averageTemperature      *prometheus.Desc
	enabled                 *prometheus.Desc
	writeFailureCount       *prometheus.Desc
	temperatureFailureCount *prometheus.Desc
	unexpectedPwmValueCount *prometheus.Desc
}

func NewControllerCollector(controllers []controller.FanController) *ControllerCollector {
	return &ControllerCollector{
		controllers: controllers,
		averageTemperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "average_temperature"),
			"Moving average of the temperature samples the controller computes its duty cycle from",
			[]string{"id"}, nil,
		),
		enabled: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "enabled"),
			"1 if automatic control is enabled, 0 if the fan is switched off",
			[]string{"id"}, nil,
		),
		writeFailureCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "write_failure_count"),
			"Counter for failed writes to the pwm device of this controller",
			[]string{"id"}, nil,
		),
		temperatureFailureCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "temperature_failure_count"),
			"Counter for ticks skipped because no temperature could be read",
			[]string{"id"}, nil,
		),
		unexpectedPwmValueCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "unexpected_pwm_value_count"),
			"Counter for instances of a mismatch between expected PWM value and actual PWM value of for this controller",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.averageTemperature
	ch <- collector.enabled
	ch <- collector.writeFailureCount
	ch <- collector.temperatureFailureCount
	ch <- collector.unexpectedPwmValueCount
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	for _, contr := range collector.controllers {
		fanId := contr.GetFanId()
		snapshot := contr.GetSnapshot()
		enabled := 0.0
		if snapshot.Enabled {
			enabled = 1
		}
		if snapshot.State.Samples > 0 {
			ch <- prometheus.MustNewConstMetric(collector.averageTemperature, prometheus.GaugeValue, snapshot.State.Average, fanId)
		}
		ch <- prometheus.MustNewConstMetric(collector.enabled, prometheus.GaugeValue, enabled, fanId)
		ch <- prometheus.MustNewConstMetric(collector.writeFailureCount, prometheus.CounterValue, float64(snapshot.Statistics.WriteFailureCount), fanId)
		ch <- prometheus.MustNewConstMetric(collector.temperatureFailureCount, prometheus.CounterValue, float64(snapshot.Statistics.TemperatureFailureCount), fanId)
		ch <- prometheus.MustNewConstMetric(collector.unexpectedPwmValueCount, prometheus.CounterValue, float64(snapshot.Statistics.UnexpectedPwmValueCount), fanId)
	}
}
