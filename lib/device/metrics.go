package device

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/dPB/lib/interp"
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
)

// liveDevices maps a device name to the currently open device with that name.
// Gauges are registered once per name and read through this map, so a device
// that is closed and re-created under the same name reports the new one.
var liveDevices = xsync.NewMapOf[string, *deviceImpl]()

// deviceMetrics holds the counters of one device.
// All metrics carry a device label and are written by metrics.WritePrometheus.
type deviceMetrics struct {
	name     string
	d        *deviceImpl
	rejected *metrics.Counter
	dropped  *metrics.Counter
	duration *metrics.Histogram
	outcomes map[interp.Outcome]*metrics.Counter
}

// newDeviceMetrics creates (or reuses) the metrics for d and marks d as the live device for its name
func newDeviceMetrics(d *deviceImpl) *deviceMetrics {
	name := d.name
	m := &deviceMetrics{
		name:     name,
		d:        d,
		rejected: metrics.GetOrCreateCounter(fmt.Sprintf(`dpb_input_rejected_total{device=%q}`, name)),
		dropped:  metrics.GetOrCreateCounter(fmt.Sprintf(`dpb_output_dropped_bytes_total{device=%q}`, name)),
		duration: metrics.GetOrCreateHistogram(fmt.Sprintf(`dpb_command_duration_seconds{device=%q}`, name)),
		outcomes: make(map[interp.Outcome]*metrics.Counter),
	}

	for o := interp.OutcomeIgnored; o <= interp.OutcomeNoMatch; o++ {
		m.outcomes[o] = metrics.GetOrCreateCounter(fmt.Sprintf(`dpb_commands_total{device=%q,outcome=%q}`, name, o.String()))
	}

	liveDevices.Store(name, d)

	metrics.GetOrCreateGauge(fmt.Sprintf(`dpb_records{device=%q}`, name), func() float64 {
		if live, ok := liveDevices.Load(name); ok {
			return float64(live.records.Load())
		}
		return 0
	})
	metrics.GetOrCreateGauge(fmt.Sprintf(`dpb_output_queued_bytes{device=%q}`, name), func() float64 {
		if live, ok := liveDevices.Load(name); ok {
			return float64(live.queued.Load())
		}
		return 0
	})

	return m
}

// observe records the outcome and duration of one command
func (m *deviceMetrics) observe(o interp.Outcome, start time.Time) {
	if c, ok := m.outcomes[o]; ok {
		c.Inc()
	}
	m.duration.UpdateDuration(start)
}

// unregister removes the device from the live map (if it is still the live one)
func (m *deviceMetrics) unregister() {
	liveDevices.Compute(m.name, func(old *deviceImpl, loaded bool) (*deviceImpl, bool) {
		// delete only if the entry still belongs to this device
		return old, !loaded || old == m.d
	})
}
