package processor

import (
	"github.com/horockey/go-toolbox/prometheus_helpers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	writeTimeHist    prometheus.Histogram
	writesCnt        prometheus.Counter
	writeErrsCnt     prometheus.Counter
	typeMismatchCnt  prometheus.Counter
	subscribersGauge prometheus.GaugeFunc
}

func newMetrics(pr *Processor) *metrics {
	const ss = "processor"
	labels := prometheus.Labels{"namespace": pr.namespace}

	histOpts := prometheus_helpers.NewHistOpts(
		"write_time_hist",
		prometheus_helpers.HistOptsWithSubsystem(ss),
		prometheus_helpers.HistOptsWithHelp("Write time distribution"),
	)
	histOpts.ConstLabels = labels

	return &metrics{
		writeTimeHist: prometheus.NewHistogram(*histOpts),
		writesCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "writes_cnt",
			Subsystem:   ss,
			Help:        "Count of committed writes",
			ConstLabels: labels,
		}),
		writeErrsCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "write_errs_cnt",
			Subsystem:   ss,
			Help:        "Count of writes finished with non-nil error",
			ConstLabels: labels,
		}),
		typeMismatchCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "type_mismatch_cnt",
			Subsystem:   ss,
			Help:        "Count of stored values replaced by key defaults on read",
			ConstLabels: labels,
		}),
		subscribersGauge: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "subscribers_gauge",
			Subsystem:   ss,
			Help:        "actual count of active subscribers",
			ConstLabels: labels,
		}, func() float64 {
			return float64(pr.hub.size())
		}),
	}
}

func (m *metrics) list() []prometheus.Collector {
	return []prometheus.Collector{
		m.writeTimeHist,
		m.writesCnt,
		m.writeErrsCnt,
		m.typeMismatchCnt,
		m.subscribersGauge,
	}
}
