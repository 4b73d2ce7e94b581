package inmemory_namespace_entries

import (
	"github.com/horockey/go-toolbox/prometheus_helpers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	handleTimeHist     prometheus.Histogram
	getRequestsCnt     prometheus.Counter
	putRequestsCnt     prometheus.Counter
	delRequestsCnt     prometheus.Counter
	successProcessCnt  prometheus.Counter
	errProcessCnt      prometheus.Counter
	repoSizeItemsGauge prometheus.GaugeFunc
}

func newMetrics(repo *inmemoryNamespaceEntries) *metrics {
	const ss = "inmemory_namespace_entries"
	labels := prometheus.Labels{"namespace": repo.namespace}

	histOpts := prometheus_helpers.NewHistOpts(
		"handle_time_hist",
		prometheus_helpers.HistOptsWithSubsystem(ss),
		prometheus_helpers.HistOptsWithHelp("Handle time distribution"),
	)
	histOpts.ConstLabels = labels

	return &metrics{
		handleTimeHist: prometheus.NewHistogram(*histOpts),
		getRequestsCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "get_requests_cnt",
			Subsystem:   ss,
			Help:        "Count of incoming get requests",
			ConstLabels: labels,
		}),
		putRequestsCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "put_requests_cnt",
			Subsystem:   ss,
			Help:        "Count of incoming put requests",
			ConstLabels: labels,
		}),
		delRequestsCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "del_requests_cnt",
			Subsystem:   ss,
			Help:        "Count of incoming delete requests",
			ConstLabels: labels,
		}),
		successProcessCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "success_responses_cnt",
			Subsystem:   ss,
			Help:        "Count of successfully finished processes",
			ConstLabels: labels,
		}),
		errProcessCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "err_processes_cnt",
			Subsystem:   ss,
			Help:        "Count of processes finished with non-nil error",
			ConstLabels: labels,
		}),
		repoSizeItemsGauge: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "repo_size_items_gauge",
			Subsystem:   ss,
			Help:        "actual count of items in repo",
			ConstLabels: labels,
		}, func() float64 {
			repo.mu.RLock()
			defer repo.mu.RUnlock()
			return float64(len(repo.storage))
		}),
	}
}

func (m *metrics) list() []prometheus.Collector {
	return []prometheus.Collector{
		m.handleTimeHist,
		m.getRequestsCnt,
		m.putRequestsCnt,
		m.delRequestsCnt,
		m.successProcessCnt,
		m.errProcessCnt,
		m.repoSizeItemsGauge,
	}
}
