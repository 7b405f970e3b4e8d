// Package metrics exposes Prometheus metrics for the service.
//
// Entity counts are read straight from the database at scrape time, so the
// gauges are always consistent with the store without any bookkeeping in
// the write paths. Request counts are recorded by the logging middleware.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/compliance-binder/internal/model"
	"github.com/sakif/compliance-binder/internal/repository"
)

// Collector holds the event-driven metrics and registers the scrape-time
// totals collector alongside them.
type Collector struct {
	httpStatus *prometheus.CounterVec
}

// NewCollector builds the Collector and registers everything with reg.
func NewCollector(reg prometheus.Registerer, totals repository.StatsRepository, logger *slog.Logger) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "binder_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(c.httpStatus, &totalsCollector{totals: totals, logger: logger})
	return c
}

// RecordHTTPStatus counts one response with the given status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var (
	usersDesc = prometheus.NewDesc("binder_users_total",
		"Registered users.", nil, nil)
	bindersDesc = prometheus.NewDesc("binder_binders_total",
		"Compliance binders across all users.", nil, nil)
	tasksDesc = prometheus.NewDesc("binder_tasks_total",
		"Tasks across all binders, by status bucket.", []string{"bucket"}, nil)
	documentsDesc = prometheus.NewDesc("binder_documents_total",
		"Uploaded documents across all binders.", nil, nil)
	storageDesc = prometheus.NewDesc("binder_storage_bytes",
		"Total bytes of stored document content.", nil, nil)
)

// totalsCollector queries the store on every scrape. The overdue bucket
// uses the scrape instant's calendar day.
type totalsCollector struct {
	totals repository.StatsRepository
	logger *slog.Logger
}

func (tc *totalsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- usersDesc
	ch <- bindersDesc
	ch <- tasksDesc
	ch <- documentsDesc
	ch <- storageDesc
}

func (tc *totalsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t, err := tc.totals.GlobalTotals(ctx, model.DateOf(time.Now()))
	if err != nil {
		tc.logger.Error("metrics scrape: counting totals failed", slog.String("error", err.Error()))
		return
	}

	ch <- prometheus.MustNewConstMetric(usersDesc, prometheus.GaugeValue, float64(t.Users))
	ch <- prometheus.MustNewConstMetric(bindersDesc, prometheus.GaugeValue, float64(t.Binders))
	ch <- prometheus.MustNewConstMetric(tasksDesc, prometheus.GaugeValue, float64(t.Tasks), "all")
	ch <- prometheus.MustNewConstMetric(tasksDesc, prometheus.GaugeValue, float64(t.TasksOpen), "open")
	ch <- prometheus.MustNewConstMetric(tasksDesc, prometheus.GaugeValue, float64(t.TasksDone), "done")
	ch <- prometheus.MustNewConstMetric(tasksDesc, prometheus.GaugeValue, float64(t.TasksOverdue), "overdue")
	ch <- prometheus.MustNewConstMetric(documentsDesc, prometheus.GaugeValue, float64(t.Documents))
	ch <- prometheus.MustNewConstMetric(storageDesc, prometheus.GaugeValue, float64(t.StorageBytes))
}
