package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RegionLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pincode_region_loads_total",
		Help: "Total full loads of the region source",
	}, []string{"result"})
	RecordsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pincode_records_skipped_total",
		Help: "Region records excluded while resolving centroids",
	}, []string{"reason"})
	LoadDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pincode_load_duration_seconds",
		Help:    "Time spent loading and resolving all region records",
		Buckets: prometheus.DefBuckets,
	})
	DistanceRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pincode_distance_requests_total",
		Help: "Distance calculations by outcome",
	}, []string{"outcome"})
)

// Registry 本服务使用的注册表 (不使用全局默认注册表，便于测试)
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		RegionLoadsTotal,
		RecordsSkippedTotal,
		LoadDurationSeconds,
		DistanceRequestsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
