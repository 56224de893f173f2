// Package metrics holds Prometheus instruments that are used across the
// platform.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveTenants = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_tenants",
			Help: "Number of tenant records currently loaded in memory.",
		})

	TenantLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_load_total",
			Help: "Cumulative number of tenant records successfully loaded.",
		})

	TenantLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_load_errors_total",
			Help: "Cumulative number of tenant load errors (not-found included).",
		})

	TenantEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_evict_total",
			Help: "Cumulative number of tenant records evicted from the cache.",
		})

	RewriteTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edge_rewrite_total",
			Help: "Edge rewrite decisions by outcome.",
		},
		[]string{"outcome"}, // passthrough | alias | admin | domain
	)

	HostmapWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hostmap_write_failures_total",
			Help: "Best-effort hostname mapping writes that failed.",
		})

	LoginRedirectTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "login_redirect_total",
			Help: "Requests redirected to the tenant login gate.",
		})
)

func init() {
	prometheus.MustRegister(
		ActiveTenants,
		TenantLoadTotal,
		TenantLoadErrorsTotal,
		TenantEvictTotal,
		RewriteTotal,
		HostmapWriteFailures,
		LoginRedirectTotal,
	)
}
