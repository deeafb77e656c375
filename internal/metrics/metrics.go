// Package metrics holds the Prometheus instruments shared by the fetch,
// favorite and recent packages. Collectors register with the default
// registry, so the debug server's /metrics handler exposes them without
// further wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ramyun_fetch_total",
			Help: "Catalog search requests by result (ok, error, canceled).",
		}, []string{"result"})

	FetchDiscardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ramyun_fetch_discarded_total",
			Help: "Search responses dropped because a newer request had been issued.",
		})

	FavoriteTogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ramyun_favorite_toggles_total",
			Help: "Favorite toggles by operation (add, remove) and result.",
		}, []string{"op", "result"})

	RecentViewsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ramyun_recent_views_total",
			Help: "Item views recorded in the recently viewed list.",
		})
)

func init() {
	prometheus.MustRegister(
		FetchTotal,
		FetchDiscardedTotal,
		FavoriteTogglesTotal,
		RecentViewsTotal,
	)
}
