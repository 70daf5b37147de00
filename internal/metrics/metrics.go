// Package metrics holds the Prometheus instruments shared across the
// server. Counters live here so handler and pipeline code can increment
// them without owning registration.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lofton_searches_total",
		Help: "The total number of processed listing searches",
	})
	FavoriteTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lofton_favorite_toggles_total",
		Help: "The total number of favorite toggles by outcome",
	}, []string{"outcome"})
	LeadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lofton_leads_total",
		Help: "The total number of stored contact-form leads",
	})
	CatalogSyncsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lofton_catalog_syncs_total",
		Help: "The total number of catalog sync runs by result",
	}, []string{"result"})
	CatalogListings = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lofton_catalog_listings",
		Help: "The number of listings currently in the read model",
	})
)
