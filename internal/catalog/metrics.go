package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "admin_catalog_cache_lookups_total",
		Help: "Catalog list cache lookups by result",
	},
	[]string{"result"},
)
