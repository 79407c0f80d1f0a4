package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "admin_auth_operations_total",
		Help: "Auth gateway operations by outcome",
	},
	[]string{"operation", "outcome"},
)

func observe(operation string, status Status, err error) {
	outcome := string(status)
	switch {
	case err != nil:
		outcome = "error"
	case outcome == "":
		outcome = "none"
	}
	operationsTotal.WithLabelValues(operation, outcome).Inc()
}
