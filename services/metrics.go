package services

import "github.com/prometheus/client_golang/prometheus"

var (
	OrdersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pizzeria",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders committed, by resulting status",
		},
		[]string{"status"},
	)

	OrderDiscounts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pizzeria",
			Subsystem: "orders",
			Name:      "discounts_total",
			Help:      "Discount entries applied to committed orders",
		},
		[]string{"kind"},
	)

	OrderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pizzeria",
			Subsystem: "orders",
			Name:      "failures_total",
			Help:      "Rejected or rolled back checkouts, by error kind",
		},
		[]string{"kind"},
	)
)
