package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Delivery results for EventLogDeliveries.
const (
	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
	DeliveryDropped = "dropped"
)

var (
	LinksCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shortlinks_links_created_total",
			Help: "Total number of short links created",
		},
	)

	Redirects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortlinks_redirects_total",
			Help: "Total number of visits by outcome",
		},
		[]string{"outcome"},
	)

	EventLogDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortlinks_event_log_deliveries_total",
			Help: "Remote event log deliveries by result",
		},
		[]string{"result"},
	)
)
