package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for the sharing graph.
type Metrics struct {
	ConnectionRequests     prometheus.Counter
	ConnectionsAccepted    prometheus.Counter
	HouseholdsCreated      prometheus.Counter
	DocumentsShared        prometheus.Counter
	NotificationsPublished prometheus.Counter
	NotificationsDropped   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ConnectionRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doctrack_connection_requests_total",
			Help: "Total number of connection requests sent",
		}),
		ConnectionsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doctrack_connections_accepted_total",
			Help: "Total number of connection requests accepted",
		}),
		HouseholdsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doctrack_households_created_total",
			Help: "Total number of households created",
		}),
		DocumentsShared: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doctrack_documents_shared_total",
			Help: "Total number of document share grants",
		}),
		NotificationsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doctrack_notifications_published_total",
			Help: "Total number of notification events handed to the dispatcher",
		}),
		NotificationsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doctrack_notifications_dropped_total",
			Help: "Total number of notification events dropped due to a full buffer",
		}),
	}
}
