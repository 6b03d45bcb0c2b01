package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuditAPIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auditadmin_audit_api_requests_total",
		Help: "Total number of requests sent to the audit API.",
	},
		[]string{"operation", "outcome"},
	)

	AuditAPIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "auditadmin_audit_api_request_duration_seconds",
		Help:    "Latency of audit API requests.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"operation"},
	)

	TimelineRendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auditadmin_timeline_renders_total",
		Help: "Total number of rendered timelines by state.",
	},
		[]string{"state"},
	)

	NotificationsDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auditadmin_notifications_delivered_total",
		Help: "Total number of push notifications shown to operators.",
	})

	NotificationsParkedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auditadmin_notifications_parked_total",
		Help: "Total number of push payloads moved to the inbox for retry.",
	})

	InboxMessagesDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auditadmin_inbox_messages_dropped_total",
		Help: "Total number of inbox messages dropped after exhausting retries.",
	})
)
