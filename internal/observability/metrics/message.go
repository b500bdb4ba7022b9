package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messages_sent_total",
			Help: "Total number of messages created",
		},
	)

	MessagesReadTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messages_read_total",
			Help: "Total number of messages marked as read",
		},
	)

	AuthorizationDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorization_denied_total",
			Help: "Total number of authorization denials by check",
		},
		[]string{"check"},
	)
)
