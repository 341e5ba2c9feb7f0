package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequests counts outbound Layan-T API calls by operation and outcome.
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wecom_layant_requests_total",
		Help: "Outbound Layan-T API requests",
	}, []string{"operation", "outcome"})

	// TokenRefreshes counts credential refreshes against the login endpoint.
	TokenRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wecom_token_refreshes_total",
		Help: "Credential refreshes performed by the credential cache",
	})

	// WorkflowEvents counts inbound Slack events by type.
	WorkflowEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wecom_workflow_events_total",
		Help: "Inbound Slack workflow events",
	}, []string{"type"})
)

// Outcome labels for APIRequests.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeNetwork  = "network_error"
)
