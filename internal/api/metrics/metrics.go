// Package metrics defines the business counters exported on /metrics next to
// the HTTP request metrics from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "msp"

// Metrics holds the business counters. Register them once per registry.
type Metrics struct {
	// ── Deployment metrics ────────────────────────────────────────────────────

	// DeploymentsCreated counts services activated for a client.
	DeploymentsCreated prometheus.Counter
	// DeploymentConflicts counts deploy requests rejected because the pair
	// already existed.
	DeploymentConflicts prometheus.Counter
	// DeploymentsRemoved counts successful remove requests, including ones
	// that matched nothing.
	DeploymentsRemoved prometheus.Counter

	// ── Registry metrics ──────────────────────────────────────────────────────

	ClientsCreated prometheus.Counter
	// ServicesCreated counts catalog additions.
	// Label:
	//   - vertical: Identify, Protect, Detect, Respond, Recover or Govern
	ServicesCreated *prometheus.CounterVec

	// ── Auth metrics ──────────────────────────────────────────────────────────

	// Logins counts login attempts.
	// Label:
	//   - result: "success" or "failure"
	Logins *prometheus.CounterVec
}

// New registers the counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DeploymentsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deployments_created_total",
			Help:      "Total number of services deployed to clients.",
		}),
		DeploymentConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deployment_conflicts_total",
			Help:      "Total number of deploy requests for an already deployed service.",
		}),
		DeploymentsRemoved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deployment_removals_total",
			Help:      "Total number of deployment remove requests that succeeded.",
		}),
		ClientsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clients_created_total",
			Help:      "Total number of clients created.",
		}),
		ServicesCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "services_created_total",
			Help:      "Total number of catalog services created, by vertical.",
		}, []string{"vertical"}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts, by result.",
		}, []string{"result"}),
	}
}
