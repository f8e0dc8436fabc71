// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// TransitionsTotal counts workflow operations by operation and outcome
	// (ok, forbidden, invalid_transition, invalid_input, conflict, error).
	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendorflow_transitions_total",
			Help: "Workflow transitions attempted",
		},
		[]string{"operation", "outcome"},
	)

	// RequestsCreatedTotal counts vendor requests created, by tenant schema.
	RequestsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendorflow_requests_created_total",
			Help: "Vendor requests created",
		},
		[]string{"tenant"},
	)

	// TenantsProvisionedTotal counts newly provisioned tenants.
	TenantsProvisionedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vendorflow_tenants_provisioned_total",
			Help: "Tenants provisioned",
		},
	)

	// OpenTenantDatabases tracks the number of cached tenant database handles.
	OpenTenantDatabases = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vendorflow_tenant_databases_open",
			Help: "Open tenant database handles",
		},
	)
)

func init() {
	prometheus.MustRegister(
		TransitionsTotal,
		RequestsCreatedTotal,
		TenantsProvisionedTotal,
		OpenTenantDatabases,
	)
}
