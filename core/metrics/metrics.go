package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	IssuedItems = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ppe_issued_items_total",
		Help: "Ledger rows written by issuance transactions.",
	})
	Documents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ppe_documents_total",
		Help: "Document numbers allocated, by transaction kind.",
	}, []string{"kind"})
	CatalogRegistrations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ppe_catalog_registrations_total",
		Help: "Catalog entries created from operator input.",
	})
	DroppedLines = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ppe_dropped_lines_total",
		Help: "Batch lines dropped because no item name could be resolved.",
	})
)

func init() {
	Registry.MustRegister(IssuedItems, Documents, CatalogRegistrations, DroppedLines)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
