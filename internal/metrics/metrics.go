// Package metrics exposes Prometheus counters for the aggregation
// engine. Everything is registered on the default registry and served by
// the promhttp handler in cmd/server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ContributionsMerged counts recipe contributions folded into an
	// existing list item.
	ContributionsMerged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealplanner_contributions_merged_total",
		Help: "Recipe ingredient contributions merged into existing shopping list items.",
	})

	// ItemsCreated counts newly created list items, split by origin.
	ItemsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealplanner_items_created_total",
		Help: "Shopping list items created, by origin (recipe or manual).",
	}, []string{"origin"})

	// Recalculations counts headcount changes that rescaled a list.
	Recalculations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealplanner_recalculations_total",
		Help: "Shopping list recalculations triggered by headcount changes.",
	})

	// ListsClosed counts close transitions.
	ListsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealplanner_lists_closed_total",
		Help: "Shopping lists closed.",
	})
)
