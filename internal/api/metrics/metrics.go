// Package metrics defines and registers the custom Prometheus metrics of the
// exercise tracker API. HTTP request metrics come from the echoprometheus
// middleware; this package only holds domain counters.
//
// Metrics are registered with the default registry at package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "exercise_tracker"

// UsersCreatedTotal counts users stored successfully.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created.",
	},
)

// ExercisesCreatedTotal counts exercises stored successfully. Idempotent
// replays are not counted.
var ExercisesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exercises_created_total",
		Help:      "Total number of exercises created.",
	},
)

// StoreErrorsTotal counts failed store round-trips.
// Label:
//   - operation: create_user, list_users, find_user, create_exercise, list_exercises
var StoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of failed database operations, by operation.",
	},
	[]string{"operation"},
)

// LogEntriesReturned records how many entries each exercise log response carries.
var LogEntriesReturned = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "log_entries_returned",
		Help:      "Number of exercise entries returned per log request.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	},
)
