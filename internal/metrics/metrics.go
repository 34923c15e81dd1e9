package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts accepted attendance submissions by lecture status.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_submissions_total",
		Help: "Accepted attendance submissions by lecture status.",
	}, []string{"status"})

	// DuplicateRejections counts submissions rejected by the unique-date guard.
	DuplicateRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_duplicate_rejections_total",
		Help: "Submissions rejected because the date was already recorded.",
	})
)
