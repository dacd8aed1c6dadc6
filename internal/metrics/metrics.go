package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReserveDuration tracks the latency of reservation requests.
	ReserveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "raffle_reserve_duration_seconds",
			Help:    "Duration of ticket reservation requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"status"}, // success or error
	)

	// ReservedTickets counts numbers that won the conditional update.
	ReservedTickets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raffle_tickets_reserved_total",
		Help: "Ticket numbers successfully reserved",
	})

	// ConflictedTickets counts numbers lost to a concurrent buyer.
	ConflictedTickets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raffle_tickets_conflicted_total",
		Help: "Ticket numbers lost to a concurrent reservation",
	})

	DrawsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raffle_draws_total",
		Help: "Winner draws performed",
	})
)

// ReserveTimer measures one reservation request.
type ReserveTimer struct {
	start time.Time
}

func NewReserveTimer() *ReserveTimer {
	return &ReserveTimer{start: time.Now()}
}

func (t *ReserveTimer) Done(status string) {
	ReserveDuration.WithLabelValues(status).Observe(time.Since(t.start).Seconds())
}
