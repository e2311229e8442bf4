package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	balance     prometheus.Gauge
	waiting     prometheus.Gauge
	deposits    *prometheus.CounterVec
	withdrawals *prometheus.CounterVec
}

// newMetrics creates the ledger's collectors and registers them with r. A nil
// r leaves them unregistered.
func newMetrics(r prometheus.Registerer, name string) *metrics {
	labels := prometheus.Labels{"ledger": name}
	f := promauto.With(r)
	return &metrics{
		balance: f.NewGauge(prometheus.GaugeOpts{
			Name:        "ledger_balance",
			Help:        "Current balance of the ledger",
			ConstLabels: labels,
		}),
		waiting: f.NewGauge(prometheus.GaugeOpts{
			Name:        "ledger_waiting_withdrawals",
			Help:        "Number of withdrawals parked waiting for funds",
			ConstLabels: labels,
		}),
		deposits: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "ledger_deposits_total",
			Help:        "Number of deposit calls by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		withdrawals: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "ledger_withdrawals_total",
			Help:        "Number of withdrawal calls by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
	}
}

func (m *metrics) observeDeposit(err error) {
	m.deposits.WithLabelValues(OutcomeOf(err).String()).Inc()
}

func (m *metrics) observeWithdrawal(err error) {
	m.withdrawals.WithLabelValues(OutcomeOf(err).String()).Inc()
}
