package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// счётчики для /metrics (отдаёт internal/web)
var (
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "multasbot_commands_total",
		Help: "Slash commands handled, by command and outcome.",
	}, []string{"command", "outcome"})

	paymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "multasbot_payments_total",
		Help: "Fine payment attempts, by result.",
	}, []string{"result"})

	debitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multasbot_economy_debits_total",
		Help: "Successful UnbelievaBoat cash debits.",
	})
)
