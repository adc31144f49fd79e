// Package metrics — prometheus-метрики бота.
//
//	signal_bot_signals_total{mode,status}  записи журнала сигналов
//	signal_bot_outcomes_ingested_total     добавленные в историю исходы
//	signal_bot_ingest_total{result}        вызовы ingest (appended|empty)
//	signal_bot_history_len                 текущая длина истории
//	signal_bot_cooldown{kind}              остаток кулдауна
//	signal_bot_trade_open{kind}            1 если есть активная сделка
//	signal_bot_guard_paused                1 если открытие на паузе
//	signal_bot_avg_spin_ms                 EMA интервала между спинами
//
// Регистрируются в init() в дефолтном реестре, отдаются через /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	signals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_signals_total",
			Help: "Signal log entries by mode and status",
		},
		[]string{"mode", "status"},
	)

	outcomesIngested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signal_bot_outcomes_ingested_total",
			Help: "Outcomes appended to history",
		},
	)

	ingestCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_ingest_total",
			Help: "Ingest calls split by whether anything was appended",
		},
		[]string{"result"},
	)

	historyLen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "signal_bot_history_len",
			Help: "Current history length",
		},
	)

	cooldown = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "signal_bot_cooldown",
			Help: "Remaining cooldown outcomes per trade kind",
		},
		[]string{"kind"},
	)

	tradeOpen = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "signal_bot_trade_open",
			Help: "1 when a trade of the kind is active",
		},
		[]string{"kind"},
	)

	guardPaused = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "signal_bot_guard_paused",
			Help: "1 when opening is paused after a loss streak",
		},
	)

	avgSpinMS = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "signal_bot_avg_spin_ms",
			Help: "Exponential average of the interval between spins",
		},
	)
)

func init() {
	prometheus.MustRegister(signals, outcomesIngested, ingestCalls, historyLen, cooldown, tradeOpen, guardPaused, avgSpinMS)
}

func Signal(mode, status string) { signals.WithLabelValues(mode, status).Inc() }

func Ingested(n int) {
	if n > 0 {
		outcomesIngested.Add(float64(n))
		ingestCalls.WithLabelValues("appended").Inc()
		return
	}
	ingestCalls.WithLabelValues("empty").Inc()
}

func HistoryLen(n int) { historyLen.Set(float64(n)) }

func Cooldowns(white, color int) {
	cooldown.WithLabelValues("white").Set(float64(white))
	cooldown.WithLabelValues("color").Set(float64(color))
}

// TradeOpen: kind пустой — сделки нет.
func TradeOpen(kind string) {
	for _, k := range []string{"white", "color"} {
		v := 0.0
		if k == kind {
			v = 1
		}
		tradeOpen.WithLabelValues(k).Set(v)
	}
}

func GuardPaused(p bool) {
	if p {
		guardPaused.Set(1)
		return
	}
	guardPaused.Set(0)
}

func AvgSpin(ms float64) { avgSpinMS.Set(ms) }
