package runner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/strategy/service"
	"signal_bot/pkg/logger"
)

const (
	DefaultHistoryMax    = 600
	DefaultSignalsMax    = 500
	DefaultCooldownWhite = 5
	DefaultCooldownColor = 2
)

// SignalSink получает каждую запись журнала сигналов.
// Вызывается вне мьютекса бота и не должен блокировать.
type SignalSink interface {
	OnSignal(ctx context.Context, e models.SignalEntry)
}

// Bot — единственный владелец истории, сделки, кулдаунов и настроек.
// Все публичные методы безопасны для конкурентного вызова.
type Bot struct {
	mu sync.Mutex

	historyMax    int
	signalsMax    int
	cooldownWhite int
	cooldownColor int
	inverted      bool
	regimeGate    bool
	netOddsColor  float64
	netOddsWhite  float64

	settings  models.Settings
	source    service.Source
	merger    *Merger
	history   []models.Outcome
	appended  int                  // исходов принято за всё время, не режется капом
	signals   []models.SignalEntry // хронологически, старые первыми
	trade     *models.Trade
	coolWhite int
	coolColor int

	stats    *Stats
	tele     *Telemetry
	guard    *Guard
	regime   *Regime
	bankroll *Bankroll

	sinks   []SignalSink
	pending []models.SignalEntry
	now     func() time.Time
	newID   func() string
}

func NewBot(cfg *config.Config, src service.Source, sinks ...SignalSink) *Bot {
	if src == nil {
		src = service.NewConfluence()
	}
	b := &Bot{
		historyMax:    positiveOr(cfg.Engine.HistoryMax, DefaultHistoryMax),
		signalsMax:    positiveOr(cfg.Engine.SignalsMax, DefaultSignalsMax),
		cooldownWhite: positiveOr(cfg.Engine.CooldownWhite, DefaultCooldownWhite),
		cooldownColor: positiveOr(cfg.Engine.CooldownColor, DefaultCooldownColor),
		inverted:      cfg.Strategy.InvertColors,
		regimeGate:    cfg.Regime.Gate,
		netOddsColor:  cfg.Sim.NetOddsColor,
		netOddsWhite:  cfg.Sim.NetOddsWhite,

		settings: models.NewSettingsFromDefaults(cfg),
		source:   src,
		merger:   NewMerger(cfg.Engine.OverlapMax),

		stats:    NewStats(NewOdds(cfg.Sim.Stake, cfg.Sim.NetOddsColor, cfg.Sim.NetOddsWhite)),
		tele:     NewTelemetry(cfg.Sim.DefaultSpinMS, cfg.Sim.LagWarnMS),
		guard:    NewGuard(cfg.Guard.LossStreak, cfg.Guard.Pause),
		regime:   NewRegime(cfg.Regime.WinWindow, cfg.Regime.EntWindow, cfg.Regime.EntThr, cfg.Regime.MinWinrate),
		bankroll: NewBankroll(cfg.Sim.Bankroll, cfg.Sim.FracBase, cfg.Sim.FracCap),

		sinks: sinks,
		now:   time.Now,
		newID: uuid.NewString,
	}
	if cfg.Feed.Source != "" {
		b.settings.DataSource = cfg.Feed.Source
	}
	return b
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// AddSink — подписка после создания (fx invoke).
func (b *Bot) AddSink(s SignalSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

type IngestRequest struct {
	History      []any `json:"history"`
	ClientSentAt any   `json:"client_sent_at"`
}

type IngestResult struct {
	OK    bool      `json:"ok"`
	Added int       `json:"added"`
	Time  time.Time `json:"time"`
}

// Ingest принимает очередной снапшот. Некорректные значения молча отбрасываются.
func (b *Bot) Ingest(ctx context.Context, req IngestRequest) IngestResult {
	sent, _ := req.ClientSentAt.(string)
	return b.ingest(ctx, models.ParseOutcomes(req.History), sent)
}

// IngestSnapshot — то же для уже разобранных исходов (коллекторы, replay).
func (b *Bot) IngestSnapshot(ctx context.Context, snap []models.Outcome) IngestResult {
	valid := make([]models.Outcome, 0, len(snap))
	for _, o := range snap {
		if o.Valid() {
			valid = append(valid, o)
		}
	}
	return b.ingest(ctx, valid, "")
}

func (b *Bot) ingest(ctx context.Context, snap []models.Outcome, clientSentAt string) IngestResult {
	b.mu.Lock()
	now := b.now()
	b.tele.Latency(clientSentAt, now)

	added := b.merger.Merge(snap)
	for _, o := range added {
		b.appendHistory(o)
		b.step(o)
	}
	// повтор того же окна: кулдауны стоят, тикают только новые исходы
	if len(added) == 0 {
		if !b.lockActive() {
			b.tryOpen()
		}
	} else {
		b.tele.Spin(len(added), now)
		metrics.AvgSpin(b.tele.AvgSpinMS)
	}

	metrics.Ingested(len(added))
	metrics.HistoryLen(len(b.history))
	b.publishGauges()
	out := b.flush()
	sinks := b.sinks
	b.mu.Unlock()

	b.dispatch(ctx, sinks, out)
	return IngestResult{OK: true, Added: len(added), Time: now}
}

func (b *Bot) appendHistory(o models.Outcome) {
	b.history = append(b.history, o)
	b.appended++
	if len(b.history) > b.historyMax {
		b.history = append([]models.Outcome(nil), b.history[len(b.history)-b.historyMax:]...)
	}
	b.source.Observe(b.hist())
}

func (b *Bot) hist() service.History { return service.NewHistory(b.history, b.inverted) }

func (b *Bot) lockActive() bool { return b.settings.StrictOneAtATime && b.trade != nil }

func (b *Bot) flush() []models.SignalEntry {
	out := b.pending
	b.pending = nil
	return out
}

func (b *Bot) dispatch(ctx context.Context, sinks []SignalSink, entries []models.SignalEntry) {
	for _, e := range entries {
		for _, s := range sinks {
			s.OnSignal(ctx, e)
		}
	}
}

func (b *Bot) publishGauges() {
	metrics.Cooldowns(b.coolWhite, b.coolColor)
	kind := ""
	if b.trade != nil {
		kind = string(b.trade.Kind)
	}
	metrics.TradeOpen(kind)
	metrics.GuardPaused(b.guard.Paused(b.now()))
}

// History — копия истории, старые первыми.
func (b *Bot) History() []models.Outcome {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Outcome(nil), b.history...)
}

// Trade — копия активной сделки или nil.
func (b *Bot) Trade() *models.Trade {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.trade == nil {
		return nil
	}
	t := *b.trade
	return &t
}

func (b *Bot) Cooldowns() (white, color int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.coolWhite, b.coolColor
}

func (b *Bot) Settings() models.Settings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings
}

// Signals — журнал, новые первыми.
func (b *Bot) Signals() []models.SignalEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recentSignals(len(b.signals))
}

func (b *Bot) recentSignals(n int) []models.SignalEntry {
	n = min(n, len(b.signals))
	out := make([]models.SignalEntry, 0, n)
	for i := len(b.signals) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, b.signals[i])
	}
	return out
}

// LastSpinAt — время последнего добавленного исхода, zero если не было.
func (b *Bot) LastSpinAt() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tele.LastSpinAt
}

func (b *Bot) logf(format string, args ...any) {
	logger.Info("[BOT] "+format, args...)
}

// Warmup дописывает записанную историю без торговли: источники учатся,
// сделки не открываются, кулдауны не тикают. Хвост становится опорным снапшотом.
func (b *Bot) Warmup(outcomes []models.Outcome) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, o := range outcomes {
		if !o.Valid() {
			continue
		}
		b.appendHistory(o)
		n++
	}
	if n > 0 {
		b.merger.Seed(b.history)
	}
	metrics.HistoryLen(len(b.history))
	return n
}
