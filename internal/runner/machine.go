package runner

import (
	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/strategy/service"
)

func (b *Bot) tickCooldowns() {
	if b.coolWhite > 0 {
		b.coolWhite--
	}
	if b.coolColor > 0 {
		b.coolColor--
	}
}

func (b *Bot) cooldown(k models.Kind) int {
	if k == models.KindWhite {
		return b.coolWhite
	}
	return b.coolColor
}

// step — один новый исход. История к этому моменту уже содержит o.
func (b *Bot) step(o models.Outcome) {
	b.tickCooldowns()

	t := b.trade
	if t == nil {
		b.tryOpen()
		return
	}

	// смена режима посреди сделки: сделку снимаем без WIN/LOSS
	if t.Kind != b.settings.Mode.Kind() {
		b.logf("trade %s dropped: mode is %s", t.ID, b.settings.Mode)
		b.trade = nil
		return
	}

	// спин, на котором сигнал найден, не оценивается
	if t.Phase == models.PhaseAnalyzing {
		t.Phase = models.PhaseOpen
		b.emit(t, models.StatusOpen, nil)
		return
	}

	n := b.appended
	if b.settings.EvalSameSpin {
		if n < t.OpenedAt {
			return
		}
	} else if n <= t.OpenedAt {
		return
	}

	came := o
	switch {
	case t.Hit(o.ColorWith(b.inverted)):
		b.emit(t, models.StatusWin, &came)
		b.close(t, true)
	case t.Exhausted():
		b.emit(t, models.StatusLoss, &came)
		b.close(t, false)
	default:
		t.Step++
		b.emit(t, models.StatusGale, &came)
	}
}

func (b *Bot) close(t *models.Trade, win bool) {
	b.stats.Close(t, win)
	b.regime.Outcome(win)
	if b.guard.Result(win, b.now()) {
		b.logf("loss streak: opening paused")
	}
	if t.Kind == models.KindWhite {
		b.coolWhite = b.cooldownWhite
	} else {
		b.coolColor = b.cooldownColor
	}
	b.trade = nil
}

// tryOpen — открыть сделку, если её нет и источник что-то предлагает.
// При активной сделке всегда no-op: слот один.
func (b *Bot) tryOpen() {
	if b.trade != nil || b.lockActive() || !b.settings.BotOn || len(b.history) == 0 {
		return
	}
	kind := b.settings.Mode.Kind()
	if b.cooldown(kind) > 0 {
		return
	}
	now := b.now()
	if b.guard.Paused(now) {
		return
	}

	h := b.hist()
	p, ok := b.propose(h)
	if !ok || p.Kind != kind {
		return
	}

	conf := p.Confidence
	if conf <= 0 {
		conf = targetProb(service.EstimateProbs(h), p.Target)
	}
	b.regime.Pred(conf)
	if b.regimeGate && b.regime.HighEntropy() {
		return
	}

	b.trade = &models.Trade{
		ID:         b.newID(),
		Kind:       kind,
		Target:     p.Target,
		MaxSteps:   max(0, p.MaxSteps),
		Phase:      models.PhaseAnalyzing,
		Strategy:   p.Strategy,
		Confluence: p.Confluence,
		Confidence: p.Confidence,
		OpenedAt:   b.appended,
		StartedAt:  now,
	}
	b.emit(b.trade, models.StatusAnalyzing, nil)
}

// propose изолирует бот от паники в источнике.
func (b *Bot) propose(h service.History) (p models.Proposal, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.logf("source %s panic: %v", b.source.Name(), r)
			p, ok = models.Proposal{}, false
		}
	}()
	return b.source.Propose(h, b.settings)
}

func targetProb(p service.Probs, c models.Color) float64 {
	switch c {
	case models.ColorWhite:
		return p.W
	case models.ColorRed:
		return p.R
	case models.ColorBlack:
		return p.B
	}
	return 0
}

func (b *Bot) emit(t *models.Trade, status models.Status, came *models.Outcome) {
	now := b.now()
	e := models.SignalEntry{
		TS:             now.Format("15:04:05"),
		TSISO:          now,
		TradeID:        t.ID,
		Mode:           models.ModeOf(t.Kind),
		Target:         t.Target,
		Status:         status,
		Step:           t.Step,
		MaxSteps:       t.MaxSteps,
		Label:          models.Label(t.Target, t.Step, t.MaxSteps, t.Confluence),
		Strategy:       t.Strategy,
		Confluence:     t.Confluence,
		TradeStartedAt: t.StartedAt,
	}
	if status == models.StatusAnalyzing || status == models.StatusOpen {
		e.Phase = t.Phase
	}
	if came != nil {
		c := *came
		e.Came = &c
		e.CameColor = c.ColorWith(b.inverted)
	}

	b.signals = append(b.signals, e)
	if len(b.signals) > b.signalsMax {
		b.signals = append([]models.SignalEntry(nil), b.signals[len(b.signals)-b.signalsMax:]...)
	}
	b.pending = append(b.pending, e)
	metrics.Signal(string(e.Mode), string(e.Status))
	b.logf("%s %s %s step=%d/%d strategy=%q", e.Status, e.Mode, e.Target, e.Step, e.MaxSteps, e.Strategy)
}
