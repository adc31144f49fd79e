package runner

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/strategy/service"
	"signal_bot/pkg/logger"
)

// recorder собирает всё, что бот отдал подписчикам.
type recorder struct {
	mu      sync.Mutex
	entries []models.SignalEntry
}

func (r *recorder) OnSignal(_ context.Context, e models.SignalEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recorder) statuses() []models.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Status, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Status)
	}
	return out
}

// fakeSource предлагает заданное, пока propose != nil.
type fakeSource struct {
	propose  func(h service.History, s models.Settings) (models.Proposal, bool)
	observed int
}

func (f *fakeSource) Name() string            { return "fake" }
func (f *fakeSource) Observe(service.History) { f.observed++ }
func (f *fakeSource) Propose(h service.History, s models.Settings) (models.Proposal, bool) {
	if f.propose == nil {
		return models.Proposal{}, false
	}
	return f.propose(h, s)
}

func always(target models.Color, maxSteps int) *fakeSource {
	kind := models.KindColor
	if target == models.ColorWhite {
		kind = models.KindWhite
	}
	return &fakeSource{propose: func(service.History, models.Settings) (models.Proposal, bool) {
		return models.Proposal{Kind: kind, Target: target, Strategy: "always " + string(target), MaxSteps: maxSteps, Confluence: 1}, true
	}}
}

// streakCatalog — единственное цветное правило «серия >= 2 продолжается».
func streakCatalog(maxSteps int) *service.Confluence {
	rule := service.NewPredicate("streak>=2", models.KindColor, maxSteps, func(h service.History) (models.Color, bool) {
		n, c := h.Streak()
		return c, n >= 2
	})
	return service.NewConfluenceWith(nil, []service.Strategy{rule})
}

type harness struct {
	t     *testing.T
	bot   *Bot
	sink  *recorder
	snap  []models.Outcome
	clock time.Time
	ids   int
}

func newHarness(t *testing.T, src service.Source, tune func(c *config.Config)) *harness {
	t.Helper()
	logger.UseNop()

	cfg := config.Default()
	cfg.Bot.StartOn = true
	cfg.Bot.ConfluenceColor = 1
	cfg.Bot.ConfluenceWhite = 1
	if tune != nil {
		tune(&cfg)
	}

	h := &harness{t: t, sink: &recorder{}, clock: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	h.bot = NewBot(&cfg, src, h.sink)
	h.bot.now = func() time.Time { return h.clock }
	h.bot.newID = func() string {
		h.ids++
		return fmt.Sprintf("t%d", h.ids)
	}
	return h
}

// spin — по одному новому исходу, каждый раз весь растущий снапшот.
func (h *harness) spin(outcomes ...models.Outcome) IngestResult {
	h.t.Helper()
	var res IngestResult
	for _, o := range outcomes {
		h.clock = h.clock.Add(10 * time.Second)
		h.snap = append(h.snap, o)
		res = h.bot.IngestSnapshot(context.Background(), append([]models.Outcome(nil), h.snap...))
	}
	return res
}

// resend — повтор последнего снапшота без новых исходов.
func (h *harness) resend() IngestResult {
	return h.bot.IngestSnapshot(context.Background(), append([]models.Outcome(nil), h.snap...))
}

func (h *harness) control(req map[string]any) ControlResponse {
	return h.bot.Control(models.ParseControlRequest(req))
}

func outcomes(v ...int) []models.Outcome {
	out := make([]models.Outcome, len(v))
	for i, x := range v {
		out[i] = models.Outcome(x)
	}
	return out
}
