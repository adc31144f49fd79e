package service

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

type TemplateType string

const (
	TemplateRepeat      TemplateType = "repeat_pattern"
	TemplateAlternation TemplateType = "alternation"
	TemplateCluster     TemplateType = "cluster_count"
)

var templateTypes = []TemplateType{TemplateRepeat, TemplateAlternation, TemplateCluster}

// Template — параметризованный шаблон паттерна.
//
//	repeat_pattern: N одинаковых подряд -> ставим на тот же цвет
//	alternation:    N+1 чередующихся    -> ставим на противоположный последнему
//	cluster_count:  N одинаковых подряд -> ставим на противоположный
type Template struct {
	ID      string
	Type    TemplateType
	N       int
	Gen     int
	Fitness float64
}

func (t Template) String() string { return fmt.Sprintf("GA %s(%d)#%s", t.Type, t.N, t.ID) }

func (t Template) lookback() int {
	if t.Type == TemplateAlternation {
		return t.N + 1
	}
	return t.N
}

// Predict — прогноз следующего цвета по хвосту cols (с белыми).
func (t Template) Predict(cols []models.Color) (models.Color, bool) {
	n := t.lookback()
	if n < 1 || len(cols) < n {
		return models.ColorNone, false
	}
	seq := cols[len(cols)-n:]
	last := seq[len(seq)-1]

	switch t.Type {
	case TemplateRepeat, TemplateCluster:
		for _, c := range seq {
			if c != last {
				return models.ColorNone, false
			}
		}
		if !last.IsColor() {
			return models.ColorNone, false
		}
		if t.Type == TemplateRepeat {
			return last, true
		}
		return last.Opposite(), true
	case TemplateAlternation:
		for i := 1; i < len(seq); i++ {
			if seq[i] == seq[i-1] {
				return models.ColorNone, false
			}
		}
		if !last.IsColor() {
			return models.ColorNone, false
		}
		return last.Opposite(), true
	}
	return models.ColorNone, false
}

type BacktestResult struct {
	Wins, Losses int
	Winrate      float64
	ROI          int
	Score        float64
}

// Backtest прогоняет шаблон по каждому префиксу data.
// score = 0.7*winrate + 0.3*max(0, roi/total).
func Backtest(t Template, data []models.Color) BacktestResult {
	var r BacktestResult
	for i := t.lookback(); i < len(data); i++ {
		pred, ok := t.Predict(data[:i])
		if !ok {
			continue
		}
		if data[i] == pred {
			r.Wins++
		} else {
			r.Losses++
		}
	}
	total := r.Wins + r.Losses
	if total < 1 {
		total = 1
	}
	r.Winrate = float64(r.Wins) / float64(total)
	r.ROI = r.Wins - r.Losses
	roi := float64(r.ROI) / float64(total)
	if roi < 0 {
		roi = 0
	}
	r.Score = r.Winrate*0.7 + roi*0.3
	return r
}

type GeneticConfig struct {
	Population   int
	Parents      int
	Horizon      int
	Every        int
	PromoteScore float64
	DemoteScore  float64
	MaxSteps     int
}

// Genetic — пул шаблонов: генерация, бэктест, скрещивание, мутация, промоушен.
// Не потокобезопасен: вызывается под мьютексом бота.
type Genetic struct {
	cfg    GeneticConfig
	rnd    *rand.Rand
	pool   []Template
	gen    int
	seen   int
	active *Template
}

func NewGenetic(cfg GeneticConfig, rnd *rand.Rand) *Genetic {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Population < 1 {
		cfg.Population = 1
	}
	if cfg.Parents < 1 {
		cfg.Parents = 1
	}
	if cfg.Every < 1 {
		cfg.Every = 1
	}
	return &Genetic{cfg: cfg, rnd: rnd}
}

func (g *Genetic) Name() string { return string(models.SourceGenetic) }

func (g *Genetic) randomTemplate() Template {
	t := Template{ID: fmt.Sprintf("%08x", g.rnd.Uint32()), Type: templateTypes[g.rnd.Intn(len(templateTypes))], Gen: g.gen}
	switch t.Type {
	case TemplateRepeat:
		t.N = 2 + g.rnd.Intn(4) // 2..5
	case TemplateAlternation:
		t.N = 2 + g.rnd.Intn(5) // 2..6
	default:
		t.N = 2 + g.rnd.Intn(5) // 2..6
	}
	return t
}

func (g *Genetic) crossover(a, b Template) Template {
	child := Template{ID: a.ID[:4] + b.ID[:4], Type: a.Type, N: a.N, Gen: g.gen}
	if b.Type == a.Type && g.rnd.Float64() < 0.5 {
		child.N = b.N
	}
	return child
}

func (g *Genetic) mutate(t Template) Template {
	if g.rnd.Float64() < 0.3 {
		t.N += g.rnd.Intn(3) - 1
		if t.N < 1 {
			t.N = 1
		}
	}
	return t
}

func (g *Genetic) poolCap() int { return g.cfg.Population * 5 }

// Observe: каждые Every исходов — одно поколение.
func (g *Genetic) Observe(h History) {
	g.seen++
	if g.seen%g.cfg.Every != 0 {
		return
	}
	g.Evolve(h)
}

// Evolve — одно поколение: новые кандидаты, бэктест, отбор, промоушен/демоушен.
func (g *Genetic) Evolve(h History) {
	cols := h.Colors()
	if len(cols) > g.cfg.Horizon && g.cfg.Horizon > 0 {
		cols = cols[len(cols)-g.cfg.Horizon:]
	}

	var fresh []Template
	if len(g.pool) < g.cfg.Population {
		for i := len(g.pool); i < g.cfg.Population; i++ {
			fresh = append(fresh, g.randomTemplate())
		}
	} else {
		parents := g.pool
		if len(parents) > g.cfg.Parents {
			parents = parents[:g.cfg.Parents]
		}
		for i := 0; i < g.cfg.Parents; i++ {
			a := parents[g.rnd.Intn(len(parents))]
			b := parents[g.rnd.Intn(len(parents))]
			fresh = append(fresh, g.mutate(g.crossover(a, b)))
		}
	}
	g.gen++

	// старые оценки устаревают вместе с окном
	for i := range g.pool {
		g.pool[i].Fitness = Backtest(g.pool[i], cols).Score
	}
	for _, t := range fresh {
		t.Fitness = Backtest(t, cols).Score
		g.pool = append(g.pool, t)
	}
	sort.SliceStable(g.pool, func(i, j int) bool { return g.pool[i].Fitness > g.pool[j].Fitness })
	if len(g.pool) > g.poolCap() {
		g.pool = g.pool[:g.poolCap()]
	}

	if g.active != nil {
		g.active.Fitness = Backtest(*g.active, cols).Score
		if g.active.Fitness < g.cfg.DemoteScore {
			logger.Info("[GA] demote %s score=%.3f", g.active, g.active.Fitness)
			g.active = nil
		}
	}
	if best := g.pool[0]; best.Fitness >= g.cfg.PromoteScore {
		if g.active == nil || g.active.ID != best.ID {
			logger.Info("[GA] promote %s score=%.3f gen=%d", best, best.Fitness, g.gen)
		}
		g.active = &best
	}
}

// Active — текущий продвинутый шаблон, nil если нет.
func (g *Genetic) Active() *Template {
	if g.active == nil {
		return nil
	}
	t := *g.active
	return &t
}

func (g *Genetic) Generation() int { return g.gen }

func (g *Genetic) Insight() Insight {
	gen := g.Generation()
	in := Insight{Generation: &gen}
	if a := g.Active(); a != nil {
		in.Active = a.String()
		in.ActiveScore = &a.Fitness
	}
	return in
}

func (g *Genetic) Propose(h History, s models.Settings) (models.Proposal, bool) {
	if g.active == nil || s.Mode != models.ModeColor {
		return models.Proposal{}, false
	}
	target, ok := g.active.Predict(h.Colors())
	if !ok {
		return models.Proposal{}, false
	}
	return models.Proposal{
		Kind:       models.KindColor,
		Target:     target,
		Strategy:   g.active.String(),
		MaxSteps:   g.cfg.MaxSteps,
		Confluence: 1,
		Confidence: g.active.Fitness,
	}, true
}
