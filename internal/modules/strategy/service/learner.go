package service

import (
	"math"
	"math/rand"
	"time"

	"signal_bot/internal/models"
)

// порядок классов в модели
var actions = [3]models.Color{models.ColorRed, models.ColorBlack, models.ColorWhite}

func actionIndex(c models.Color) int {
	for i, a := range actions {
		if a == c {
			return i
		}
	}
	return -1
}

func softmax(z []float64) []float64 {
	if len(z) == 0 {
		return nil
	}
	m := z[0]
	for _, v := range z[1:] {
		if v > m {
			m = v
		}
	}
	out := make([]float64, len(z))
	s := 0.0
	for i, v := range z {
		out[i] = math.Exp(v - m)
		s += out[i]
	}
	if s == 0 {
		s = 1
	}
	for i := range out {
		out[i] /= s
	}
	return out
}

// ===== признаки =====

const lastK = 6

// FeatureDim — длина вектора признаков.
const FeatureDim = lastK*3 + 3*3 + 3 + 1 + 3 + 2 + 1 + 1

func fractions(cols []models.Color) [3]float64 {
	var out [3]float64
	n := float64(len(cols))
	if n == 0 {
		return out
	}
	for _, c := range cols {
		if i := actionIndex(c); i >= 0 {
			out[i]++
		}
	}
	for i := range out {
		out[i] /= n
	}
	return out
}

func tail(cols []models.Color, n int) []models.Color {
	if len(cols) <= n {
		return cols
	}
	return cols[len(cols)-n:]
}

// Features: one-hot последних K, доли в окнах 5/10/20, серии по цветам,
// дистанция до белого, моментум, время суток, волатильность, bias.
func Features(h History, now time.Time) []float64 {
	cols := h.Colors()
	f := make([]float64, 0, FeatureDim)

	for i := 0; i < lastK; i++ {
		var v [3]float64
		if j := len(cols) - 1 - i; j >= 0 {
			v[actionIndex(cols[j])] = 1
		}
		f = append(f, v[:]...)
	}
	for _, w := range []int{5, 10, 20} {
		fr := fractions(tail(cols, w))
		f = append(f, fr[:]...)
	}
	for _, a := range actions {
		s := 0.0
		for i := len(cols) - 1; i >= 0 && cols[i] == a; i-- {
			s++
		}
		f = append(f, s)
	}
	f = append(f, float64(h.GapWhite()))

	a, b := fractions(tail(cols, 10)), fractions(tail(cols, 5))
	for i := range a {
		f = append(f, b[i]-a[i])
	}

	m := float64(now.UTC().Hour()*60 + now.UTC().Minute())
	x := 2 * math.Pi * m / 1440.0
	f = append(f, math.Sin(x), math.Cos(x))

	v := tail(cols, 12)
	swaps := 0
	for i := 1; i < len(v); i++ {
		if v[i] != v[i-1] {
			swaps++
		}
	}
	den := len(v) - 1
	if den < 1 {
		den = 1
	}
	f = append(f, float64(swaps)/float64(den))

	f = append(f, 1.0)
	return f
}

// ===== онлайн логистическая регрессия (3 класса) =====

type OnlineLogReg struct {
	lr, l2 float64
	W      [3][]float64
}

func NewOnlineLogReg(dim int, lr, l2 float64) *OnlineLogReg {
	m := &OnlineLogReg{lr: lr, l2: l2}
	for k := range m.W {
		m.W[k] = make([]float64, dim)
	}
	return m
}

func (m *OnlineLogReg) PredictProba(x []float64) []float64 {
	z := make([]float64, len(m.W))
	for k, w := range m.W {
		for j := range w {
			z[k] += w[j] * x[j]
		}
	}
	return softmax(z)
}

// Update — шаг SGD с L2 на одном примере.
func (m *OnlineLogReg) Update(x []float64, y int) {
	p := m.PredictProba(x)
	for k := range m.W {
		g := p[k]
		if k == y {
			g -= 1
		}
		for j := range m.W[k] {
			m.W[k][j] -= m.lr * (g*x[j] + m.l2*m.W[k][j])
		}
	}
}

// ===== n-gram майнер =====

type gram [3]models.Color

func gramOf(cols []models.Color) gram {
	var g gram
	copy(g[:], cols)
	return g
}

// PatternMiner считает, что шло после последовательностей длины 1..maxN-1,
// и выдаёт lift относительно базовой частоты.
type PatternMiner struct {
	maxN  int
	next  map[int]map[gram]map[models.Color]int
	total map[models.Color]int
}

func NewPatternMiner(maxN int) *PatternMiner {
	if maxN > len(gram{})+1 {
		maxN = len(gram{}) + 1
	}
	pm := &PatternMiner{
		maxN:  maxN,
		next:  make(map[int]map[gram]map[models.Color]int),
		total: make(map[models.Color]int),
	}
	for n := 2; n <= maxN; n++ {
		pm.next[n] = make(map[gram]map[models.Color]int)
	}
	return pm
}

// Observe учитывает последний исход как продолжение предыдущих n-1.
func (pm *PatternMiner) Observe(cols []models.Color) {
	if len(cols) == 0 {
		return
	}
	last := cols[len(cols)-1]
	pm.total[last]++
	for n := 2; n <= pm.maxN; n++ {
		if len(cols) < n {
			break
		}
		prev := gramOf(cols[len(cols)-n : len(cols)-1])
		cnt, ok := pm.next[n][prev]
		if !ok {
			cnt = make(map[models.Color]int)
			pm.next[n][prev] = cnt
		}
		cnt[last]++
	}
}

// Prior — нормированный lift по самому длинному известному префиксу.
// Пустая карта, если ничего не известно.
func (pm *PatternMiner) Prior(cols []models.Color) map[models.Color]float64 {
	out := map[models.Color]float64{}
	if len(cols) == 0 {
		return out
	}
	base := map[models.Color]float64{}
	totalBase := 0.0
	for _, a := range actions {
		v := float64(pm.total[a])
		if v < 1 {
			v = 1
		}
		base[a] = v
		totalBase += v
	}

	lift := map[models.Color]float64{}
	for n := pm.maxN; n >= 2; n-- {
		if len(cols) < n-1 {
			continue
		}
		nxt := pm.next[n][gramOf(cols[len(cols)-(n-1):])]
		if len(nxt) == 0 {
			continue
		}
		tot := 0
		for _, c := range nxt {
			tot += c
		}
		// невиданное продолжение: lift -1
		for _, a := range actions {
			p := float64(nxt[a]) / float64(tot)
			lift[a] += p/math.Max(1e-6, base[a]/totalBase) - 1
		}
		break
	}
	if len(lift) == 0 {
		return out
	}

	minV := math.Inf(1)
	for _, v := range lift {
		minV = math.Min(minV, v)
	}
	s := 0.0
	for a, v := range lift {
		out[a] = v - minV
		s += out[a]
	}
	if s == 0 {
		s = 1
	}
	for a := range out {
		out[a] /= s
	}
	return out
}

// ===== источник: модель + майнер + epsilon-исследование =====

type LearnerConfig struct {
	LR, L2        float64
	Alpha         float64
	EpsStart      float64
	EpsMin        float64
	EpsDecay      float64
	MinConfidence float64
	MaxSteps      int
}

// Learner учится на каждом новом исходе и предлагает цвет с максимальной
// смешанной вероятностью. Не потокобезопасен: вызывается под мьютексом бота.
type Learner struct {
	cfg   LearnerConfig
	model *OnlineLogReg
	miner *PatternMiner
	eps   float64
	rnd   *rand.Rand
	now   func() time.Time
}

func NewLearner(cfg LearnerConfig, rnd *rand.Rand) *Learner {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Learner{
		cfg:   cfg,
		model: NewOnlineLogReg(FeatureDim, cfg.LR, cfg.L2),
		miner: NewPatternMiner(4),
		eps:   cfg.EpsStart,
		rnd:   rnd,
		now:   time.Now,
	}
}

func (l *Learner) Name() string { return string(models.SourceLearner) }

// Observe: пример = (признаки истории без последнего исхода, последний исход).
func (l *Learner) Observe(h History) {
	last, ok := h.Last()
	if !ok {
		return
	}
	prefix := History{Seq: h.Seq[:len(h.Seq)-1], Inverted: h.Inverted}
	if prefix.Len() > 0 {
		l.model.Update(Features(prefix, l.now()), actionIndex(h.color(last)))
	}
	l.miner.Observe(h.Colors())
}

// Mix — смесь модели и априорной оценки майнера, сумма = 1.
func (l *Learner) Mix(h History) []float64 {
	pm := l.model.PredictProba(Features(h, l.now()))
	prior := l.miner.Prior(h.Colors())
	mix := make([]float64, len(actions))
	s := 0.0
	for i, a := range actions {
		p, ok := prior[a]
		if !ok {
			p = 1.0 / 3.0
		}
		mix[i] = l.cfg.Alpha*pm[i] + (1-l.cfg.Alpha)*p
		s += mix[i]
	}
	for i := range mix {
		mix[i] /= s
	}
	return mix
}

func (l *Learner) Propose(h History, s models.Settings) (models.Proposal, bool) {
	if h.Len() == 0 {
		return models.Proposal{}, false
	}
	mix := l.Mix(h)

	idx := 0
	if l.rnd.Float64() < l.eps {
		idx = l.rnd.Intn(len(actions))
	} else {
		for i := range mix {
			if mix[i] > mix[idx] {
				idx = i
			}
		}
	}
	l.eps = math.Max(l.cfg.EpsMin, l.eps*l.cfg.EpsDecay)

	target := actions[idx]
	if (s.Mode == models.ModeWhite) != (target == models.ColorWhite) {
		return models.Proposal{}, false
	}
	if mix[idx] < l.cfg.MinConfidence {
		return models.Proposal{}, false
	}
	return models.Proposal{
		Kind:       s.Mode.Kind(),
		Target:     target,
		Strategy:   "Learner (logreg + n-gram)",
		MaxSteps:   l.cfg.MaxSteps,
		Confluence: 1,
		Confidence: mix[idx],
	}, true
}

// Epsilon — текущая вероятность исследования.
func (l *Learner) Epsilon() float64 { return l.eps }

func (l *Learner) Insight() Insight {
	eps := l.eps
	return Insight{Epsilon: &eps}
}
