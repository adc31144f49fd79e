package runner

import "math"

// Regime — детектор "плохого рынка": низкий винрейт или высокая энтропия прогнозов.
type Regime struct {
	preds      []float64
	outcomes   []bool
	entWindow  int
	winWindow  int
	entThr     float64
	minWinrate float64
}

func NewRegime(winWindow, entWindow int, entThr, minWinrate float64) *Regime {
	return &Regime{
		winWindow:  max(1, winWindow),
		entWindow:  max(1, entWindow),
		entThr:     entThr,
		minWinrate: minWinrate,
	}
}

// binaryEntropy в битах, максимум 1 при p=0.5.
func binaryEntropy(p float64) float64 {
	const eps = 1e-9
	p = math.Max(eps, math.Min(1-eps, p))
	return -(p*math.Log2(p) + (1-p)*math.Log2(1-p))
}

func (r *Regime) Pred(p float64) {
	r.preds = append(r.preds, p)
	if len(r.preds) > r.entWindow {
		r.preds = r.preds[len(r.preds)-r.entWindow:]
	}
}

func (r *Regime) Outcome(win bool) {
	r.outcomes = append(r.outcomes, win)
	if len(r.outcomes) > r.winWindow {
		r.outcomes = r.outcomes[len(r.outcomes)-r.winWindow:]
	}
}

// Winrate — 0 без закрытых сделок.
func (r *Regime) Winrate() float64 {
	wins := 0
	for _, w := range r.outcomes {
		if w {
			wins++
		}
	}
	return float64(wins) / float64(max(1, len(r.outcomes)))
}

// HighEntropy считается только на полном окне.
func (r *Regime) HighEntropy() bool {
	if len(r.preds) < r.entWindow {
		return false
	}
	s := 0.0
	for _, p := range r.preds {
		s += binaryEntropy(p)
	}
	return s/float64(len(r.preds)) > r.entThr
}

func (r *Regime) Bad() bool { return r.Winrate() < r.minWinrate || r.HighEntropy() }

type RegimeView struct {
	Winrate     float64 `json:"winrate"`
	HighEntropy bool    `json:"high_entropy"`
	Bad         bool    `json:"bad_market"`
	Resolved    int     `json:"resolved"`
}

func (r *Regime) View() RegimeView {
	return RegimeView{
		Winrate:     math.Round(r.Winrate()*1000) / 1000,
		HighEntropy: r.HighEntropy(),
		Bad:         r.Bad(),
		Resolved:    len(r.outcomes),
	}
}
