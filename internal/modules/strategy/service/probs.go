package service

import "signal_bot/internal/models"

// Probs — оценка вероятностей только для дашборда, в решениях не участвует.
type Probs struct {
	W, R, B float64
	Rec     models.Color
	RecP    float64
}

// DefaultProbs — то, что показываем до первого спина.
var DefaultProbs = Probs{W: 0.066, R: 0.467, B: 0.467, Rec: models.ColorBlack, RecP: 0.467}

func EstimateProbs(h History) Probs {
	if h.Len() == 0 {
		return DefaultProbs
	}
	pW := 1.0 / 15.0
	if h.GapWhite() >= 18 {
		pW += 0.03
	}
	if h.WhitesInWindow(10) >= 1 {
		pW += 0.02
	}
	if pW > 0.40 {
		pW = 0.40
	}

	r, b := h.CountsLast(20)
	tot := r + b
	if tot < 1 {
		tot = 1
	}
	rem := 1.0 - pW
	pR := float64(r+1) / float64(tot+2) * rem
	pB := float64(b+1) / float64(tot+2) * rem

	s := pW + pR + pB
	p := Probs{W: pW / s, R: pR / s, B: pB / s}

	p.Rec, p.RecP = models.ColorWhite, p.W
	if p.R > p.RecP {
		p.Rec, p.RecP = models.ColorRed, p.R
	}
	if p.B > p.RecP {
		p.Rec, p.RecP = models.ColorBlack, p.B
	}
	return p
}
