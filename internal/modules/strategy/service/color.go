package service

import "signal_bot/internal/models"

// back(cols, k) — k-й элемент с конца, k>=1.
func back(cols []models.Color, k int) models.Color { return cols[len(cols)-k] }

// streakRule — условие на длину серии, цель = цвет серии.
func streakRule(name string, maxSteps int, cond func(n int, h History) bool) Predicate {
	return colorRule(name, maxSteps, func(h History) (models.Color, bool) {
		n, c := h.Streak()
		return c, cond(n, h)
	})
}

// ColorCatalog — предикаты, голосующие за красный или чёрный.
var ColorCatalog = []Strategy{
	streakRule("Repeat 2->3", 2, func(n int, _ History) bool { return n >= 2 }),
	streakRule("Repeat 3->4", 1, func(n int, _ History) bool { return n >= 3 }),
	streakRule("Repeat 4->5", 1, func(n int, _ History) bool { return n >= 4 }),
	streakRule("Short streak echo", 2, func(n int, h History) bool {
		r, b := h.CountsLast(15)
		return n == 2 && (r >= 8 || b >= 8)
	}),
	streakRule("First doubling", 0, func(n int, h History) bool {
		return n == 2 && h.Len()%50 < 2
	}),
	colorRule("Streak after inertia", 1, func(h History) (models.Color, bool) {
		n, c := h.Streak()
		return c, n >= 1 && h.CountIn(8, c) == 1
	}),

	colorRule("Alternation 4+ break", 2, func(h History) (models.Color, bool) {
		n, _ := h.Streak()
		return h.LastColor(), h.Alternations(10) >= 4 && n >= 2
	}),
	colorRule("Short alternation -> repeat", 1, func(h History) (models.Color, bool) {
		n, _ := h.Streak()
		return h.LastColor(), h.Alternations(6) >= 2 && n >= 2
	}),
	colorRule("Failed alternation", 1, func(h History) (models.Color, bool) {
		n, _ := h.Streak()
		return h.LastColor(), h.Alternations(8) >= 3 && n == 2
	}),
	colorRule("Extended alternation (6+)", 2, func(h History) (models.Color, bool) {
		return h.LastColor(), h.Alternations(12) >= 6
	}),

	colorRule("Color gap (8+)", 2, func(h History) (models.Color, bool) {
		_, c := h.Streak()
		return c, c.IsColor() && h.CountIn(12, c) == 0
	}),
	colorRule("Under-represented in 20", 1, func(h History) (models.Color, bool) {
		r, b := h.CountsLast(20)
		if r <= 8 {
			return models.ColorRed, true
		}
		return models.ColorBlack, b <= 8
	}),
	colorRule("Mean reversion (<=40% in 50)", 2, func(h History) (models.Color, bool) {
		r, b := h.CountsLast(50)
		tot := float64(r + b)
		if r+b < 20 {
			return models.ColorNone, false
		}
		if float64(r) <= 0.4*tot {
			return models.ColorRed, true
		}
		return models.ColorBlack, float64(b) <= 0.4*tot
	}),

	colorRule("Sandwich (C-X-C)", 1, func(h History) (models.Color, bool) {
		c := h.LastColors(5)
		if len(c) < 3 {
			return models.ColorNone, false
		}
		return back(c, 1), back(c, 3) == back(c, 1) && back(c, 1) != back(c, 2)
	}),
	colorRule("2x + inversion + 2x", 1, func(h History) (models.Color, bool) {
		c := h.LastColors(7)
		if len(c) < 5 {
			return models.ColorNone, false
		}
		ok := back(c, 5) == back(c, 4) && back(c, 4) != back(c, 3) &&
			back(c, 3) == back(c, 2) && back(c, 1) == back(c, 2)
		return back(c, 1), ok
	}),
	colorRule("Block 2-2-1", 2, func(h History) (models.Color, bool) {
		c := h.LastColors(6)
		if len(c) < 5 {
			return models.ColorNone, false
		}
		ok := back(c, 5) == back(c, 4) && back(c, 4) != back(c, 3) &&
			back(c, 3) == back(c, 2) && back(c, 2) != back(c, 1)
		return back(c, 1), ok
	}),
	colorRule("Triangle (X, C, X, C)", 1, func(h History) (models.Color, bool) {
		c := h.LastColors(6)
		if len(c) < 4 {
			return models.ColorNone, false
		}
		ok := back(c, 4) != back(c, 3) && back(c, 3) == back(c, 1) && back(c, 1) != back(c, 2)
		return back(c, 1), ok
	}),

	colorRule("Dominance 20", 2, func(h History) (models.Color, bool) {
		d := h.DominantColor20()
		return d, d != models.ColorNone
	}),
	colorRule("Last color + density", 1, func(h History) (models.Color, bool) {
		r, b := h.CountsLast(20)
		lc := h.LastColor()
		return lc, (lc == models.ColorRed && r >= 11) || (lc == models.ColorBlack && b >= 11)
	}),

	colorRule("Score 3 of 5", 2, func(h History) (models.Color, bool) {
		lc := h.LastColor()
		n, _ := h.Streak()
		r, b := h.CountsLast(20)
		score := 0
		if n >= 2 {
			score++
		}
		if h.Alternations(12) <= 3 {
			score++
		}
		if (lc == models.ColorRed && r >= 11) || (lc == models.ColorBlack && b >= 11) {
			score++
		}
		if r-b >= 4 || b-r >= 4 {
			score++
		}
		if h.WhitesInWindow(8) == 0 {
			score++
		}
		return lc, score >= 3
	}),
}
