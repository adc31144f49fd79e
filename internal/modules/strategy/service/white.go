package service

func inSet(v int, set ...int) bool {
	for _, x := range set {
		if v == x {
			return true
		}
	}
	return false
}

// WhiteCatalog — предикаты для ставки на белый.
var WhiteCatalog = []Strategy{
	whiteRule("Short repeat (2 in 12)", 1, func(h History) bool { return h.WhitesInWindow(12) >= 2 }),
	whiteRule("Repeat 3 in 40", 1, func(h History) bool { return h.WhitesInWindow(40) >= 3 }),
	whiteRule("After color triple", 2, func(h History) bool {
		n, _ := h.Streak()
		return n >= 3
	}),
	whiteRule("Short alternation broken", 2, func(h History) bool {
		n, _ := h.Streak()
		return h.Alternations(8) >= 3 && n >= 2
	}),
	whiteRule("Double pair (RR BB)", 1, func(h History) bool {
		if len(h.LastColors(5)) < 4 {
			return false
		}
		c := h.LastColors(4)
		return c[0] == c[1] && c[1] != c[2] && c[2] == c[3]
	}),
	whiteRule("No color repeat for 7+", 2, func(h History) bool { return h.Alternations(10) >= 7 }),

	whiteRule("Gap 15-20", 2, func(h History) bool {
		g := h.GapWhite()
		return g >= 15 && g <= 20
	}),
	whiteRule("Gap 25+", 3, func(h History) bool { return h.GapWhite() >= 25 }),
	whiteRule("Short follow-up (<=4)", 1, func(h History) bool {
		return h.GapWhite() <= 4 && h.WhitesInWindow(10) >= 1
	}),
	whiteRule("Mirror 10", 2, func(h History) bool { return inSet(h.GapWhite(), 9, 10, 11) }),
	whiteRule("Cycle of 12", 2, func(h History) bool {
		g := h.GapWhite()
		return g > 0 && g%12 == 0
	}),
	whiteRule("Odd intervals", 1, func(h History) bool { return inSet(h.GapWhite(), 9, 11, 13, 15) }),
	whiteRule("Return (double cluster)", 2, func(h History) bool {
		return h.WhitesInWindow(20) >= 2 && h.GapWhite() >= 8
	}),
	whiteRule("Gap 30 recovery", 3, func(h History) bool { return h.GapWhite() >= 30 }),

	whiteRule("Long alternation (8+)", 2, func(h History) bool { return h.Alternations(12) >= 8 }),
	whiteRule("Perfect alternation and break", 1, func(h History) bool {
		n, _ := h.Streak()
		return h.Alternations(6) >= 4 && n >= 2
	}),

	whiteRule("Active cluster (W in 10)", 1, func(h History) bool { return h.WhitesInWindow(10) >= 1 }),
	whiteRule("Two close clusters", 2, func(h History) bool {
		return h.WhitesInWindow(20) >= 2 && h.GapWhite() <= 10
	}),
	whiteRule("Triple in 40", 1, func(h History) bool { return h.WhitesInWindow(40) >= 3 }),

	whiteRule("Marker (every 15 spins)", 1, func(h History) bool { return h.Len()%15 == 0 }),
	whiteRule("Color wall", 2, func(h History) bool {
		n, _ := h.Streak()
		return n >= 5
	}),

	whiteRule("Local score (high gap + recent white)", 2, func(h History) bool {
		return h.GapWhite() >= 18 && h.WhitesInWindow(12) >= 1
	}),
	whiteRule("Local rate 10% and 5 without white", 2, func(h History) bool {
		return h.WhitesInWindow(20) >= 2 && h.GapWhite() >= 5
	}),

	whiteRule("Low density (<=2 in 50)", 2, func(h History) bool { return h.WhitesInWindow(50) <= 2 }),
	whiteRule("Post saturation (50 without white)", 3, func(h History) bool { return h.GapWhite() >= 50 }),
}
