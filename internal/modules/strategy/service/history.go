package service

import "signal_bot/internal/models"

// History — срез истории исходов (старые первыми) + схема цветов.
// Все методы чистые и не меняют Seq.
type History struct {
	Seq      []models.Outcome
	Inverted bool
}

func NewHistory(seq []models.Outcome, inverted bool) History {
	return History{Seq: seq, Inverted: inverted}
}

func (h History) Len() int { return len(h.Seq) }

func (h History) color(o models.Outcome) models.Color { return o.ColorWith(h.Inverted) }

// Last — последний исход, ok=false на пустой истории.
func (h History) Last() (models.Outcome, bool) {
	if len(h.Seq) == 0 {
		return 0, false
	}
	return h.Seq[len(h.Seq)-1], true
}

// Colors — вся история в цветах, включая белые.
func (h History) Colors() []models.Color {
	out := make([]models.Color, len(h.Seq))
	for i, o := range h.Seq {
		out[i] = h.color(o)
	}
	return out
}

// LastColors — последние k цветных исходов (белые пропускаются), в хронологическом порядке.
func (h History) LastColors(k int) []models.Color {
	if k <= 0 {
		return nil
	}
	out := make([]models.Color, 0, k)
	for i := len(h.Seq) - 1; i >= 0 && len(out) < k; i-- {
		c := h.color(h.Seq[i])
		if c == models.ColorWhite {
			continue
		}
		out = append(out, c)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// CountsLast — сколько красных и чёрных среди последних k цветных исходов.
func (h History) CountsLast(k int) (red, black int) {
	for _, c := range h.LastColors(k) {
		if c == models.ColorRed {
			red++
		} else {
			black++
		}
	}
	return
}

// Streak — длина текущей серии одного цвета. Белые в хвосте до серии
// пропускаются, белый внутри серии её обрывает.
func (h History) Streak() (int, models.Color) {
	n := 0
	last := models.ColorNone
	for i := len(h.Seq) - 1; i >= 0; i-- {
		c := h.color(h.Seq[i])
		if c == models.ColorWhite {
			if n == 0 {
				continue
			}
			break
		}
		if last == models.ColorNone || c == last {
			n++
			last = c
			continue
		}
		break
	}
	return n, last
}

// Alternations — число смен цвета среди последних depth цветных исходов.
func (h History) Alternations(depth int) int {
	cols := h.LastColors(depth)
	alt := 0
	for i := 1; i < len(cols); i++ {
		if cols[i] != cols[i-1] {
			alt++
		}
	}
	return alt
}

// GapWhite — сколько исходов прошло после последнего белого.
// Без белых — длина истории.
func (h History) GapWhite() int {
	for i := len(h.Seq) - 1; i >= 0; i-- {
		if h.Seq[i] == 0 {
			return len(h.Seq) - 1 - i
		}
	}
	return len(h.Seq)
}

// WhitesInWindow — число белых среди последних k исходов.
func (h History) WhitesInWindow(k int) int {
	start := len(h.Seq) - k
	if start < 0 {
		start = 0
	}
	n := 0
	for _, o := range h.Seq[start:] {
		if o == 0 {
			n++
		}
	}
	return n
}

func (h History) LastColor() models.Color {
	for i := len(h.Seq) - 1; i >= 0; i-- {
		if c := h.color(h.Seq[i]); c != models.ColorWhite {
			return c
		}
	}
	return models.ColorNone
}

// CountIn — сколько раз цвет c встречается среди последних k цветных исходов.
func (h History) CountIn(k int, c models.Color) int {
	n := 0
	for _, x := range h.LastColors(k) {
		if x == c {
			n++
		}
	}
	return n
}

// DominantColor20 — цвет с долей >= 60% среди последних 20 цветных,
// если выборка не меньше 6.
func (h History) DominantColor20() models.Color {
	r, b := h.CountsLast(20)
	tot := float64(r + b)
	if r+b < 6 {
		return models.ColorNone
	}
	if float64(r) >= 0.6*tot {
		return models.ColorRed
	}
	if float64(b) >= 0.6*tot {
		return models.ColorBlack
	}
	return models.ColorNone
}
