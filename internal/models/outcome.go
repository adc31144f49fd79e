package models

// Outcome — результат одного спина, 0..14.
type Outcome int

const (
	MinOutcome Outcome = 0
	MaxOutcome Outcome = 14
)

type Color string

const (
	ColorNone  Color = ""
	ColorWhite Color = "W"
	ColorRed   Color = "R"
	ColorBlack Color = "B"
)

func (o Outcome) Valid() bool { return o >= MinOutcome && o <= MaxOutcome }

// Color: 0 белый, 1..7 красный, 8..14 чёрный.
func (o Outcome) Color() Color { return o.ColorWith(false) }

// ColorWith с inverted=true меняет местами красный и чёрный.
func (o Outcome) ColorWith(inverted bool) Color {
	switch {
	case o == 0:
		return ColorWhite
	case o >= 1 && o <= 7:
		if inverted {
			return ColorBlack
		}
		return ColorRed
	case o >= 8 && o <= 14:
		if inverted {
			return ColorRed
		}
		return ColorBlack
	}
	return ColorNone
}

func (c Color) Opposite() Color {
	switch c {
	case ColorRed:
		return ColorBlack
	case ColorBlack:
		return ColorRed
	}
	return ColorNone
}

func (c Color) IsColor() bool { return c == ColorRed || c == ColorBlack }

func (c Color) Name() string {
	switch c {
	case ColorWhite:
		return "BRANCO"
	case ColorRed:
		return "VERMELHO"
	case ColorBlack:
		return "PRETO"
	}
	return "-"
}

// ParseOutcome принимает только целые числа в диапазоне 0..14.
// Всё остальное (строки, bool, дробные, null) отбрасывается.
func ParseOutcome(v any) (Outcome, bool) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case Outcome:
		n = int64(x)
	case float64:
		if x != float64(int64(x)) {
			return 0, false
		}
		n = int64(x)
	case float32:
		if x != float32(int64(x)) {
			return 0, false
		}
		n = int64(x)
	default:
		return 0, false
	}
	o := Outcome(n)
	if !o.Valid() || int64(o) != n {
		return 0, false
	}
	return o, true
}

func ParseOutcomes(raw []any) []Outcome {
	out := make([]Outcome, 0, len(raw))
	for _, v := range raw {
		if o, ok := ParseOutcome(v); ok {
			out = append(out, o)
		}
	}
	return out
}
