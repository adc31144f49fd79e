package runner

import "signal_bot/internal/models"

// DefaultOverlapMax — сколько элементов прошлого снапшота сравниваем.
const DefaultOverlapMax = 60

// Merger сверяет очередной снапшот "последних N результатов" с предыдущим
// и отдаёт только новые исходы. Ориентация снапшота заранее неизвестна.
// Не потокобезопасен: вызывается под мьютексом бота.
type Merger struct {
	last     []models.Outcome
	lookback int
}

func NewMerger(lookback int) *Merger {
	if lookback < 1 {
		lookback = DefaultOverlapMax
	}
	return &Merger{lookback: lookback}
}

// reference — копия опорного снапшота (в прямом порядке).
func (m *Merger) reference() []models.Outcome {
	return append([]models.Outcome(nil), m.last...)
}

// overlap — сколько первых элементов next уже есть в конце prev: наибольшее
// e, при котором next[e-w:e] совпадает с последними w элементами prev,
// где w = min(e, kmax).
func overlap(prev, next []models.Outcome, kmax int) int {
	for e := min(len(prev), len(next)); e > 0; e-- {
		w := min(e, kmax)
		if equal(next[e-w:e], prev[len(prev)-w:]) {
			return e
		}
	}
	return 0
}

func equal(a, b []models.Outcome) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func reversed(s []models.Outcome) []models.Outcome {
	out := make([]models.Outcome, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// Merge возвращает новые исходы в хронологическом порядке.
// Пустой (после фильтрации) снапшот ничего не меняет.
// При равном перекрытии прямой и обратной ориентации выигрывает прямая.
func (m *Merger) Merge(snap []models.Outcome) []models.Outcome {
	if len(snap) == 0 {
		return nil
	}
	if len(m.last) == 0 {
		m.last = append([]models.Outcome(nil), snap...)
		return append([]models.Outcome(nil), snap...)
	}

	fwd, rev := snap, reversed(snap)
	of := overlap(m.last, fwd, m.lookback)
	or := overlap(m.last, rev, m.lookback)

	chosen, end := fwd, of
	if or > of {
		chosen, end = rev, or
	}
	m.last = append([]models.Outcome(nil), chosen...)
	if end >= len(chosen) {
		return nil
	}
	return append([]models.Outcome(nil), chosen[end:]...)
}

// Seed — опорный снапшот из хвоста истории (после прогрева).
func (m *Merger) Seed(history []models.Outcome) {
	tail := history
	if len(tail) > m.lookback {
		tail = tail[len(tail)-m.lookback:]
	}
	m.last = append([]models.Outcome(nil), tail...)
}
