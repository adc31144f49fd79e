package runner

import "time"

// Guard ставит открытие сделок на паузу после серии проигрышей.
type Guard struct {
	limit  int
	pause  time.Duration
	streak int
	until  time.Time
}

func NewGuard(limit int, pause time.Duration) *Guard {
	return &Guard{limit: limit, pause: pause}
}

// Result учитывает закрытую сделку. true — пауза только что началась.
func (g *Guard) Result(win bool, now time.Time) bool {
	if win {
		g.streak = 0
		return false
	}
	g.streak++
	if g.limit > 0 && g.streak >= g.limit {
		g.streak = 0
		g.until = now.Add(g.pause)
		return true
	}
	return false
}

func (g *Guard) Paused(now time.Time) bool { return now.Before(g.until) }

type GuardView struct {
	Paused     bool       `json:"paused"`
	Until      *time.Time `json:"until,omitempty"`
	LossStreak int        `json:"loss_streak"`
}

func (g *Guard) View(now time.Time) GuardView {
	v := GuardView{Paused: g.Paused(now), LossStreak: g.streak}
	if v.Paused {
		u := g.until
		v.Until = &u
	}
	return v
}
