package runner

import (
	"sort"

	"github.com/shopspring/decimal"

	"signal_bot/internal/models"
)

// StrategyStats — симуляция результата стратегии на фиксированной ставке.
type StrategyStats struct {
	Strategy string          `json:"strategy"`
	Entries  int             `json:"entries"`
	Win      int             `json:"win"`
	Loss     int             `json:"loss"`
	Acc      float64         `json:"acc"`
	PL       decimal.Decimal `json:"pl"`
}

type Odds struct {
	Stake decimal.Decimal
	Color decimal.Decimal
	White decimal.Decimal
}

func NewOdds(stake, color, white float64) Odds {
	return Odds{
		Stake: decimal.NewFromFloat(stake),
		Color: decimal.NewFromFloat(color),
		White: decimal.NewFromFloat(white),
	}
}

type Stats struct {
	odds Odds
	by   map[string]*StrategyStats
}

func NewStats(odds Odds) *Stats {
	return &Stats{odds: odds, by: make(map[string]*StrategyStats)}
}

// Close учитывает закрытую сделку. Проигрыш стоит ставку на каждую ступень лесенки.
func (s *Stats) Close(t *models.Trade, win bool) {
	if t == nil || t.Strategy == "" {
		return
	}
	rec, ok := s.by[t.Strategy]
	if !ok {
		rec = &StrategyStats{Strategy: t.Strategy}
		s.by[t.Strategy] = rec
	}
	rec.Entries++
	if win {
		rec.Win++
		odds := s.odds.Color
		if t.Target == models.ColorWhite {
			odds = s.odds.White
		}
		rec.PL = rec.PL.Add(odds.Mul(s.odds.Stake))
		return
	}
	rec.Loss++
	rec.PL = rec.PL.Sub(s.odds.Stake.Mul(decimal.NewFromInt(int64(1 + t.MaxSteps))))
}

// Snapshot: по убыванию входов, затем точности.
func (s *Stats) Snapshot() []StrategyStats {
	out := make([]StrategyStats, 0, len(s.by))
	for _, rec := range s.by {
		r := *rec
		total := max(1, r.Entries)
		r.Acc = decimal.NewFromInt(int64(100 * r.Win)).Div(decimal.NewFromInt(int64(total))).Round(1).InexactFloat64()
		r.PL = r.PL.Round(2)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Entries != out[j].Entries {
			return out[i].Entries > out[j].Entries
		}
		if out[i].Acc != out[j].Acc {
			return out[i].Acc > out[j].Acc
		}
		return out[i].Strategy < out[j].Strategy
	})
	return out
}
