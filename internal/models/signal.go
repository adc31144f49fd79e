package models

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusAnalyzing Status = "ANALYZING"
	StatusOpen      Status = "open"
	StatusGale      Status = "GALE"
	StatusWin       Status = "WIN"
	StatusLoss      Status = "LOSS"
)

func (s Status) Closing() bool { return s == StatusWin || s == StatusLoss }

// SignalEntry — запись журнала сигналов. Только для отображения и статистики,
// в логику принятия решений не возвращается.
type SignalEntry struct {
	TS             string    `json:"ts"`
	TSISO          time.Time `json:"ts_iso"`
	TradeID        string    `json:"trade_id"`
	Mode           Mode      `json:"mode"`
	Target         Color     `json:"target"`
	Status         Status    `json:"status"`
	Phase          Phase     `json:"phase,omitempty"`
	Step           int       `json:"gale"`
	MaxSteps       int       `json:"max_gales"`
	Label          string    `json:"label"`
	Strategy       string    `json:"strategy"`
	Confluence     int       `json:"confluence"`
	Came           *Outcome  `json:"came"`
	CameColor      Color     `json:"came_color,omitempty"`
	TradeStartedAt time.Time `json:"trade_started_ts"`
}

// Label в формате дашборда: "VERMELHO (até 2 gales) — Confluência: 3".
func Label(target Color, step, maxSteps, confluence int) string {
	if step > 0 {
		return fmt.Sprintf("%s — GALE %d", target.Name(), step)
	}
	plural := "s"
	if maxSteps == 1 {
		plural = ""
	}
	s := fmt.Sprintf("%s (até %d gale%s)", target.Name(), maxSteps, plural)
	if confluence > 0 {
		s += fmt.Sprintf(" — Confluência: %d", confluence)
	}
	return s
}
