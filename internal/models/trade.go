package models

import "time"

type Phase string

const (
	PhaseAnalyzing Phase = "analyzing"
	PhaseOpen      Phase = "open"
)

// Trade — единственная активная ставка. nil означает, что сделки нет.
type Trade struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"type"`
	Target     Color     `json:"target"`
	Step       int       `json:"step"`
	MaxSteps   int       `json:"max_gales"`
	Phase      Phase     `json:"phase"`
	Strategy   string    `json:"strategy"`
	Confluence int       `json:"confluence"`
	Confidence float64   `json:"confidence,omitempty"`
	OpenedAt   int       `json:"opened_at"` // номер исхода (с начала работы) в момент открытия
	StartedAt  time.Time `json:"started_ts"`
}

// Hit — попал ли исход в цель сделки.
func (t *Trade) Hit(c Color) bool {
	if t.Kind == KindWhite {
		return c == ColorWhite
	}
	return c.IsColor() && c == t.Target
}

func (t *Trade) Exhausted() bool { return t.Step >= t.MaxSteps }
