package runner

import (
	"math"

	"github.com/shopspring/decimal"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/strategy/service"
)

const (
	stateHistory = 20
	stateLast50  = 50
	stateSignals = 80
)

type ProbsView struct {
	W   float64 `json:"W"`
	R   float64 `json:"R"`
	B   float64 `json:"B"`
	Rec struct {
		Target models.Color `json:"tgt"`
		P      float64      `json:"p"`
	} `json:"rec"`
}

type CooldownsView struct {
	White int `json:"white"`
	Color int `json:"color"`
}

type ConfluenceView struct {
	WhiteMin int         `json:"white_min"`
	ColorMin int         `json:"color_min"`
	Risk     models.Risk `json:"selecao_risco"`
}

type StakeView struct {
	Bankroll  decimal.Decimal `json:"bankroll"`
	Suggested decimal.Decimal `json:"suggested"`
}

// StateView — снимок состояния для дашборда. Возвращается по значению.
type StateView struct {
	OK               bool                 `json:"ok"`
	BotOn            bool                 `json:"bot_on"`
	Mode             models.Mode          `json:"mode"`
	History          []models.Outcome     `json:"history"`
	Last50           []models.Outcome     `json:"last_50"`
	Probs            ProbsView            `json:"probs"`
	Signals          []models.SignalEntry `json:"signals"`
	Cooldowns        CooldownsView        `json:"cooldowns"`
	OpenTrade        *models.Trade        `json:"open_trade"`
	Confluence       ConfluenceView       `json:"confluence"`
	EvalSameSpin     bool                 `json:"eval_same_spin"`
	StrictOneAtATime bool                 `json:"strict_one_at_a_time"`
	Source           string               `json:"source"`
	DataSource       string               `json:"data_source"`
	TelemetryView
	Health HealthView       `json:"health"`
	Stats  []StrategyStats  `json:"stats_by_strategy"`
	Guard  GuardView        `json:"guard"`
	Regime RegimeView       `json:"regime"`
	Stake  StakeView        `json:"stake"`
	IA     *service.Insight `json:"ia,omitempty"`
}

func pct(p float64) float64 { return math.Round(1000*p) / 10 }

func lastN(s []models.Outcome, n int) []models.Outcome {
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return append([]models.Outcome{}, s...)
}

func (b *Bot) State() StateView {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	probs := service.EstimateProbs(b.hist())
	tv, hv := b.tele.View(now)

	v := StateView{
		OK:      true,
		BotOn:   b.settings.BotOn,
		Mode:    b.settings.Mode,
		History: lastN(b.history, stateHistory),
		Last50:  lastN(b.history, stateLast50),
		Signals: b.recentSignals(stateSignals),
		Cooldowns: CooldownsView{
			White: max(0, b.coolWhite),
			Color: max(0, b.coolColor),
		},
		Confluence: ConfluenceView{
			WhiteMin: b.settings.ConfluenceWhite,
			ColorMin: b.settings.ConfluenceColor,
			Risk:     b.settings.Risk,
		},
		EvalSameSpin:     b.settings.EvalSameSpin,
		StrictOneAtATime: b.settings.StrictOneAtATime,
		Source:           b.source.Name(),
		DataSource:       b.settings.DataSource,
		TelemetryView:    tv,
		Health:           hv,
		Stats:            b.stats.Snapshot(),
		Guard:            b.guard.View(now),
		Regime:           b.regime.View(),
	}
	v.Probs.W, v.Probs.R, v.Probs.B = pct(probs.W), pct(probs.R), pct(probs.B)
	v.Probs.Rec.Target, v.Probs.Rec.P = probs.Rec, pct(probs.RecP)

	var pWin *float64
	odds := b.netOddsColor
	if b.trade != nil {
		t := *b.trade
		v.OpenTrade = &t
		if t.Confidence > 0 {
			c := t.Confidence
			pWin = &c
		}
		if t.Kind == models.KindWhite {
			odds = b.netOddsWhite
		}
	}
	v.Stake = StakeView{Bankroll: b.bankroll.Bank(), Suggested: b.bankroll.Stake(pWin, odds)}
	if in, ok := b.source.(service.Inspector); ok {
		ia := in.Insight()
		v.IA = &ia
	}
	return v
}
