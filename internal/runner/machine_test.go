package runner

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/strategy/service"
)

func TestBot_StreakContinuationWins(t *testing.T) {
	h := newHarness(t, streakCatalog(1), func(c *config.Config) { c.Bot.StartOn = false })

	h.spin(3, 3, 3)
	require.Nil(t, h.bot.Trade(), "выключенный бот не торгует")
	h.control(map[string]any{"bot_on": true})

	res := h.spin(3)
	assert.Equal(t, 1, res.Added)
	tr := h.bot.Trade()
	require.NotNil(t, tr)
	assert.Equal(t, models.PhaseAnalyzing, tr.Phase)
	assert.Equal(t, models.ColorRed, tr.Target)
	assert.Equal(t, 1, tr.MaxSteps)
	assert.Equal(t, 4, tr.OpenedAt)

	// без новых исходов ничего не меняется
	assert.Equal(t, 0, h.resend().Added)
	assert.Equal(t, models.PhaseAnalyzing, h.bot.Trade().Phase)

	h.spin(10)
	require.NotNil(t, h.bot.Trade())
	assert.Equal(t, models.PhaseOpen, h.bot.Trade().Phase)

	h.spin(2)
	assert.Nil(t, h.bot.Trade())
	white, color := h.bot.Cooldowns()
	assert.Equal(t, 0, white)
	assert.Equal(t, 2, color)

	assert.Equal(t, []models.Status{models.StatusAnalyzing, models.StatusOpen, models.StatusWin}, h.sink.statuses())
	sig := h.bot.Signals()
	require.Len(t, sig, 3)
	assert.Equal(t, models.StatusWin, sig[0].Status, "журнал отдаётся новыми первыми")
	require.NotNil(t, sig[0].Came)
	assert.Equal(t, models.Outcome(2), *sig[0].Came)
	assert.Equal(t, models.ColorRed, sig[0].CameColor)
	assert.Equal(t, "t1", sig[0].TradeID)
}

func TestBot_MartingaleEndsInLoss(t *testing.T) {
	h := newHarness(t, always(models.ColorBlack, 2), nil)

	h.spin(3)
	require.NotNil(t, h.bot.Trade())
	h.spin(3, 4, 5)
	require.NotNil(t, h.bot.Trade())
	assert.Equal(t, 2, h.bot.Trade().Step)

	h.spin(6)
	assert.Nil(t, h.bot.Trade())
	assert.Equal(t, []models.Status{
		models.StatusAnalyzing, models.StatusOpen, models.StatusGale, models.StatusGale, models.StatusLoss,
	}, h.sink.statuses())

	stats := h.bot.State().Stats
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Loss)
	assert.True(t, decimal.NewFromInt(-3).Equal(stats[0].PL), "pl=%s", stats[0].PL)
}

func TestBot_GaleThenWin(t *testing.T) {
	h := newHarness(t, always(models.ColorBlack, 2), nil)

	h.spin(3, 3, 4, 9)
	assert.Nil(t, h.bot.Trade())
	assert.Equal(t, []models.Status{
		models.StatusAnalyzing, models.StatusOpen, models.StatusGale, models.StatusWin,
	}, h.sink.statuses())
	assert.Equal(t, 1, h.bot.Signals()[0].Step)
}

func TestBot_CooldownBlocksOpening(t *testing.T) {
	h := newHarness(t, always(models.ColorRed, 1), nil)

	h.spin(1, 1, 1)
	require.Nil(t, h.bot.Trade())
	_, color := h.bot.Cooldowns()
	require.Equal(t, 2, color)

	h.spin(1)
	assert.Nil(t, h.bot.Trade())
	_, color = h.bot.Cooldowns()
	assert.Equal(t, 1, color)

	h.spin(1)
	require.NotNil(t, h.bot.Trade())
	assert.Equal(t, "t2", h.bot.Trade().ID)
}

func TestBot_WhiteCooldown(t *testing.T) {
	h := newHarness(t, always(models.ColorWhite, 0), func(c *config.Config) { c.Bot.Mode = "BRANCO" })

	h.spin(1, 1, 0)
	assert.Nil(t, h.bot.Trade())
	white, color := h.bot.Cooldowns()
	assert.Equal(t, 5, white)
	assert.Equal(t, 0, color)
	assert.Equal(t, models.StatusWin, h.bot.Signals()[0].Status)
}

func TestBot_ModeSwitchDropsTradeSilently(t *testing.T) {
	h := newHarness(t, always(models.ColorRed, 1), nil)

	h.spin(5)
	require.NotNil(t, h.bot.Trade())

	resp := h.control(map[string]any{"mode": "BRANCO"})
	assert.True(t, resp.OK)
	assert.Equal(t, models.ModeWhite, resp.Mode)
	assert.Nil(t, h.bot.Trade())

	// белых предложений нет, цветные в режиме BRANCO игнорируются
	h.spin(5, 5)
	assert.Nil(t, h.bot.Trade())
	assert.Equal(t, []models.Status{models.StatusAnalyzing}, h.sink.statuses())
}

func TestBot_ModeSwitchResetsCooldowns(t *testing.T) {
	h := newHarness(t, always(models.ColorRed, 0), nil)

	h.spin(1, 1, 1)
	_, color := h.bot.Cooldowns()
	require.Equal(t, 2, color)

	h.control(map[string]any{"mode": "CORES"})
	white, color := h.bot.Cooldowns()
	assert.Zero(t, white)
	assert.Zero(t, color)
}

func TestBot_OneTradeAtATime(t *testing.T) {
	for _, strict := range []bool{true, false} {
		h := newHarness(t, always(models.ColorRed, 2), func(c *config.Config) { c.Bot.StrictOneAtATime = strict })

		for i := 0; i < 60; i++ {
			h.spin(models.Outcome(i % 15))
			if i%3 == 0 {
				h.resend()
			}
		}

		open := ""
		for _, e := range h.sink.entries {
			switch {
			case e.Status == models.StatusAnalyzing:
				assert.Empty(t, open, "strict=%v: новая сделка при открытой %s", strict, open)
				open = e.TradeID
			case e.Status.Closing():
				assert.Equal(t, open, e.TradeID)
				open = ""
			default:
				assert.Equal(t, open, e.TradeID)
			}
		}
	}
}

func TestBot_OpensWithoutNewOutcomes(t *testing.T) {
	h := newHarness(t, streakCatalog(1), func(c *config.Config) { c.Bot.StartOn = false })

	h.spin(8, 8)
	require.Nil(t, h.bot.Trade())
	h.control(map[string]any{"bot_on": 1})

	res := h.resend()
	assert.Equal(t, 0, res.Added)
	require.NotNil(t, h.bot.Trade())
	assert.Equal(t, models.ColorBlack, h.bot.Trade().Target)
	assert.Equal(t, 2, h.bot.Trade().OpenedAt)
}

func TestBot_PanickingSourceIsContained(t *testing.T) {
	src := &fakeSource{propose: func(service.History, models.Settings) (models.Proposal, bool) {
		panic("boom")
	}}
	h := newHarness(t, src, nil)

	assert.NotPanics(t, func() { h.spin(1, 2, 3) })
	assert.Nil(t, h.bot.Trade())
	assert.Len(t, h.bot.History(), 3)
	assert.Equal(t, 3, src.observed)
}

func TestBot_WrongKindProposalIgnored(t *testing.T) {
	h := newHarness(t, always(models.ColorWhite, 1), nil)

	h.spin(1, 2)
	assert.Nil(t, h.bot.Trade())
}

func TestBot_InvalidValuesDropped(t *testing.T) {
	h := newHarness(t, nil, func(c *config.Config) { c.Bot.StartOn = false })

	res := h.bot.Ingest(context.Background(), IngestRequest{
		History: []any{float64(3), "7", float64(15), 2.5, nil, true, float64(0), float64(-1)},
	})
	assert.True(t, res.OK)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, outcomes(3, 0), h.bot.History())

	res = h.bot.Ingest(context.Background(), IngestRequest{History: []any{"x", nil}})
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, outcomes(3, 0), h.bot.History())
}

func TestBot_HistoryIsCapped(t *testing.T) {
	h := newHarness(t, nil, func(c *config.Config) {
		c.Bot.StartOn = false
		c.Engine.HistoryMax = 10
	})

	for i := 0; i < 25; i++ {
		h.spin(models.Outcome(i % 15))
	}
	hist := h.bot.History()
	require.Len(t, hist, 10)
	assert.Equal(t, models.Outcome(24%15), hist[9])
}

func TestBot_TradesResolveAfterHistoryCap(t *testing.T) {
	h := newHarness(t, always(models.ColorBlack, 0), func(c *config.Config) {
		c.Bot.StartOn = false
		c.Engine.HistoryMax = 5
	})

	h.spin(1, 1, 1, 1, 1, 1)
	require.Len(t, h.bot.History(), 5)
	h.control(map[string]any{"bot_on": true})

	h.spin(1)
	tr := h.bot.Trade()
	require.NotNil(t, tr)
	assert.Equal(t, 7, tr.OpenedAt)

	h.spin(1, 1)
	assert.Nil(t, h.bot.Trade(), "сделка закрывается и при полной истории")

	// кулдаун 2, затем вторая сделка и выигрыш
	h.spin(1, 1, 2, 9)
	assert.Nil(t, h.bot.Trade())
	assert.Equal(t, []models.Status{
		models.StatusAnalyzing, models.StatusOpen, models.StatusLoss,
		models.StatusAnalyzing, models.StatusOpen, models.StatusWin,
	}, h.sink.statuses())
	assert.Len(t, h.bot.History(), 5)
}

func TestBot_RepeatedSnapshotKeepsCooldown(t *testing.T) {
	h := newHarness(t, always(models.ColorRed, 0), nil)

	h.spin(1, 1, 1)
	require.Equal(t, models.StatusWin, h.bot.Signals()[0].Status)
	_, color := h.bot.Cooldowns()
	require.Equal(t, 2, color)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 0, h.resend().Added)
	}
	_, color = h.bot.Cooldowns()
	assert.Equal(t, 2, color, "повтор окна не тикает кулдаун")
	assert.Nil(t, h.bot.Trade())

	h.spin(1)
	assert.Nil(t, h.bot.Trade())
	h.spin(1)
	require.NotNil(t, h.bot.Trade())
	assert.Equal(t, "t2", h.bot.Trade().ID)
}

func TestBot_LossStreakPausesOpening(t *testing.T) {
	h := newHarness(t, always(models.ColorBlack, 0), func(c *config.Config) {
		c.Guard.LossStreak = 1
		c.Guard.Pause = time.Minute
	})

	h.spin(1, 1, 1)
	require.Equal(t, models.StatusLoss, h.bot.Signals()[0].Status)
	assert.True(t, h.bot.State().Guard.Paused)

	// кулдаун истёк, пауза ещё идёт
	h.spin(1, 1)
	assert.Nil(t, h.bot.Trade())

	h.clock = h.clock.Add(2 * time.Minute)
	h.spin(1)
	require.NotNil(t, h.bot.Trade())
	assert.False(t, h.bot.State().Guard.Paused)
}

func TestBot_RegimeGateBlocksUncertainProposals(t *testing.T) {
	conf := 0.5
	src := &fakeSource{propose: func(service.History, models.Settings) (models.Proposal, bool) {
		return models.Proposal{Kind: models.KindColor, Target: models.ColorRed, Strategy: "p", MaxSteps: 0, Confidence: conf}, true
	}}
	h := newHarness(t, src, func(c *config.Config) {
		c.Regime.Gate = true
		c.Regime.EntWindow = 1
		c.Regime.EntThr = 0.5
	})

	h.spin(1)
	assert.Nil(t, h.bot.Trade())

	conf = 0.99
	h.spin(1)
	require.NotNil(t, h.bot.Trade())
	assert.InDelta(t, 0.99, h.bot.Trade().Confidence, 1e-9)
}

func TestBot_EvalSameSpinKeepsConfirmationDelay(t *testing.T) {
	h := newHarness(t, always(models.ColorRed, 0), func(c *config.Config) { c.Bot.EvalSameSpin = true })

	h.spin(1)
	require.NotNil(t, h.bot.Trade())
	h.spin(8)
	require.NotNil(t, h.bot.Trade(), "первый исход после сигнала не оценивается")
	h.spin(2)
	assert.Nil(t, h.bot.Trade())
	assert.Equal(t, models.StatusWin, h.bot.Signals()[0].Status)
}

func TestBot_InvertedColors(t *testing.T) {
	h := newHarness(t, streakCatalog(0), func(c *config.Config) { c.Strategy.InvertColors = true })

	h.spin(3, 3)
	require.NotNil(t, h.bot.Trade())
	assert.Equal(t, models.ColorBlack, h.bot.Trade().Target)

	h.spin(3, 3)
	e := h.bot.Signals()[0]
	assert.Equal(t, models.StatusWin, e.Status)
	assert.Equal(t, models.ColorBlack, e.CameColor)
}

func TestBot_WarmupSeedsWithoutTrading(t *testing.T) {
	h := newHarness(t, always(models.ColorRed, 1), nil)

	n := h.bot.Warmup(outcomes(1, 2, 3, 99, 4))
	assert.Equal(t, 4, n)
	assert.Nil(t, h.bot.Trade())
	assert.Empty(t, h.sink.entries)

	res := h.bot.IngestSnapshot(context.Background(), outcomes(3, 4, 5))
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, outcomes(1, 2, 3, 4, 5), h.bot.History())
	assert.NotNil(t, h.bot.Trade())
}

func TestBot_SignalsCapped(t *testing.T) {
	h := newHarness(t, always(models.ColorRed, 0), func(c *config.Config) {
		c.Engine.SignalsMax = 5
		c.Engine.CooldownColor = 1
	})

	for i := 0; i < 40; i++ {
		h.spin(1)
	}
	assert.Len(t, h.bot.Signals(), 5)
	assert.Greater(t, len(h.sink.entries), 5)
}
