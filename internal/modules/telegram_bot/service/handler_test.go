package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
)

type fakeController struct {
	reqs  []models.ControlRequest
	state runner.StateView
}

func (f *fakeController) Control(req models.ControlRequest) runner.ControlResponse {
	f.reqs = append(f.reqs, req)
	if req.BotOn != nil {
		f.state.BotOn = *req.BotOn
	}
	if req.Mode != nil {
		f.state.Mode = models.Mode(*req.Mode)
	}
	return runner.ControlResponse{OK: true}
}

func (f *fakeController) State() runner.StateView { return f.state }

func TestHandleCommand(t *testing.T) {
	ctrl := &fakeController{state: runner.StateView{Mode: models.ModeColor}}
	tg := &Telegram{ctrl: ctrl}

	assert.Equal(t, helpText, tg.handleCommand("help", ""))
	assert.Equal(t, helpText, tg.handleCommand("unknown", ""))
	assert.Empty(t, ctrl.reqs)

	out := tg.handleCommand("on", "")
	require.Len(t, ctrl.reqs, 1)
	require.NotNil(t, ctrl.reqs[0].BotOn)
	assert.True(t, *ctrl.reqs[0].BotOn)
	assert.Contains(t, out, "Бот: *вкл*")
	assert.Contains(t, out, "Сделки нет")

	tg.handleCommand("mode", "branco extra")
	require.Len(t, ctrl.reqs, 2)
	assert.Equal(t, "BRANCO", *ctrl.reqs[1].Mode)

	assert.Equal(t, "Режим: BRANCO или CORES", tg.handleCommand("mode", "roleta"))
	assert.Equal(t, "Риск: conservador или agressivo", tg.handleCommand("risk", ""))
	assert.Equal(t, "Пресеты: safe, mid, aggr", tg.handleCommand("preset", "turbo"))
	assert.Len(t, ctrl.reqs, 2, "невалидные аргументы не доходят до бота")

	tg.handleCommand("preset", "SAFE")
	require.Len(t, ctrl.reqs, 3)
	assert.Equal(t, "safe", *ctrl.reqs[2].Preset)

	tg.handleCommand("risk", "agressivo")
	require.Len(t, ctrl.reqs, 4)
	assert.Equal(t, "agressivo", *ctrl.reqs[3].Risk)
}

func TestFormatState_OpenTrade(t *testing.T) {
	v := runner.StateView{BotOn: true, Mode: models.ModeColor}
	v.OpenTrade = &models.Trade{Target: models.ColorBlack, Phase: models.PhaseOpen, Step: 1, MaxSteps: 2, Strategy: "GA repeat_pattern(3)#ab"}
	v.Guard.Paused = true

	out := formatState(v)
	assert.Contains(t, out, "Сделка: `PRETO` open, гейл `1/2` (`GA repeat_pattern(3)#ab`)")
	assert.Contains(t, out, "Пауза")
}

func TestFormatSignal(t *testing.T) {
	came := models.Outcome(9)
	e := models.SignalEntry{
		Status: models.StatusLoss, Label: "PRETO — GALE 2", Strategy: "Repeat 2->3",
		Step: 2, MaxSteps: 2, Came: &came, CameColor: models.ColorBlack,
	}
	out := FormatSignal(e)
	assert.Contains(t, out, "❌ *LOSS* PRETO — GALE 2")
	assert.Contains(t, out, "Выпало: `9` (PRETO)")
	assert.Contains(t, out, "Гейл: `2/2`")
	assert.NotContains(t, out, "Длительность")

	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e.TradeStartedAt, e.TSISO = start, start.Add(36*time.Second)
	assert.Contains(t, FormatSignal(e), "Длительность: `36s`")

	out = FormatSignal(models.SignalEntry{Status: models.StatusOpen})
	assert.Contains(t, out, "🎯 *OPEN*")
	assert.NotContains(t, out, "Выпало")
}

func TestOnSignal_DropsWhenFull(t *testing.T) {
	logger.UseNop()
	tg := &Telegram{queue: make(chan models.SignalEntry, 1)}

	tg.OnSignal(context.Background(), models.SignalEntry{TradeID: "a"})
	tg.OnSignal(context.Background(), models.SignalEntry{TradeID: "b"})

	require.Len(t, tg.queue, 1)
	assert.Equal(t, "a", (<-tg.queue).TradeID)
}

func TestArg(t *testing.T) {
	assert.Equal(t, "x", arg("  x y "))
	assert.Equal(t, "", arg("   "))
}
