package service

import (
	"fmt"
	"strings"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/runner"
)

func statusIcon(s models.Status) string {
	switch s {
	case models.StatusAnalyzing:
		return "🔎"
	case models.StatusOpen:
		return "🎯"
	case models.StatusGale:
		return "🔁"
	case models.StatusWin:
		return "✅"
	case models.StatusLoss:
		return "❌"
	}
	return "•"
}

func FormatSignal(e models.SignalEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s* %s\n", statusIcon(e.Status), strings.ToUpper(string(e.Status)), e.Label)
	fmt.Fprintf(&b, "Стратегия: `%s`\n", e.Strategy)
	if e.Came != nil {
		fmt.Fprintf(&b, "Выпало: `%d` (%s)\n", *e.Came, e.CameColor.Name())
	}
	fmt.Fprintf(&b, "Гейл: `%d/%d`", e.Step, e.MaxSteps)
	if e.Status.Closing() && !e.TradeStartedAt.IsZero() {
		fmt.Fprintf(&b, "\nДлительность: `%s`", e.TSISO.Sub(e.TradeStartedAt).Round(time.Second))
	}
	return b.String()
}

func formatState(v runner.StateView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*📊 Статус*\n\n")
	fmt.Fprintf(&b, "Бот: *%s*  Режим: `%s`\n", onOff(v.BotOn), v.Mode)
	fmt.Fprintf(&b, "Конфлюэнс: `%d/%d`  Риск: `%s`\n", v.Confluence.WhiteMin, v.Confluence.ColorMin, v.Confluence.Risk)
	fmt.Fprintf(&b, "Кулдауны: белый `%d`, цвет `%d`\n", v.Cooldowns.White, v.Cooldowns.Color)
	fmt.Fprintf(&b, "Раунд: `%d`  Спин: `%dms`\n", v.RoundID, v.AvgSpinMS)
	if t := v.OpenTrade; t != nil {
		fmt.Fprintf(&b, "Сделка: `%s` %s, гейл `%d/%d` (`%s`)\n", t.Target.Name(), t.Phase, t.Step, t.MaxSteps, t.Strategy)
	} else {
		b.WriteString("Сделки нет\n")
	}
	if v.Guard.Paused {
		b.WriteString("⏸ Пауза после серии проигрышей\n")
	}
	fmt.Fprintf(&b, "Винрейт: `%s`  Ставка: `%s`", f2(v.Regime.Winrate), v.Stake.Suggested.StringFixed(2))
	return b.String()
}
