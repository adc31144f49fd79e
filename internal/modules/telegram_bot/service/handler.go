package service

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

const helpText = "Команды:\n" +
	"/status — состояние\n" +
	"/on, /off — включить/выключить бота\n" +
	"/mode BRANCO|CORES — режим\n" +
	"/risk conservador|agressivo\n" +
	"/preset safe|mid|aggr"

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}
	chatID := msg.Chat.ID
	// управлять можно только из своего чата
	if t.chatID != 0 && chatID != t.chatID {
		return
	}

	reply := t.handleCommand(msg.Command(), msg.CommandArguments())
	if _, err := t.Send(ctx, chatID, reply); err != nil {
		logger.Error("[TG] reply: %v", err)
	}
}

func (t *Telegram) handleCommand(cmd, args string) string {
	var req models.ControlRequest
	switch cmd {
	case "start", "help":
		return helpText
	case "status":
		return formatState(t.ctrl.State())
	case "on", "off":
		v := cmd == "on"
		req.BotOn = &v
	case "mode":
		m := strings.ToUpper(arg(args))
		if _, ok := models.ParseMode(m); !ok {
			return "Режим: BRANCO или CORES"
		}
		req.Mode = &m
	case "risk":
		r := arg(args)
		if _, ok := models.ParseRisk(r); !ok {
			return "Риск: conservador или agressivo"
		}
		req.Risk = &r
	case "preset":
		p := strings.ToLower(arg(args))
		if _, ok := models.Presets[p]; !ok {
			return "Пресеты: safe, mid, aggr"
		}
		req.Preset = &p
	default:
		return helpText
	}
	t.ctrl.Control(req)
	return formatState(t.ctrl.State())
}
