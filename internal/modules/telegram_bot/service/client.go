package service

import (
	"context"
	"fmt"
	"sync"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/internal/models"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
)

const queueSize = 256

// Controller — то, чем чат управляет ботом. Реализует *runner.Bot.
type Controller interface {
	Control(req models.ControlRequest) runner.ControlResponse
	State() runner.StateView
}

// Telegram рассылает сигналы в чат и принимает команды управления.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
	ctrl   Controller

	queue chan models.SignalEntry
	once  sync.Once
}

func NewTelegram(token string, chatID int64, ctrl Controller) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
		ctrl:   ctrl,
		queue:  make(chan models.SignalEntry, queueSize),
	}, nil
}

// OnSignal не блокирует: при переполненной очереди запись теряется.
func (t *Telegram) OnSignal(_ context.Context, e models.SignalEntry) {
	select {
	case t.queue <- e:
	default:
		logger.Warn("[TG] queue full, dropped %s %s", e.Status, e.TradeID)
	}
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	m := tgbot.NewMessage(chatID, msg)
	m.ParseMode = tgbot.ModeMarkdown
	return t.bot.Send(m)
}

func (t *Telegram) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error) {
	return t.Send(ctx, chatID, fmt.Sprintf(format, args...))
}

// Start запускает отправку сигналов и цикл обновлений.
func (t *Telegram) Start(ctx context.Context) {
	go t.sendLoop(ctx)
	go t.updatesLoop(ctx)
}

func (t *Telegram) Stop() {
	t.once.Do(t.bot.StopReceivingUpdates)
}

func (t *Telegram) sendLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-t.queue:
			if t.chatID == 0 {
				continue
			}
			if _, err := t.Send(ctx, t.chatID, FormatSignal(e)); err != nil {
				logger.Error("[TG] send: %v", err)
			}
		}
	}
}

func (t *Telegram) updatesLoop(ctx context.Context) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			t.handleUpdate(ctx, update)
		}
	}
}

// LogNotifier — когда токена нет: сигналы только в лог.
type LogNotifier struct{}

func (LogNotifier) OnSignal(_ context.Context, e models.SignalEntry) {
	logger.Info("[SIGNAL] %s", FormatSignal(e))
}
