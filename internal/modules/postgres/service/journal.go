package service

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"
)

const queueSize = 1024

const schema = `
CREATE TABLE IF NOT EXISTS signal_journal (
	id          BIGSERIAL PRIMARY KEY,
	trade_id    TEXT        NOT NULL,
	ts          TIMESTAMPTZ NOT NULL,
	mode        TEXT        NOT NULL,
	status      TEXT        NOT NULL,
	target      TEXT        NOT NULL,
	gale        INT         NOT NULL,
	max_gales   INT         NOT NULL,
	strategy    TEXT        NOT NULL,
	payload     JSONB       NOT NULL
);
CREATE INDEX IF NOT EXISTS signal_journal_trade_idx ON signal_journal (trade_id);
`

const insertSQL = `
INSERT INTO signal_journal (trade_id, ts, mode, status, target, gale, max_gales, strategy, payload)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Journal — журнал сигналов в postgres только на запись.
// Состояние бота из него не восстанавливается.
type Journal struct {
	tx    db.TxManager
	queue chan models.SignalEntry
}

func NewJournal(tx db.TxManager) *Journal {
	return &Journal{tx: tx, queue: make(chan models.SignalEntry, queueSize)}
}

func (j *Journal) EnsureSchema(ctx context.Context) error {
	return j.tx.RunMaster(ctx, func(ctx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctx, schema)
		return err
	})
}

// OnSignal не блокирует: при переполненной очереди запись теряется.
func (j *Journal) OnSignal(_ context.Context, e models.SignalEntry) {
	select {
	case j.queue <- e:
	default:
		logger.Warn("[JOURNAL] queue full, dropped %s %s", e.Status, e.TradeID)
	}
}

func (j *Journal) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-j.queue:
			if err := j.Append(ctx, e); err != nil {
				logger.Error("[JOURNAL] %v", err)
			}
		}
	}
}

func (j *Journal) Append(ctx context.Context, e models.SignalEntry) error {
	payload, err := sonic.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	return j.tx.RunMaster(ctx, func(ctx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctx, insertSQL,
			e.TradeID, e.TSISO, string(e.Mode), string(e.Status), string(e.Target),
			e.Step, e.MaxSteps, e.Strategy, string(payload))
		if err != nil {
			return fmt.Errorf("insert %s: %w", e.TradeID, err)
		}
		return nil
	})
}
