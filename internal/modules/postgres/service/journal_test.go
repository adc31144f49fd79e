package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"
)

type execCall struct {
	sql  string
	args []any
}

// fakeTx — TxManager и Transaction в одном, запоминает Exec.
type fakeTx struct {
	mu    sync.Mutex
	calls []execCall
	err   error
}

func (f *fakeTx) RunMaster(ctx context.Context, fn func(context.Context, db.Transaction) error) error {
	return fn(ctx, f)
}

func (f *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	return pgconn.CommandTag{}, f.err
}

func (f *fakeTx) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTx) QueryRow(context.Context, string, ...interface{}) pgx.Row { return nil }

func (f *fakeTx) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func entry(id string, status models.Status) models.SignalEntry {
	return models.SignalEntry{
		TradeID: id, TSISO: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Mode: models.ModeColor, Target: models.ColorRed, Status: status,
		Step: 1, MaxSteps: 2, Strategy: "Repeat 2->3",
	}
}

func TestJournal_EnsureSchema(t *testing.T) {
	tx := &fakeTx{}
	require.NoError(t, NewJournal(tx).EnsureSchema(context.Background()))
	require.Len(t, tx.calls, 1)
	assert.Contains(t, tx.calls[0].sql, "CREATE TABLE IF NOT EXISTS signal_journal")
}

func TestJournal_Append(t *testing.T) {
	tx := &fakeTx{}
	j := NewJournal(tx)

	require.NoError(t, j.Append(context.Background(), entry("t1", models.StatusGale)))
	require.Len(t, tx.calls, 1)
	c := tx.calls[0]
	assert.Equal(t, insertSQL, c.sql)
	require.Len(t, c.args, 9)
	assert.Equal(t, "t1", c.args[0])
	assert.Equal(t, "CORES", c.args[2])
	assert.Equal(t, "GALE", c.args[3])
	assert.Equal(t, "R", c.args[4])
	assert.Equal(t, 1, c.args[5])

	var payload map[string]any
	require.NoError(t, sonic.UnmarshalString(c.args[8].(string), &payload))
	assert.Equal(t, "Repeat 2->3", payload["strategy"])
}

func TestJournal_AppendError(t *testing.T) {
	tx := &fakeTx{err: errors.New("db down")}
	err := NewJournal(tx).Append(context.Background(), entry("t9", models.StatusWin))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "t9")
	assert.Contains(t, err.Error(), "db down")
}

func TestJournal_RunDrainsQueue(t *testing.T) {
	logger.UseNop()
	tx := &fakeTx{}
	j := NewJournal(tx)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()

	j.OnSignal(ctx, entry("a", models.StatusAnalyzing))
	j.OnSignal(ctx, entry("a", models.StatusOpen))
	require.Eventually(t, func() bool { return tx.count() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestJournal_OnSignalDropsWhenFull(t *testing.T) {
	logger.UseNop()
	j := &Journal{tx: &fakeTx{}, queue: make(chan models.SignalEntry, 1)}
	j.OnSignal(context.Background(), entry("a", models.StatusWin))
	j.OnSignal(context.Background(), entry("b", models.StatusWin))
	assert.Len(t, j.queue, 1)
}
