package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bot:
  start_on: true
  mode: BRANCO
  confluence_white: 3
engine:
  cooldown_white: 7
guard:
  pause: 90s
feed:
  ws_url: ws://collector/feed
`), 0o600))

	cfg := Default()
	require.NoError(t, LoadFile(path, &cfg))

	assert.True(t, cfg.Bot.StartOn)
	assert.Equal(t, "BRANCO", cfg.Bot.Mode)
	assert.Equal(t, 3, cfg.Bot.ConfluenceWhite)
	assert.Equal(t, 2, cfg.Bot.ConfluenceColor, "не указано в файле — остаётся по умолчанию")
	assert.Equal(t, 7, cfg.Engine.CooldownWhite)
	assert.Equal(t, 2, cfg.Engine.CooldownColor)
	assert.Equal(t, 90*time.Second, cfg.Guard.Pause)
	assert.Equal(t, "ws://collector/feed", cfg.Feed.WSURL)
}

func TestLoadFile_Errors(t *testing.T) {
	cfg := Default()
	assert.Error(t, LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bot: [unclosed"), 0o600))
	assert.Error(t, LoadFile(path, &cfg))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BOT_ON", "1")
	t.Setenv("CONFLUENCE_MIN_COLOR", "5")
	t.Setenv("EVAL_SAME_SPIN", "false")
	t.Setenv("SIM_STAKE", "2.5")
	t.Setenv("GUARD_PAUSE", "bogus")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("HISTORY_MAX", "x")

	cfg := Default()
	cfg.Bot.EvalSameSpin = true
	applyEnv(&cfg)

	assert.True(t, cfg.Bot.StartOn)
	assert.Equal(t, 5, cfg.Bot.ConfluenceColor)
	assert.False(t, cfg.Bot.EvalSameSpin)
	assert.Equal(t, 2.5, cfg.Sim.Stake)
	assert.Equal(t, 5*time.Minute, cfg.Guard.Pause, "невалидная длительность — прежнее значение")
	assert.Equal(t, int64(-100123), cfg.Telegram.ChatID)
	assert.Equal(t, 600, cfg.Engine.HistoryMax)
}
