package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	chatTelegramENV   = "TELEGRAM_CHAT_ID"
	databaseDSN       = "DATABASE_DSN"
	httpAddrENV       = "HTTP_ADDR"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Name      string `yaml:"name"`
		HTTPAddr  string `yaml:"http_addr"`
		AdminAddr string `yaml:"admin_addr"`
	} `yaml:"service"`

	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"log"`

	Tracing struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"tracing"`

	// Стартовые значения, дальше меняются через /control
	Bot struct {
		StartOn          bool   `yaml:"start_on"`
		Mode             string `yaml:"mode"` // BRANCO | CORES
		ConfluenceWhite  int    `yaml:"confluence_white"`
		ConfluenceColor  int    `yaml:"confluence_color"`
		Risk             string `yaml:"risk"` // conservador | agressivo
		EvalSameSpin     bool   `yaml:"eval_same_spin"`
		StrictOneAtATime bool   `yaml:"strict_one_at_a_time"`
	} `yaml:"bot"`

	Engine struct {
		HistoryMax    int `yaml:"history_max"`
		SignalsMax    int `yaml:"signals_max"`
		OverlapMax    int `yaml:"overlap_max"`
		CooldownWhite int `yaml:"cooldown_white"`
		CooldownColor int `yaml:"cooldown_color"`
	} `yaml:"engine"`

	Strategy struct {
		Source       string `yaml:"source"` // confluence | learner | genetic
		InvertColors bool   `yaml:"invert_colors"`
	} `yaml:"strategy"`

	Learner struct {
		LR            float64 `yaml:"lr"`
		L2            float64 `yaml:"l2"`
		Alpha         float64 `yaml:"alpha"`
		EpsStart      float64 `yaml:"eps_start"`
		EpsMin        float64 `yaml:"eps_min"`
		EpsDecay      float64 `yaml:"eps_decay"`
		MinConfidence float64 `yaml:"min_confidence"`
		MaxSteps      int     `yaml:"max_gales"`
	} `yaml:"learner"`

	Genetic struct {
		Population   int     `yaml:"population"`
		Parents      int     `yaml:"parents"`
		Horizon      int     `yaml:"horizon"`
		Every        int     `yaml:"every"`
		PromoteScore float64 `yaml:"promote_score"`
		DemoteScore  float64 `yaml:"demote_score"`
		MaxSteps     int     `yaml:"max_gales"`
	} `yaml:"genetic"`

	Sim struct {
		Stake         float64 `yaml:"stake"`
		NetOddsColor  float64 `yaml:"net_odds_color"`
		NetOddsWhite  float64 `yaml:"net_odds_white"`
		Bankroll      float64 `yaml:"bankroll"`
		FracBase      float64 `yaml:"frac_base"`
		FracCap       float64 `yaml:"frac_cap"`
		DefaultSpinMS int     `yaml:"default_spin_ms"`
		LagWarnMS     int     `yaml:"lag_warn_ms"`
	} `yaml:"sim"`

	Guard struct {
		LossStreak int           `yaml:"loss_streak"`
		Pause      time.Duration `yaml:"pause"`
	} `yaml:"guard"`

	Regime struct {
		WinWindow  int     `yaml:"win_window"`
		EntWindow  int     `yaml:"ent_window"`
		EntThr     float64 `yaml:"ent_thr"`
		MinWinrate float64 `yaml:"min_winrate"`
		Gate       bool    `yaml:"gate"`
	} `yaml:"regime"`

	Feed struct {
		WSURL     string        `yaml:"ws_url"`
		PollURL   string        `yaml:"poll_url"`
		PollEvery time.Duration `yaml:"poll_every"`
		Reconnect time.Duration `yaml:"reconnect"`
		Source    string        `yaml:"source"`
	} `yaml:"feed"`

	// Прогрев источников стратегий записанной историей до старта коллекторов
	Bootstrap struct {
		HistoryFile string `yaml:"history_file"`
	} `yaml:"bootstrap"`
}

// Default — значения, совпадающие с исходным поведением бота.
func Default() Config {
	var c Config
	c.Service.Name = "signal_bot"
	c.Service.HTTPAddr = ":5000"
	c.Service.AdminAddr = ":8080"
	c.Log.Level = "info"
	c.Log.MaxSizeMB = 50
	c.Log.MaxBackups = 3

	c.Bot.Mode = "CORES"
	c.Bot.ConfluenceWhite = 2
	c.Bot.ConfluenceColor = 2
	c.Bot.Risk = "conservador"
	c.Bot.StrictOneAtATime = true

	c.Engine.HistoryMax = 600
	c.Engine.SignalsMax = 1000
	c.Engine.OverlapMax = 60
	c.Engine.CooldownWhite = 5
	c.Engine.CooldownColor = 2

	c.Strategy.Source = "confluence"

	c.Learner.LR = 0.05
	c.Learner.L2 = 1e-4
	c.Learner.Alpha = 0.7
	c.Learner.EpsStart = 0.12
	c.Learner.EpsMin = 0.02
	c.Learner.EpsDecay = 0.999
	c.Learner.MinConfidence = 0.5
	c.Learner.MaxSteps = 1

	c.Genetic.Population = 20
	c.Genetic.Parents = 10
	c.Genetic.Horizon = 300
	c.Genetic.Every = 10
	c.Genetic.PromoteScore = 0.6
	c.Genetic.DemoteScore = 0.45
	c.Genetic.MaxSteps = 1

	c.Sim.Stake = 1.0
	c.Sim.NetOddsColor = 1.0
	c.Sim.NetOddsWhite = 14.0
	c.Sim.Bankroll = 20.0
	c.Sim.FracBase = 0.01
	c.Sim.FracCap = 0.02
	c.Sim.DefaultSpinMS = 12000
	c.Sim.LagWarnMS = 25000

	c.Guard.LossStreak = 3
	c.Guard.Pause = 5 * time.Minute

	c.Regime.WinWindow = 60
	c.Regime.EntWindow = 10
	c.Regime.EntThr = 0.95
	c.Regime.MinWinrate = 0.48

	c.Feed.PollEvery = 3 * time.Second
	c.Feed.Reconnect = 5 * time.Second
	return c
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}

	config := Default()
	if err := LoadFile("configs/"+configFileName, &config); err != nil {
		return nil, err
	}
	applyEnv(&config)

	return &config, nil
}

// LoadFile декодирует yaml поверх уже заполненных значений.
func LoadFile(path string, config *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err = yaml.NewDecoder(file).Decode(config); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}
	return nil
}

func applyEnv(config *Config) {
	config.Telegram.Token = getenvDefault(tokenTelegramENV, config.Telegram.Token)
	if v := os.Getenv(chatTelegramENV); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Telegram.ChatID = id
		}
	}
	config.DB = getenvDefault(databaseDSN, config.DB)
	config.Service.HTTPAddr = getenvDefault(httpAddrENV, config.Service.HTTPAddr)
	config.Log.Level = getenvDefault("LOG_LEVEL", config.Log.Level)

	config.Bot.StartOn = boolFromEnv("BOT_ON", config.Bot.StartOn)
	config.Bot.Mode = getenvDefault("BOT_MODE", config.Bot.Mode)
	config.Bot.ConfluenceWhite = intFromEnv("CONFLUENCE_MIN_WHITE", config.Bot.ConfluenceWhite)
	config.Bot.ConfluenceColor = intFromEnv("CONFLUENCE_MIN_COLOR", config.Bot.ConfluenceColor)
	config.Bot.Risk = getenvDefault("SELECAO_RISCO", config.Bot.Risk)
	config.Bot.EvalSameSpin = boolFromEnv("EVAL_SAME_SPIN", config.Bot.EvalSameSpin)
	config.Bot.StrictOneAtATime = boolFromEnv("STRICT_ONE_AT_A_TIME", config.Bot.StrictOneAtATime)

	config.Engine.HistoryMax = intFromEnv("HISTORY_MAX", config.Engine.HistoryMax)
	config.Strategy.Source = getenvDefault("STRATEGY_SOURCE", config.Strategy.Source)
	config.Strategy.InvertColors = boolFromEnv("INVERT_COLORS", config.Strategy.InvertColors)

	config.Sim.Stake = floatFromEnv("SIM_STAKE", config.Sim.Stake)
	config.Sim.Bankroll = floatFromEnv("BANKROLL", config.Sim.Bankroll)
	config.Guard.Pause = durationFromEnv("GUARD_PAUSE", config.Guard.Pause.String())

	config.Feed.WSURL = getenvDefault("FEED_WS_URL", config.Feed.WSURL)
	config.Feed.PollURL = getenvDefault("FEED_POLL_URL", config.Feed.PollURL)
	config.Feed.PollEvery = durationFromEnv("FEED_POLL_EVERY", config.Feed.PollEvery.String())
	config.Bootstrap.HistoryFile = getenvDefault("BOOTSTRAP_HISTORY_FILE", config.Bootstrap.HistoryFile)
	config.Tracing.Host = getenvDefault("JAEGER_HOST", config.Tracing.Host)
	config.Tracing.Port = intFromEnv("JAEGER_PORT", config.Tracing.Port)
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "1" || v == "true" || v == "TRUE" {
			return true
		}
		if v == "0" || v == "false" || v == "FALSE" {
			return false
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
