package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"signal_bot/internal/modules/config"
)

// Settings — управляемые на лету параметры бота (POST /control).
type Settings struct {
	BotOn            bool   `json:"bot_on"`
	Mode             Mode   `json:"mode"`
	ConfluenceWhite  int    `json:"confluence_white"`
	ConfluenceColor  int    `json:"confluence_color"`
	Risk             Risk   `json:"risk"`
	EvalSameSpin     bool   `json:"eval_same_spin"`
	StrictOneAtATime bool   `json:"strict_one_at_a_time"`
	DataSource       string `json:"data_source"`
	Preset           string `json:"preset,omitempty"`
}

func NewSettingsFromDefaults(cfg *config.Config) Settings {
	s := Settings{
		BotOn:            cfg.Bot.StartOn,
		Mode:             ModeColor,
		ConfluenceWhite:  cfg.Bot.ConfluenceWhite,
		ConfluenceColor:  cfg.Bot.ConfluenceColor,
		Risk:             RiskConservative,
		EvalSameSpin:     cfg.Bot.EvalSameSpin,
		StrictOneAtATime: cfg.Bot.StrictOneAtATime,
		DataSource:       "unknown",
	}
	if m, ok := ParseMode(cfg.Bot.Mode); ok {
		s.Mode = m
	}
	if r, ok := ParseRisk(cfg.Bot.Risk); ok {
		s.Risk = r
	}
	if s.ConfluenceWhite < 1 {
		s.ConfluenceWhite = 1
	}
	if s.ConfluenceColor < 1 {
		s.ConfluenceColor = 1
	}
	return s
}

// ControlRequest — частичное обновление настроек. nil-поле не трогаем.
type ControlRequest struct {
	BotOn            *bool
	Mode             *string
	ConfluenceWhite  *int
	ConfluenceColor  *int
	Risk             *string
	EvalSameSpin     *bool
	StrictOneAtATime *bool
	DataSource       *string
	Preset           *string
}

// ParseControlRequest разбирает произвольный JSON-объект поле за полем.
// Поле неверного типа пропускается, остальные применяются.
func ParseControlRequest(data map[string]any) ControlRequest {
	var r ControlRequest
	if v, ok := data["bot_on"]; ok {
		b := truthy(v)
		r.BotOn = &b
	}
	if v, ok := data["mode"]; ok && v != nil {
		s := fmt.Sprint(v)
		r.Mode = &s
	}
	if v, ok := data["confluence_white"]; ok {
		if n, ok := toInt(v); ok {
			r.ConfluenceWhite = &n
		}
	}
	if v, ok := data["confluence_color"]; ok {
		if n, ok := toInt(v); ok {
			r.ConfluenceColor = &n
		}
	}
	if v, ok := data["risk"].(string); ok {
		r.Risk = &v
	}
	if v, ok := data["eval_same_spin"]; ok {
		b := truthy(v)
		r.EvalSameSpin = &b
	}
	if v, ok := data["strict_one_at_a_time"]; ok {
		b := truthy(v)
		r.StrictOneAtATime = &b
	}
	if v, ok := data["data_source"]; ok && v != nil {
		s := fmt.Sprint(v)
		r.DataSource = &s
	}
	if v, ok := data["preset"].(string); ok {
		r.Preset = &v
	}
	return r
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	}
	return 0, false
}
