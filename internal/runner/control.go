package runner

import (
	"strings"

	"signal_bot/internal/models"
)

type ControlResponse struct {
	OK bool `json:"ok"`
	models.Settings
}

// Control применяет частичное обновление настроек атомарно.
// Пресет применяется первым, явные поля запроса его перекрывают.
// Установка режима (даже того же) снимает сделку и обнуляет кулдауны.
func (b *Bot) Control(req models.ControlRequest) ControlResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &b.settings
	if req.Preset != nil {
		name := strings.ToLower(strings.TrimSpace(*req.Preset))
		if p, ok := models.Presets[name]; ok {
			p.Apply(s)
			s.Preset = name
		}
	}
	if req.BotOn != nil {
		s.BotOn = *req.BotOn
	}
	if req.Mode != nil {
		if m, ok := models.ParseMode(*req.Mode); ok {
			s.Mode = m
			if b.trade != nil {
				b.logf("trade %s dropped by mode switch", b.trade.ID)
			}
			b.trade = nil
			b.coolWhite, b.coolColor = 0, 0
		}
	}
	if req.ConfluenceWhite != nil && *req.ConfluenceWhite >= 1 {
		s.ConfluenceWhite = *req.ConfluenceWhite
	}
	if req.ConfluenceColor != nil && *req.ConfluenceColor >= 1 {
		s.ConfluenceColor = *req.ConfluenceColor
	}
	if req.Risk != nil {
		if r, ok := models.ParseRisk(*req.Risk); ok {
			s.Risk = r
		}
	}
	if req.EvalSameSpin != nil {
		s.EvalSameSpin = *req.EvalSameSpin
	}
	if req.StrictOneAtATime != nil {
		s.StrictOneAtATime = *req.StrictOneAtATime
	}
	if req.DataSource != nil {
		s.DataSource = *req.DataSource
	}

	b.publishGauges()
	return ControlResponse{OK: true, Settings: *s}
}

// SetDataSource — коллекторы помечают, откуда идут данные.
func (b *Bot) SetDataSource(src string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settings.DataSource = src
}
