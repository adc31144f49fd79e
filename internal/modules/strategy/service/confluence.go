package service

import "signal_bot/internal/models"

// pickRepresentative: conservador — минимальная лесенка, agressivo — максимальная.
// При равенстве остаётся первая по порядку каталога.
func pickRepresentative(matches []Strategy, risk models.Risk) Strategy {
	if len(matches) == 0 {
		return nil
	}
	rep := matches[0]
	for _, s := range matches[1:] {
		if risk == models.RiskAggressive {
			if s.MaxSteps() > rep.MaxSteps() {
				rep = s
			}
		} else if s.MaxSteps() < rep.MaxSteps() {
			rep = s
		}
	}
	return rep
}

// SelectWhite — все совпавшие белые стратегии; нужно не меньше min совпадений.
func SelectWhite(catalog []Strategy, h History, min int, risk models.Risk) (models.Proposal, bool) {
	var matches []Strategy
	for _, s := range catalog {
		if _, ok := safeEvaluate(s, h); ok {
			matches = append(matches, s)
		}
	}
	if len(matches) == 0 || len(matches) < min {
		return models.Proposal{}, false
	}
	rep := pickRepresentative(matches, risk)
	return models.Proposal{
		Kind:       models.KindWhite,
		Target:     models.ColorWhite,
		Strategy:   rep.Name(),
		MaxSteps:   rep.MaxSteps(),
		Confluence: len(matches),
	}, true
}

// SelectColor — голосование за R/B. Ничья решается доминантой за 20.
func SelectColor(catalog []Strategy, h History, min int, risk models.Risk) (models.Proposal, bool) {
	votes := map[models.Color][]Strategy{}
	for _, s := range catalog {
		tgt, ok := safeEvaluate(s, h)
		if ok && tgt.IsColor() {
			votes[tgt] = append(votes[tgt], s)
		}
	}

	r, b := len(votes[models.ColorRed]), len(votes[models.ColorBlack])
	if min < 1 {
		min = 1
	}
	if r < min && b < min {
		return models.Proposal{}, false
	}

	target := models.ColorNone
	switch {
	case r > b:
		target = models.ColorRed
	case b > r:
		target = models.ColorBlack
	default:
		target = h.DominantColor20()
	}
	if target == models.ColorNone {
		return models.Proposal{}, false
	}
	// при ничьей доминанта может указать на цвет, за который никто не голосовал
	rep := pickRepresentative(votes[target], risk)
	if rep == nil {
		return models.Proposal{}, false
	}
	return models.Proposal{
		Kind:       models.KindColor,
		Target:     target,
		Strategy:   rep.Name(),
		MaxSteps:   rep.MaxSteps(),
		Confluence: len(votes[target]),
	}, true
}

// Confluence — источник по умолчанию: каталоги + пороги совпадений.
type Confluence struct {
	white []Strategy
	color []Strategy
}

func NewConfluence() *Confluence {
	return &Confluence{white: WhiteCatalog, color: ColorCatalog}
}

// NewConfluenceWith — для тестов и экспериментов с собственным каталогом.
func NewConfluenceWith(white, color []Strategy) *Confluence {
	return &Confluence{white: white, color: color}
}

func (c *Confluence) Name() string { return string(models.SourceConfluence) }

func (c *Confluence) Observe(History) {}

func (c *Confluence) Propose(h History, s models.Settings) (models.Proposal, bool) {
	if s.Mode == models.ModeWhite {
		return SelectWhite(c.white, h, s.ConfluenceWhite, s.Risk)
	}
	return SelectColor(c.color, h, s.ConfluenceColor, s.Risk)
}
