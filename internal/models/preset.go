package models

type Preset struct {
	Name        string
	Description string
	Apply       func(s *Settings)
}

var Presets = map[string]Preset{
	"safe": {
		Name:        "🟢 Консервативный",
		Description: "Больше совпадений, короткая лесенка гейлов",
		Apply: func(s *Settings) {
			s.ConfluenceWhite = 4
			s.ConfluenceColor = 4
			s.Risk = RiskConservative
			s.StrictOneAtATime = true
		},
	},
	"mid": {
		Name:        "🟡 Средний",
		Description: "Значения по умолчанию",
		Apply: func(s *Settings) {
			s.ConfluenceWhite = 2
			s.ConfluenceColor = 2
			s.Risk = RiskConservative
		},
	},
	"aggr": {
		Name:        "🔴 Агрессивный",
		Description: "Мало совпадений, длинная лесенка гейлов",
		Apply: func(s *Settings) {
			s.ConfluenceWhite = 1
			s.ConfluenceColor = 1
			s.Risk = RiskAggressive
		},
	},
}
