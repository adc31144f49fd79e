package models

import "strings"

type Kind string

const (
	KindWhite Kind = "white"
	KindColor Kind = "color"
)

// Mode — какой тип сигналов бот ищет сейчас.
type Mode string

const (
	ModeWhite Mode = "BRANCO"
	ModeColor Mode = "CORES"
)

func (m Mode) Kind() Kind {
	if m == ModeWhite {
		return KindWhite
	}
	return KindColor
}

func ParseMode(s string) (Mode, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BRANCO", "WHITE":
		return ModeWhite, true
	case "CORES", "COLOR", "COLORS":
		return ModeColor, true
	}
	return "", false
}

func ModeOf(k Kind) Mode {
	if k == KindWhite {
		return ModeWhite
	}
	return ModeColor
}

// Risk — как выбирать представителя среди совпавших стратегий.
type Risk string

const (
	RiskConservative Risk = "conservador"
	RiskAggressive   Risk = "agressivo"
)

func ParseRisk(s string) (Risk, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "conservador", "conservative":
		return RiskConservative, true
	case "agressivo", "aggressive":
		return RiskAggressive, true
	}
	return "", false
}
