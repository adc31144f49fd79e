package service

import (
	"math/rand"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"
)

// Source — откуда берутся предложения открыть сделку.
type Source interface {
	Name() string
	// Observe вызывается после каждого добавленного исхода.
	Observe(h History)
	Propose(h History, s models.Settings) (models.Proposal, bool)
}

// Insight — что обучаемый источник показывает в /state.
type Insight struct {
	Epsilon     *float64 `json:"epsilon,omitempty"`
	Generation  *int     `json:"generation,omitempty"`
	Active      string   `json:"active,omitempty"`
	ActiveScore *float64 `json:"active_score,omitempty"`
}

// Inspector — источник с внутренним состоянием.
type Inspector interface {
	Insight() Insight
}

func NewSource(cfg *config.Config) Source { return NewSourceWithRand(cfg, nil) }

// NewSourceWithRand — с заданным генератором, для воспроизводимых прогонов.
func NewSourceWithRand(cfg *config.Config, rnd *rand.Rand) Source {
	switch models.SourceType(cfg.Strategy.Source) {
	case models.SourceLearner:
		return NewLearner(LearnerConfig{
			LR:            cfg.Learner.LR,
			L2:            cfg.Learner.L2,
			Alpha:         cfg.Learner.Alpha,
			EpsStart:      cfg.Learner.EpsStart,
			EpsMin:        cfg.Learner.EpsMin,
			EpsDecay:      cfg.Learner.EpsDecay,
			MinConfidence: cfg.Learner.MinConfidence,
			MaxSteps:      cfg.Learner.MaxSteps,
		}, rnd)
	case models.SourceGenetic:
		return NewGenetic(GeneticConfig{
			Population:   cfg.Genetic.Population,
			Parents:      cfg.Genetic.Parents,
			Horizon:      cfg.Genetic.Horizon,
			Every:        cfg.Genetic.Every,
			PromoteScore: cfg.Genetic.PromoteScore,
			DemoteScore:  cfg.Genetic.DemoteScore,
			MaxSteps:     cfg.Genetic.MaxSteps,
		}, rnd)
	case models.SourceConfluence:
	default:
		logger.Warn("[STRAT] unknown source %q, fallback to confluence", cfg.Strategy.Source)
	}
	return NewConfluence()
}
