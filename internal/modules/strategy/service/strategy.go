package service

import (
	"fmt"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

// Strategy — чистый предикат над историей с фиксированной глубиной гейлов.
type Strategy interface {
	Name() string
	Kind() models.Kind
	MaxSteps() int
	// Evaluate: ok==true если условие выполнено; для белых Target всегда W.
	Evaluate(h History) (target models.Color, ok bool)
}

type checkFunc func(h History) (models.Color, bool)

// Predicate — строка каталога: имя, глубина и условие.
type Predicate struct {
	name     string
	kind     models.Kind
	maxSteps int
	check    checkFunc
}

func (p Predicate) Name() string      { return p.name }
func (p Predicate) Kind() models.Kind { return p.kind }
func (p Predicate) MaxSteps() int     { return p.maxSteps }

func (p Predicate) Evaluate(h History) (models.Color, bool) {
	return p.check(h)
}

func whiteRule(name string, maxSteps int, f func(h History) bool) Predicate {
	return Predicate{
		name:     name,
		kind:     models.KindWhite,
		maxSteps: maxSteps,
		check: func(h History) (models.Color, bool) {
			return models.ColorWhite, f(h)
		},
	}
}

func colorRule(name string, maxSteps int, f checkFunc) Predicate {
	return Predicate{name: name, kind: models.KindColor, maxSteps: maxSteps, check: f}
}

// safeEvaluate: паника внутри предиката == «не совпало».
func safeEvaluate(s Strategy, h History) (target models.Color, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("[STRAT] predicate %q failed: %v", s.Name(), fmt.Sprint(r))
			target, ok = models.ColorNone, false
		}
	}()
	return s.Evaluate(h)
}

// NewPredicate — правило вне встроенных каталогов.
func NewPredicate(name string, kind models.Kind, maxSteps int, check func(h History) (models.Color, bool)) Predicate {
	return Predicate{name: name, kind: kind, maxSteps: maxSteps, check: check}
}
