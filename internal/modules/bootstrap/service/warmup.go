package service

import (
	"fmt"
	"os"

	"signal_bot/internal/models"
	feed "signal_bot/internal/modules/feed/service"
)

// Warmer — куда грузим историю. Реализует *runner.Bot.
type Warmer interface {
	Warmup(outcomes []models.Outcome) int
}

// LoadHistory читает файл в любом из форматов коллектора
// (массив, {"history": [...]}, {"records": [{"roll": n}]}), старые первыми.
func LoadHistory(path string) ([]models.Outcome, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	raw, ok := feed.DecodeSnapshot(body)
	if !ok {
		return nil, fmt.Errorf("history %s: unsupported format", path)
	}
	return models.ParseOutcomes(raw), nil
}

// Warmup грузит файл в бота и возвращает число принятых исходов.
func Warmup(w Warmer, path string) (int, error) {
	outcomes, err := LoadHistory(path)
	if err != nil {
		return 0, err
	}
	return w.Warmup(outcomes), nil
}
