package models

type SourceType string

const (
	SourceConfluence SourceType = "confluence"
	SourceLearner    SourceType = "learner"
	SourceGenetic    SourceType = "genetic"
)

// Proposal — предложение открыть сделку от источника стратегий.
type Proposal struct {
	Kind       Kind
	Target     Color
	Strategy   string
	MaxSteps   int
	Confluence int
	Confidence float64 // 0 если источник не даёт вероятность
}
