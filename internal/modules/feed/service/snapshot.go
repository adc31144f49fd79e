package service

import (
	"context"

	"github.com/bytedance/sonic"

	health "signal_bot/internal/modules/health/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
)

// Ingester — куда коллектор отдаёт снапшоты. Реализует *runner.Bot.
type Ingester interface {
	Ingest(ctx context.Context, req runner.IngestRequest) runner.IngestResult
	SetDataSource(src string)
}

// DecodeSnapshot понимает три формы тела:
//
//	[5, 0, 12, ...]
//	{"history": [5, 0, 12, ...]}
//	{"records": [{"roll": 5}, {"roll": 0}, ...]}
func DecodeSnapshot(body []byte) ([]any, bool) {
	var v any
	if err := sonic.Unmarshal(body, &v); err != nil {
		return nil, false
	}
	switch x := v.(type) {
	case []any:
		return x, true
	case map[string]any:
		if h, ok := x["history"].([]any); ok {
			return h, true
		}
		if recs, ok := x["records"].([]any); ok {
			out := make([]any, 0, len(recs))
			for _, r := range recs {
				if m, ok := r.(map[string]any); ok {
					out = append(out, m["roll"])
				}
			}
			return out, true
		}
	}
	return nil, false
}

// push — общий хвост для стрима и поллера.
func push(ctx context.Context, in Ingester, state *health.State, tag string, body []byte) {
	snap, ok := DecodeSnapshot(body)
	if !ok {
		logger.Debug("[FEED] %s: unrecognized payload (%d bytes)", tag, len(body))
		return
	}
	res := in.Ingest(ctx, runner.IngestRequest{History: snap})
	if state != nil {
		state.Ingested(res.Added, res.Time)
	}
	if res.Added > 0 {
		logger.Debug("[FEED] %s: +%d", tag, res.Added)
	}
}
