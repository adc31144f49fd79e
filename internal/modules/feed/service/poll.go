package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	health "signal_bot/internal/modules/health/service"
	"signal_bot/pkg/logger"
)

// Poller раз в every забирает окно последних результатов по HTTP.
type Poller struct {
	url    string
	every  time.Duration
	client *resty.Client
	in     Ingester
	state  *health.State
}

func NewPoller(url string, every time.Duration, in Ingester, state *health.State) *Poller {
	if every <= 0 {
		every = 3 * time.Second
	}
	client := resty.New().
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json")
	return &Poller{url: url, every: every, client: client, in: in, state: state}
}

func (p *Poller) Run(ctx context.Context) {
	p.in.SetDataSource("poll")
	t := time.NewTicker(p.every)
	defer t.Stop()
	for {
		if err := p.Once(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("[POLL] %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// Once — один запрос и передача снапшота боту.
func (p *Poller) Once(ctx context.Context) error {
	resp, err := p.client.R().SetContext(ctx).Get(p.url)
	if err != nil {
		if p.state != nil {
			p.state.SetFeedConnected(false)
		}
		return fmt.Errorf("get %s: %w", p.url, err)
	}
	if resp.IsError() {
		if p.state != nil {
			p.state.SetFeedConnected(false)
		}
		return fmt.Errorf("get %s: status %d", p.url, resp.StatusCode())
	}
	if p.state != nil {
		p.state.SetFeedConnected(true)
	}
	push(ctx, p.in, p.state, "poll", resp.Body())
	return nil
}
