package service

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	health "signal_bot/internal/modules/health/service"
	"signal_bot/pkg/logger"
)

const pingEvery = 20 * time.Second

// Stream читает снапшоты из websocket коллектора и переподключается
// с фиксированной паузой, пока жив ctx.
type Stream struct {
	url       string
	reconnect time.Duration
	dialer    *websocket.Dialer
	in        Ingester
	state     *health.State
}

func NewStream(url string, reconnect time.Duration, in Ingester, state *health.State) *Stream {
	if reconnect <= 0 {
		reconnect = time.Second
	}
	return &Stream{
		url:       url,
		reconnect: reconnect,
		dialer:    &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		in:        in,
		state:     state,
	}
}

func (s *Stream) Run(ctx context.Context) {
	s.in.SetDataSource("ws")
	for {
		if err := s.session(ctx); err != nil {
			logger.Warn("[WS] %s: %v", s.url, err)
		}
		if s.state != nil {
			s.state.SetFeedConnected(false)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.reconnect):
		}
	}
}

// session — одно подключение: read-loop до ошибки или отмены ctx.
func (s *Stream) session(ctx context.Context) error {
	logger.Info("[WS] connect %s", s.url)
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	if s.state != nil {
		s.state.SetFeedConnected(true)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(pingEvery)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				// разблокирует ReadMessage
				_ = conn.Close()
				return
			case <-done:
				return
			case <-t.C:
				_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		push(ctx, s.in, s.state, "ws", msg)
	}
}
