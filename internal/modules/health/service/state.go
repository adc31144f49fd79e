package service

import (
	"sync/atomic"
	"time"
)

// State — флаги для /readyz и /healthz. Пишут api и коллекторы.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	feedConnected atomic.Bool
	lastSpinUnix  atomic.Int64 // unix ms
	ingests       atomic.Int64
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetFeedConnected(v bool) { s.feedConnected.Store(v) }
func (s *State) FeedConnected() bool     { return s.feedConnected.Load() }

// Ingested — вызов на каждый /ingest; added>0 двигает время последнего спина.
func (s *State) Ingested(added int, at time.Time) {
	s.ingests.Add(1)
	s.ready.Store(true)
	if added > 0 {
		s.lastSpinUnix.Store(at.UnixMilli())
	}
}

func (s *State) Ingests() int64 { return s.ingests.Load() }

func (s *State) LastSpin() time.Time {
	u := s.lastSpinUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.UnixMilli(u)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
