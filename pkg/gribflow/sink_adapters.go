package gribflow

import (
	"errors"
	"fmt"
	"sync"

	"github.com/onnimonni/gribflow/internal/domain"
)

// ErrChannelSinkClosed is returned when a channel sink is written to after
// being closed.
var ErrChannelSinkClosed = errors.New("gribflow: channel sink closed")

// RowBatchSink is a plain function consuming ordered batches of rows.
type RowBatchSink func([]Row) error

// NewCallbackSink adapts a RowBatchSink into a full RowSink implementation
// so callers can plug arbitrary functions without defining structs.
func NewCallbackSink(name string, fn RowBatchSink) RowSink {
	if name == "" {
		name = "callback"
	}
	return &callbackSink{name: name, fn: fn}
}

// NewChannelSink exposes batches via a channel; it returns the sink, the
// read-only channel, and a close function the caller should invoke during
// shutdown.
func NewChannelSink(name string, buffer int) (RowSink, <-chan []Row, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan []Row, buffer)
	s := &channelSink{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return s, ch, func() { s.close() }
}

type callbackSink struct {
	name string
	fn   RowBatchSink
}

func (s *callbackSink) WriteRows(rows []domain.Row) error {
	if s.fn == nil {
		return fmt.Errorf("callback sink %q: nil handler", s.name)
	}
	if len(rows) == 0 {
		return nil
	}
	return s.fn(rows)
}

func (s *callbackSink) Name() string { return s.name }

type channelSink struct {
	name   string
	ch     chan []Row
	closed chan struct{}
	once   sync.Once
}

func (s *channelSink) WriteRows(rows []domain.Row) error {
	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	default:
	}

	if len(rows) == 0 {
		return nil
	}

	batch := append([]Row(nil), rows...)

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	case s.ch <- batch:
		return nil
	}
}

func (s *channelSink) Name() string { return s.name }

func (s *channelSink) close() {
	s.once.Do(func() {
		close(s.closed)
		close(s.ch)
	})
}
