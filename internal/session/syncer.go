package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/PabloGalante/compass-agent/internal/domain"
	"github.com/PabloGalante/compass-agent/internal/observability"
)

const (
	DefaultDebounce = 700 * time.Millisecond
	pushTimeout     = 15 * time.Second
)

var ErrSyncerClosed = errors.New("syncer closed")

// Syncer pushes the latest snapshot to a Remote once no new snapshot has
// arrived for the debounce delay. Only the most recent snapshot is kept.
// Enqueue never blocks on the network.
type Syncer struct {
	remote Remote
	delay  time.Duration

	mu     sync.Mutex
	latest *domain.AppState

	notify  chan struct{}
	flushes chan chan error
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func NewSyncer(remote Remote, delay time.Duration) *Syncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	s := &Syncer{
		remote:  remote,
		delay:   delay,
		notify:  make(chan struct{}, 1),
		flushes: make(chan chan error),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

// Enqueue replaces the pending snapshot and restarts the debounce timer.
func (s *Syncer) Enqueue(state domain.AppState) {
	s.mu.Lock()
	s.latest = &state
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Flush pushes the pending snapshot now and returns the push error, if any.
func (s *Syncer) Flush(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case s.flushes <- reply:
	case <-s.done:
		return ErrSyncerClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the goroutine. A snapshot still waiting on the timer is dropped.
func (s *Syncer) Close() {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
}

func (s *Syncer) run() {
	defer close(s.stopped)

	timer := time.NewTimer(s.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-s.notify:
			timer.Reset(s.delay)

		case <-timer.C:
			_ = s.pushLatest()

		case reply := <-s.flushes:
			timer.Stop()
			reply <- s.pushLatest()

		case <-s.done:
			return
		}
	}
}

func (s *Syncer) pushLatest() error {
	s.mu.Lock()
	state := s.latest
	s.latest = nil
	s.mu.Unlock()

	if state == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	log := observability.Logger()
	if err := s.remote.SaveState(ctx, *state); err != nil {
		log.Warn().Err(err).Msg("state push failed")
		return err
	}
	log.Debug().Str("stage", string(state.Stage)).Int("chat_len", len(state.Chat)).Msg("state pushed")
	return nil
}
