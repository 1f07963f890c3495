package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/compass-agent/internal/app/assistant"
	"github.com/PabloGalante/compass-agent/internal/domain"
	"github.com/PabloGalante/compass-agent/internal/observability"
)

var ErrEmptyMessage = errors.New("message is empty")

// Flags reports the requests currently in flight.
type Flags struct {
	GeneratingPlan bool
	SendingChat    bool
}

// Session is the client-side state container. Every mutation goes through
// domain.Reduce behind one mutex; network calls run without the lock, so
// requests may overlap and their results land in completion order.
type Session struct {
	plans    PlanSource
	chat     ChatSource
	debounce time.Duration
	now      func() time.Time

	mu         sync.Mutex
	state      domain.AppState
	userID     domain.UserID
	remote     Remote
	syncer     *Syncer
	restored   bool
	generating int
	sending    int
}

type Option func(*Session)

// WithDebounce sets the delay between the last mutation and the push.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.debounce = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New returns an anonymous, purely local session.
func New(plans PlanSource, chat ChatSource, opts ...Option) *Session {
	s := &Session{
		plans:    plans,
		chat:     chat,
		debounce: DefaultDebounce,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = domain.NewAppState(s.now())
	return s
}

// State returns a copy of the current snapshot.
func (s *Session) State() domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Session) UserID() domain.UserID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Session) InFlight() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Flags{GeneratingPlan: s.generating > 0, SendingChat: s.sending > 0}
}

// SetIdentity switches the signed-in user. A different identity resets the
// state to its defaults and re-arms the restore; pushes still waiting for the
// previous identity are dropped. An empty userID makes the session local only.
func (s *Session) SetIdentity(userID domain.UserID, remote Remote) {
	s.mu.Lock()
	if userID == s.userID {
		s.mu.Unlock()
		return
	}

	old := s.syncer
	s.userID = userID
	s.remote = nil
	s.syncer = nil
	s.restored = false
	s.state = domain.NewAppState(s.now())
	if userID != "" && remote != nil {
		s.remote = remote
		s.syncer = NewSyncer(remote, s.debounce)
	}
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
}

// Restore pulls the saved snapshot once per identity and merges it into the
// local state. Pushes are held until it has run, whether or not it succeeded.
func (s *Session) Restore(ctx context.Context) error {
	s.mu.Lock()
	remote, userID := s.remote, s.userID
	if remote == nil || s.restored {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With().Str("user_id", string(userID)).Logger()

	saved, err := remote.LoadState(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID != userID || s.restored {
		return nil
	}
	s.restored = true

	if err != nil {
		log.Warn().Err(err).Msg("state restore failed")
		return fmt.Errorf("restore state: %w", err)
	}
	if len(saved) == 0 {
		log.Debug().Msg("no saved state")
		return nil
	}

	merged, err := domain.MergeJSON(s.state, saved)
	if err != nil {
		log.Warn().Err(err).Msg("saved state unreadable")
		return fmt.Errorf("restore state: %w", err)
	}
	s.state = merged
	log.Info().Str("stage", string(s.state.Stage)).Msg("state restored")
	return nil
}

// Dispatch applies an action and schedules a push of the result.
func (s *Session) Dispatch(a domain.Action) domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(a)
}

func (s *Session) applyLocked(a domain.Action) domain.AppState {
	s.state = domain.Reduce(s.state, a)
	if s.syncer != nil && s.restored {
		s.syncer.Enqueue(s.state.Clone())
	}
	return s.state.Clone()
}

// SubmitProfile requests a plan for the onboarding profile. When the service
// fails for any reason the template plan is installed instead, so onboarding
// always completes. The returned bool reports whether the fallback was used.
func (s *Session) SubmitProfile(ctx context.Context, profile domain.Profile) (domain.AppState, bool, error) {
	if err := profile.Validate(); err != nil {
		return s.State(), false, err
	}

	s.mu.Lock()
	s.generating++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.generating--
		s.mu.Unlock()
	}()

	log := observability.LoggerFromContext(ctx)

	fallback := false
	plan, err := s.plans.GeneratePlan(ctx, profile)
	if err != nil || plan == nil {
		log.Warn().Err(err).Msg("plan generation failed, using template plan")
		plan = domain.FallbackPlan(profile, s.now())
		fallback = true
	}

	state := s.Dispatch(domain.PlanGenerated{Profile: profile, Plan: plan, At: s.now()})
	return state, fallback, nil
}

// SendMessage appends the user's message, asks for a reply and appends it.
// A failed request yields a reassurance message rather than an error.
func (s *Session) SendMessage(ctx context.Context, text string) (domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, ErrEmptyMessage
	}

	s.mu.Lock()
	s.applyLocked(domain.AppendMessage{Message: domain.NewMessage(domain.RoleUser, text, s.now())})
	in := chatInput(s.state)
	s.sending++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.sending--
		s.mu.Unlock()
	}()

	reply, err := s.chat.Reply(ctx, in)
	switch {
	case err != nil:
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("chat request failed, using local reply")
		reply = domain.ReplyServiceUnavailable
	case strings.TrimSpace(reply) == "":
		reply = domain.ReplyEmpty
	}

	msg := domain.NewMessage(domain.RoleAssistant, reply, s.now())
	s.Dispatch(domain.AppendMessage{Message: msg})
	return msg, nil
}

// Flush pushes any pending snapshot immediately.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	syncer := s.syncer
	s.mu.Unlock()
	if syncer == nil {
		return nil
	}
	return syncer.Flush(ctx)
}

// Close stops background syncing. Call Flush first to keep pending changes.
func (s *Session) Close() {
	s.mu.Lock()
	syncer := s.syncer
	s.syncer = nil
	s.mu.Unlock()
	if syncer != nil {
		syncer.Close()
	}
}

// chatInput carries the whole chat log; the assistant trims it to its window.
func chatInput(state domain.AppState) assistant.Input {
	in := assistant.Input{
		Profile:  state.Profile,
		Plan:     state.Plan,
		Messages: make([]assistant.Turn, 0, len(state.Chat)),
	}
	if m, ok := state.SelectedMonth(); ok {
		id := m.ID
		in.SelectedMonthID = &id
	}
	for _, msg := range state.Chat {
		in.Messages = append(in.Messages, assistant.Turn{From: msg.From, Content: msg.Content})
	}
	return in
}
