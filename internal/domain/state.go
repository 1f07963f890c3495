package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// AppState is the full per-user snapshot: the unit of persistence.
type AppState struct {
	Stage           Stage         `json:"stage" firestore:"stage"`
	Profile         *Profile      `json:"profile" firestore:"profile"`
	Plan            *Plan         `json:"plan" firestore:"plan"`
	SelectedMonthID *MonthID      `json:"selectedMonthId" firestore:"selectedMonthId"`
	Chat            []ChatMessage `json:"chat" firestore:"chat"`
}

// NewAppState returns the state every identity starts from.
func NewAppState(now time.Time) AppState {
	return AppState{
		Stage: StageOnboarding,
		Chat:  []ChatMessage{WelcomeMessage(now)},
	}
}

// Clone returns a deep copy. Chat is never nil so it always encodes as an array.
func (s AppState) Clone() AppState {
	out := AppState{
		Stage: s.Stage,
		Plan:  s.Plan.Clone(),
		Chat:  make([]ChatMessage, len(s.Chat)),
	}
	copy(out.Chat, s.Chat)
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	if s.SelectedMonthID != nil {
		id := *s.SelectedMonthID
		out.SelectedMonthID = &id
	}
	return out
}

// SelectedMonth resolves the selection, defaulting to month 1 when nothing is selected.
func (s AppState) SelectedMonth() (*Month, bool) {
	if s.Plan == nil {
		return nil, false
	}
	id := s.Plan.FirstMonthID()
	if s.SelectedMonthID != nil {
		id = *s.SelectedMonthID
	}
	return s.Plan.Month(id)
}

// Consistent reports whether the cross-field invariants hold.
func (s AppState) Consistent() error {
	if !s.Stage.Valid() {
		return fmt.Errorf("unknown stage %q", s.Stage)
	}
	if (s.Stage == StagePlan) != (s.Plan != nil) {
		return fmt.Errorf("stage %q does not match plan presence", s.Stage)
	}
	if s.SelectedMonthID != nil {
		if _, ok := s.Plan.Month(*s.SelectedMonthID); !ok {
			return fmt.Errorf("selected month %q not in plan", *s.SelectedMonthID)
		}
	}
	return nil
}

// MergeJSON applies a stored snapshot over the local state field by field.
// Fields the snapshot leaves out keep their local value, and an empty remote
// chat never replaces a non-empty local chat, so the seeded welcome message
// survives a stale or missing remote log.
func MergeJSON(local AppState, raw []byte) (AppState, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return local.Clone(), fmt.Errorf("%w: state must be an object", ErrInvalidState)
	}

	out := local.Clone()
	if err := decodeField(fields, "stage", &out.Stage); err != nil {
		return local.Clone(), err
	}
	if err := decodeField(fields, "profile", &out.Profile); err != nil {
		return local.Clone(), err
	}
	if err := decodeField(fields, "plan", &out.Plan); err != nil {
		return local.Clone(), err
	}
	if err := decodeField(fields, "selectedMonthId", &out.SelectedMonthID); err != nil {
		return local.Clone(), err
	}

	var chat []ChatMessage
	if err := decodeField(fields, "chat", &chat); err != nil {
		return local.Clone(), err
	}
	if len(chat) > 0 {
		out.Chat = chat
	}
	return out, nil
}

// decodeField decodes fields[key] into a fresh value and stores it in dst.
// Absent keys leave dst untouched.
func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) error {
	v, ok := fields[key]
	if !ok {
		return nil
	}
	var fresh T
	if err := json.Unmarshal(v, &fresh); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidState, key, err)
	}
	*dst = fresh
	return nil
}

// ParseAppState decodes a client-supplied snapshot after checking the shape
// the store accepts: a known stage, chat as an array, and selectedMonthId
// absent, null or a string.
func ParseAppState(raw []byte) (AppState, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return AppState{}, fmt.Errorf("%w: state must be an object", ErrInvalidState)
	}

	var stage string
	if err := json.Unmarshal(fields["stage"], &stage); err != nil || !Stage(stage).Valid() {
		return AppState{}, fmt.Errorf("%w: stage must be %q or %q", ErrInvalidState, StageOnboarding, StagePlan)
	}

	if chat := bytes.TrimSpace(fields["chat"]); len(chat) == 0 || chat[0] != '[' {
		return AppState{}, fmt.Errorf("%w: chat must be an array", ErrInvalidState)
	}

	if sel, ok := fields["selectedMonthId"]; ok {
		sel = bytes.TrimSpace(sel)
		if !bytes.Equal(sel, []byte("null")) && (len(sel) == 0 || sel[0] != '"') {
			return AppState{}, fmt.Errorf("%w: selectedMonthId must be a string or null", ErrInvalidState)
		}
	}

	var state AppState
	if err := json.Unmarshal(raw, &state); err != nil {
		return AppState{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if state.Chat == nil {
		state.Chat = []ChatMessage{}
	}
	return state, nil
}
