package domain

import (
	"time"

	"github.com/google/uuid"
)

const welcomeText = "Hey, I'm your career assistant. Once you create your plan, ask me anything about your next steps."

// ChatMessage is one entry of the append-only chat log.
// Timestamp is epoch milliseconds, matching what browsers store. IDs are
// UUIDv7 strings, so they sort lexically in creation order.
type ChatMessage struct {
	ID        MessageID `json:"id" firestore:"id"`
	From      Role      `json:"from" firestore:"from"`
	Content   string    `json:"content" firestore:"content"`
	Timestamp int64     `json:"timestamp" firestore:"timestamp"`
}

// At returns the creation instant.
func (m ChatMessage) At() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// NewMessage builds a message with a time-ordered id.
func NewMessage(from Role, content string, at time.Time) ChatMessage {
	return ChatMessage{
		ID:        MessageID(newOrderedID()),
		From:      from,
		Content:   content,
		Timestamp: at.UnixMilli(),
	}
}

// WelcomeMessage is the assistant greeting seeded into a new state.
func WelcomeMessage(at time.Time) ChatMessage {
	return ChatMessage{
		ID:        WelcomeMessageID(at),
		From:      RoleAssistant,
		Content:   welcomeText,
		Timestamp: at.UnixMilli(),
	}
}

// PlanReadyMessage is appended once a plan is in place.
func PlanReadyMessage(profile Profile, at time.Time) ChatMessage {
	text := "Nice work, " + profile.NameOr("there") +
		"! I've mapped out a 12-month path toward " + profile.DesiredRoleOr("your next step") +
		". Let's focus on Month 1 first so it feels manageable."
	return NewMessage(RoleAssistant, text, at)
}

// Reassurance replies used when the assistant cannot produce an answer.
const (
	ReplyServiceUnavailable = "I had trouble reaching the AI service. For now, pick one small task from this month, mark it in progress, and I'll be ready with more guidance once the connection is back."
	ReplyEmpty              = "Let's focus on one or two small actions this week from your current month. Once you mark them complete, we'll decide together what's next."
)

// WelcomeMessageID is the id of the welcome message seeded at the given instant:
// a UUIDv7 for that millisecond with zero random bits, so it sorts before any
// message created at or after it and is the same on every seed.
func WelcomeMessageID(at time.Time) MessageID {
	var id uuid.UUID
	ms := uint64(at.UnixMilli())
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}
	id[6] = 0x70 // version 7
	id[8] = 0x80 // RFC 4122 variant
	return MessageID(id.String())
}

// newOrderedID returns a UUIDv7, whose text form sorts by creation time.
func newOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewPlanID returns a fresh plan id.
func NewPlanID() PlanID {
	return PlanID("plan-" + newOrderedID())
}
