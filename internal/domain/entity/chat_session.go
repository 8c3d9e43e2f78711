package entity

import (
	"time"

	"medibook-server/internal/wizard"

	"github.com/google/uuid"
)

// ChatMessage is one entry of the chat transcript. The transcript is
// append-only; messages are never mutated or removed except on full restart.
type ChatMessage struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Sender    wizard.Sender `json:"sender"`
	Timestamp time.Time     `json:"timestamp"`
	// DelayMs is a renderer hint for the simulated "thinking" pause that
	// precedes a system message.
	DelayMs int `json:"delay_ms,omitempty"`
}

// ChatSession is the state of one conversational wizard run.
type ChatSession struct {
	ID        uuid.UUID          `json:"id"`
	Step      wizard.ChatStep    `json:"step"`
	Data      wizard.Appointment `json:"data"`
	Messages  []ChatMessage      `json:"messages"`
	SMSStatus SMSStatus          `json:"sms_status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewChatSession creates a fresh session at the phone verification step.
func NewChatSession() *ChatSession {
	now := time.Now()
	return &ChatSession{
		ID:        uuid.New(),
		Step:      wizard.StepVerifyPhone,
		Messages:  []ChatMessage{},
		SMSStatus: SMSStatusIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddSystemMessage appends a system message with the given thinking delay.
func (s *ChatSession) AddSystemMessage(text string, delayMs int) {
	s.Messages = append(s.Messages, ChatMessage{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    wizard.SenderSystem,
		Timestamp: time.Now(),
		DelayMs:   delayMs,
	})
}

// AddUserMessage appends a user message immediately, with no delay hint.
func (s *ChatSession) AddUserMessage(text string) {
	s.Messages = append(s.Messages, ChatMessage{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    wizard.SenderUser,
		Timestamp: time.Now(),
	})
}
