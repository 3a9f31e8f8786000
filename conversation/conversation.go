// Package conversation holds the append-only message history of one
// generation session.
package conversation

import (
	"github.com/sweetpotato0/deepread/message"
)

// Conversation manages the ordered message history. Messages are appended
// during a loop execution and never edited in place; the only mutation is
// attaching finalized tool calls to the most recent assistant turn, which is
// done by appending a fresh assistant message at round end.
type Conversation struct {
	messages []*message.Message
}

// New creates an empty conversation.
func New() *Conversation {
	return &Conversation{messages: make([]*message.Message, 0, 8)}
}

// Add appends a message.
func (c *Conversation) Add(msg *message.Message) {
	if msg == nil {
		return
	}
	c.messages = append(c.messages, msg)
}

// Messages returns the current history slice.
func (c *Conversation) Messages() []*message.Message {
	return c.messages
}

// Last returns the most recent message or nil.
func (c *Conversation) Last() *message.Message {
	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1]
}

// Size returns the number of messages.
func (c *Conversation) Size() int {
	return len(c.messages)
}
