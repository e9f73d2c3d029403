// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"time"
)

// TitleMaxRunes is the maximum title length accepted from the inline rename
// editor. Longer input is truncated, not rejected.
const TitleMaxRunes = 30

// EmptyMessagesPayload is the placeholder substituted for the message payload
// in every list view. The sidebar never needs message content.
const EmptyMessagesPayload = "[]"

// DefaultTitle is used for conversations created before any message exists.
const DefaultTitle = "New conversation"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a chat conversation as persisted by the store.
type Conversation struct {
	// Identity. ID is assigned by the store on creation.
	ID    int64  `json:"id"`
	Title string `json:"title"`

	// Configuration, opaque to the sidebar.
	Model        string `json:"model"`
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Messages is the serialized message payload (a JSON array). List views
	// carry EmptyMessagesPayload here instead of real content.
	Messages string `json:"messages"`

	// Timestamp is creation/last-activity time in epoch milliseconds. It is
	// the sole ordering and bucketing key and is never mutated by the sidebar.
	Timestamp int64 `json:"timestamp"`
}

// Time returns the conversation timestamp as a time.Time.
func (c Conversation) Time() time.Time {
	return time.UnixMilli(c.Timestamp)
}

// WithoutMessages returns a copy with the message payload replaced by the
// empty placeholder.
func (c Conversation) WithoutMessages() Conversation {
	c.Messages = EmptyMessagesPayload
	return c
}

// DecodeMessages parses the serialized payload. An empty payload decodes to an
// empty slice, not an error.
func (c Conversation) DecodeMessages() ([]Message, error) {
	if c.Messages == "" || c.Messages == EmptyMessagesPayload {
		return []Message{}, nil
	}
	var msgs []Message
	if err := json.Unmarshal([]byte(c.Messages), &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// EncodeMessages serializes messages into the payload form stored on a
// conversation row.
func EncodeMessages(msgs []Message) (string, error) {
	if len(msgs) == 0 {
		return EmptyMessagesPayload, nil
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
