// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

func TestConversationTime(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	c := Conversation{Timestamp: ts.UnixMilli()}
	if !c.Time().Equal(ts) {
		t.Errorf("Time() = %v, want %v", c.Time(), ts)
	}
}

func TestWithoutMessages(t *testing.T) {
	c := Conversation{ID: 7, Title: "t", Messages: `[{"role":"user"}]`}
	stripped := c.WithoutMessages()

	if stripped.Messages != EmptyMessagesPayload {
		t.Errorf("Messages = %q, want %q", stripped.Messages, EmptyMessagesPayload)
	}
	if stripped.ID != 7 || stripped.Title != "t" {
		t.Error("WithoutMessages changed unrelated fields")
	}
	// Original must be untouched.
	if c.Messages == EmptyMessagesPayload {
		t.Error("WithoutMessages mutated the receiver")
	}
}

func TestEncodeDecodeMessages(t *testing.T) {
	msgs := []Message{
		NewUserMessage("hello"),
		NewAssistantMessage("hi there"),
	}

	encoded, err := EncodeMessages(msgs)
	if err != nil {
		t.Fatalf("EncodeMessages: %v", err)
	}

	decoded, err := Conversation{Messages: encoded}.DecodeMessages()
	if err != nil {
		t.Fatalf("DecodeMessages: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d messages, want 2", len(decoded))
	}
	if decoded[0].Role != RoleUser || decoded[0].Content != "hello" {
		t.Errorf("first message = %+v", decoded[0])
	}
	if decoded[1].Role != RoleAssistant {
		t.Errorf("second message role = %q", decoded[1].Role)
	}
	if decoded[0].ID == "" || decoded[0].ID == decoded[1].ID {
		t.Error("message IDs must be unique and non-empty")
	}
}

func TestDecodeMessagesEmpty(t *testing.T) {
	for _, payload := range []string{"", EmptyMessagesPayload} {
		msgs, err := Conversation{Messages: payload}.DecodeMessages()
		if err != nil {
			t.Fatalf("DecodeMessages(%q): %v", payload, err)
		}
		if len(msgs) != 0 {
			t.Errorf("DecodeMessages(%q) = %d messages, want 0", payload, len(msgs))
		}
	}
}

func TestDecodeMessagesMalformed(t *testing.T) {
	_, err := Conversation{Messages: "{not json"}.DecodeMessages()
	if err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestEncodeMessagesEmpty(t *testing.T) {
	encoded, err := EncodeMessages(nil)
	if err != nil {
		t.Fatalf("EncodeMessages: %v", err)
	}
	if encoded != EmptyMessagesPayload {
		t.Errorf("EncodeMessages(nil) = %q, want %q", encoded, EmptyMessagesPayload)
	}
}
