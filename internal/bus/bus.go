// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bus provides an in-process publish/subscribe channel for
// conversation lifecycle events.
//
// Producers (the chat view, the CLI, background jobs) publish events;
// the sidebar subscribes so it can react to conversations created or
// changed outside its own handlers. Delivery is ordered per subscriber:
// events arrive in the order they were published.
package bus

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jeranaias/harbor-tui/internal/model"
)

// =============================================================================
// EVENTS
// =============================================================================

// Event is the marker interface for bus events.
type Event interface {
	isEvent()
}

// ConversationCreated is published when a new conversation has been persisted.
// Subscribers receive the conversation with its message payload stripped.
type ConversationCreated struct {
	Conversation model.Conversation
}

// ConversationRenamed is published after a title change has been persisted.
type ConversationRenamed struct {
	ID    int64
	Title string
}

// ConversationDeleted is published after a conversation has been removed.
type ConversationDeleted struct {
	ID int64
}

func (ConversationCreated) isEvent() {}
func (ConversationRenamed) isEvent() {}
func (ConversationDeleted) isEvent() {}

// =============================================================================
// BUS
// =============================================================================

// subscriberBuffer bounds how far a slow subscriber may lag before
// publishes start dropping events for it.
const subscriberBuffer = 64

// Bus fans events out to all current subscribers.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber. The returned channel receives every
// event published after this call, in publish order. The cancel function
// removes the subscription and closes the channel; it is safe to call more
// than once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Publish delivers event to every subscriber. It never blocks: a subscriber
// whose buffer is full loses the event and the drop is logged.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			log.Warn().Int("subscriber", id).Type("event", event).
				Msg("event bus subscriber buffer full, dropping event")
		}
	}
}

// Close removes all subscribers and closes their channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
