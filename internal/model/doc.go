// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// A Conversation is the unit the sidebar lists, renames and deletes. Its
// message payload is stored as an opaque JSON string; list views never decode
// it and substitute EmptyMessagesPayload instead so that large transcripts are
// never pulled into memory just to render a row.
package model
