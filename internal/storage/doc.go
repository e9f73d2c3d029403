// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists conversations in a local SQLite database.
//
// The store is the single source of truth for conversation rows. List and
// search queries substitute an empty message payload so the sidebar never
// loads transcripts it will not render. All methods take a context and
// return explicit errors; ErrNotFound distinguishes a missing row from a
// database failure.
package storage
