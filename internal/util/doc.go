// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the harbor TUI.
//
// This package contains common helper functions used throughout the
// application for string truncation and crash-safe file writing.
package util
