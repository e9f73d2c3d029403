// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package grouping assigns conversations to date sections for the sidebar.
//
// A conversation's section is determined by elapsed whole days between now
// and its activity timestamp, rounded up. One elapsed day is "Today", two is
// "Yesterday", up to seven is "Previous 7 Days", up to thirty is "Previous
// 30 Days", and anything older is labelled with the month of the
// conversation itself. The distance is taken as an absolute value, so a
// clock-skewed future timestamp still lands in a section instead of
// disappearing.
package grouping

import (
	"sort"
	"time"

	"github.com/jeranaias/harbor-tui/internal/model"
)

// =============================================================================
// BUCKETS
// =============================================================================

const (
	LabelToday          = "Today"
	LabelYesterday      = "Yesterday"
	LabelPrevious7Days  = "Previous 7 Days"
	LabelPrevious30Days = "Previous 30 Days"
)

const millisPerDay = 24 * 60 * 60 * 1000

// Bucket returns the section label for a conversation timestamp relative to
// now. Both are epoch milliseconds.
func Bucket(nowMillis, tsMillis int64) string {
	delta := nowMillis - tsMillis
	if delta < 0 {
		delta = -delta
	}

	// Ceiling division: any nonzero remainder counts as a full day, so a
	// conversation 23 hours old has one elapsed day and an exactly-24-hour
	// one still reads as "Today".
	days := (delta + millisPerDay - 1) / millisPerDay

	switch {
	case days <= 1:
		return LabelToday
	case days == 2:
		return LabelYesterday
	case days <= 7:
		return LabelPrevious7Days
	case days <= 30:
		return LabelPrevious30Days
	default:
		return time.UnixMilli(tsMillis).Month().String()
	}
}

// =============================================================================
// SECTION MARKERS
// =============================================================================

// Entry is one row of the grouped sidebar list: either a section marker or a
// conversation.
type Entry struct {
	// Marker holds the section label for marker rows and is empty for
	// conversation rows.
	Marker       string
	Conversation model.Conversation
}

// IsMarker reports whether the entry is a section marker row.
func (e Entry) IsMarker() bool {
	return e.Marker != ""
}

// Group sorts the conversations newest first and inserts a marker entry in
// front of every run that shares a section label. Input order does not
// matter; the input slice is not modified. A single pass tracks the
// previous label, starting from the empty string so the first conversation
// always produces a marker, and the sort guarantees each label appears at
// most once.
func Group(nowMillis int64, convs []model.Conversation) []Entry {
	sorted := make([]model.Conversation, len(convs))
	copy(sorted, convs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})

	entries := make([]Entry, 0, len(convs))
	prev := ""
	for _, c := range sorted {
		label := Bucket(nowMillis, c.Timestamp)
		if label != prev {
			entries = append(entries, Entry{Marker: label})
			prev = label
		}
		entries = append(entries, Entry{Conversation: c})
	}
	return entries
}
