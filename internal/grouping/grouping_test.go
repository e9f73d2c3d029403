// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package grouping

import (
	"testing"
	"time"

	"github.com/jeranaias/harbor-tui/internal/model"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func agoMillis(d time.Duration) int64 {
	return now.Add(-d).UnixMilli()
}

func TestBucket(t *testing.T) {
	tests := []struct {
		name string
		ts   int64
		want string
	}{
		{"same instant", now.UnixMilli(), LabelToday},
		{"23 hours ago", agoMillis(23 * time.Hour), LabelToday},
		{"exactly 24 hours ago", agoMillis(24 * time.Hour), LabelToday},
		{"25 hours ago", agoMillis(25 * time.Hour), LabelYesterday},
		{"exactly 48 hours ago", agoMillis(48 * time.Hour), LabelYesterday},
		{"3 days ago", agoMillis(3 * 24 * time.Hour), LabelPrevious7Days},
		{"6 days ago", agoMillis(6*24*time.Hour + time.Hour), LabelPrevious7Days},
		{"exactly 7 days ago", agoMillis(7 * 24 * time.Hour), LabelPrevious7Days},
		{"8 days ago", agoMillis(8*24*time.Hour + time.Hour), LabelPrevious30Days},
		{"29 days ago", agoMillis(29*24*time.Hour + time.Hour), LabelPrevious30Days},
		{"90 days ago", agoMillis(90 * 24 * time.Hour), "March"},
		{"last december", time.Date(2024, 12, 3, 0, 0, 0, 0, time.UTC).UnixMilli(), "December"},
		{"future timestamp", now.Add(5 * time.Hour).UnixMilli(), LabelToday},
		{"far future", now.Add(40 * 24 * time.Hour).UnixMilli(), "July"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bucket(now.UnixMilli(), tt.ts); got != tt.want {
				t.Errorf("Bucket = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroupEmpty(t *testing.T) {
	entries := Group(now.UnixMilli(), nil)
	if len(entries) != 0 {
		t.Errorf("Group(nil) produced %d entries, want 0", len(entries))
	}
}

func TestGroupInsertsMarkers(t *testing.T) {
	convs := []model.Conversation{
		{ID: 1, Timestamp: agoMillis(2 * time.Hour)},       // Today
		{ID: 2, Timestamp: agoMillis(5 * time.Hour)},       // Today
		{ID: 3, Timestamp: agoMillis(30 * time.Hour)},      // Yesterday
		{ID: 4, Timestamp: agoMillis(5 * 24 * time.Hour)},  // Previous 7 Days
		{ID: 5, Timestamp: agoMillis(6 * 24 * time.Hour)},  // Previous 7 Days
		{ID: 6, Timestamp: agoMillis(20 * 24 * time.Hour)}, // Previous 30 Days
	}

	entries := Group(now.UnixMilli(), convs)

	wantMarkers := []string{LabelToday, LabelYesterday, LabelPrevious7Days, LabelPrevious30Days}
	var markers []string
	var ids []int64
	for _, e := range entries {
		if e.IsMarker() {
			markers = append(markers, e.Marker)
		} else {
			ids = append(ids, e.Conversation.ID)
		}
	}

	if len(markers) != len(wantMarkers) {
		t.Fatalf("got %d markers %v, want %v", len(markers), markers, wantMarkers)
	}
	for i := range wantMarkers {
		if markers[i] != wantMarkers[i] {
			t.Errorf("marker[%d] = %q, want %q", i, markers[i], wantMarkers[i])
		}
	}

	// Conversation order must survive grouping untouched.
	for i, id := range ids {
		if id != int64(i+1) {
			t.Errorf("ids = %v, order not preserved", ids)
			break
		}
	}

	// First entry is always a marker.
	if !entries[0].IsMarker() {
		t.Error("first entry should be a marker")
	}
}

func TestGroupSortsUnsortedInput(t *testing.T) {
	// Input arrives in arbitrary order; Group owns the descending sort, so
	// every label appears exactly once.
	convs := []model.Conversation{
		{ID: 1, Timestamp: agoMillis(time.Hour)},      // Today
		{ID: 2, Timestamp: agoMillis(30 * time.Hour)}, // Yesterday
		{ID: 3, Timestamp: agoMillis(2 * time.Hour)},  // Today
	}

	entries := Group(now.UnixMilli(), convs)

	markerCount := 0
	var timestamps []int64
	for _, e := range entries {
		if e.IsMarker() {
			markerCount++
		} else {
			timestamps = append(timestamps, e.Conversation.Timestamp)
		}
	}
	if markerCount != 2 {
		t.Errorf("got %d markers, want 2 (one per label)", markerCount)
	}
	for i := 1; i < len(timestamps); i++ {
		if timestamps[i] > timestamps[i-1] {
			t.Fatalf("timestamps not descending: %v", timestamps)
		}
	}

	// The input slice is left untouched.
	if convs[0].ID != 1 || convs[1].ID != 2 || convs[2].ID != 3 {
		t.Error("Group reordered the input slice")
	}
}

func TestGroupSingleSection(t *testing.T) {
	convs := []model.Conversation{
		{ID: 1, Timestamp: agoMillis(time.Hour)},
		{ID: 2, Timestamp: agoMillis(2 * time.Hour)},
		{ID: 3, Timestamp: agoMillis(3 * time.Hour)},
	}

	entries := Group(now.UnixMilli(), convs)
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4 (1 marker + 3 conversations)", len(entries))
	}
	if entries[0].Marker != LabelToday {
		t.Errorf("marker = %q, want %q", entries[0].Marker, LabelToday)
	}
}
