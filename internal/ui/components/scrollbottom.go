// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/harbor-tui/internal/ui/styles"
)

// =============================================================================
// SCROLL-TO-BOTTOM AFFORDANCE
// =============================================================================

// scrollButtonLabel is the affordance text. The arrow reads as "jump to the
// latest message".
const scrollButtonLabel = "↓ Latest"

// ScrollBottom tracks whether the transcript viewport sits at its bottom
// edge and renders the jump affordance when it does not.
type ScrollBottom struct {
	atBottom bool
}

// NewScrollBottom starts at the bottom, where a fresh transcript opens.
func NewScrollBottom() ScrollBottom {
	return ScrollBottom{atBottom: true}
}

// SetAtBottom records the viewport position after a scroll or content change.
func (s *ScrollBottom) SetAtBottom(atBottom bool) {
	s.atBottom = atBottom
}

// Visible reports whether the affordance should be drawn.
func (s ScrollBottom) Visible() bool {
	return !s.atBottom
}

// Render overlays the affordance onto the bottom edge of a rendered
// transcript region. When the viewport is already at the bottom the region
// is returned untouched.
func (s ScrollBottom) Render(theme *styles.Theme, region string, width int) string {
	if !s.Visible() || width <= 0 {
		return region
	}
	button := theme.ScrollButton.Render(scrollButtonLabel)
	overlay := lipgloss.PlaceHorizontal(width, lipgloss.Center, button)
	return lipgloss.JoinVertical(lipgloss.Left, region, overlay)
}
