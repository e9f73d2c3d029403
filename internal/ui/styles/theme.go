// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/harbor-tui/internal/config"
)

// =============================================================================
// THEME RESOLUTION
// =============================================================================

// ResolveDark maps a stored theme preference to a concrete dark/light choice.
// "system" follows the terminal background; unknown values fall back to the
// system result rather than failing.
func ResolveDark(stored string, systemDark bool) bool {
	switch stored {
	case config.ThemeDark:
		return true
	case config.ThemeLight:
		return false
	default:
		return systemDark
	}
}

// SystemDark reports whether the terminal background is dark.
func SystemDark() bool {
	return termenv.HasDarkBackground()
}

// =============================================================================
// THEME
// =============================================================================

// Theme holds all the styled components for the application.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar           lipgloss.Style
	SidebarMarker     lipgloss.Style
	SidebarItem       lipgloss.Style
	SidebarSelected   lipgloss.Style
	SidebarEditInput  lipgloss.Style
	SidebarSearchBox  lipgloss.Style
	SidebarEmptyState lipgloss.Style
	NewChatButton     lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SystemBubble    lipgloss.Style
	Transcript      lipgloss.Style

	// ==========================================================================
	// TOAST STYLES
	// ==========================================================================

	ToastError   lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style

	// ==========================================================================
	// CHROME
	// ==========================================================================

	Header       lipgloss.Style
	StatusBar    lipgloss.Style
	ScrollButton lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
}

// NewTheme builds the theme for the resolved dark/light mode.
func NewTheme(isDark bool) *Theme {
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}

	t.Sidebar = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Border)

	t.SidebarMarker = lipgloss.NewStyle().
		Foreground(TextMuted).
		Bold(true).
		Padding(0, 1)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(Text).
		Padding(0, 1)

	t.SidebarSelected = lipgloss.NewStyle().
		Foreground(Indigo).
		Background(SurfaceBright).
		Bold(true).
		Padding(0, 1)

	t.SidebarEditInput = lipgloss.NewStyle().
		Foreground(Text).
		Background(SurfaceBright).
		Padding(0, 1)

	t.SidebarSearchBox = lipgloss.NewStyle().
		Foreground(Text).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	t.SidebarEmptyState = lipgloss.NewStyle().
		Foreground(TextFaint).
		Italic(true).
		Padding(1, 2)

	t.NewChatButton = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true).
		Padding(0, 1)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(Cyan).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(Text).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(0, 1)

	t.SystemBubble = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Padding(0, 1)

	t.Transcript = lipgloss.NewStyle().
		Background(Surface)

	t.ToastError = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.ToastSuccess = lipgloss.NewStyle().
		Foreground(Emerald).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Emerald).
		Padding(0, 1)

	t.ToastWarning = lipgloss.NewStyle().
		Foreground(Amber).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(0, 1)

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(Text).
		Bold(true).
		Padding(0, 1)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextMuted).
		Padding(0, 1)

	t.ScrollButton = lipgloss.NewStyle().
		Foreground(Indigo).
		Background(SurfaceBright).
		Bold(true).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	return t
}

// Resize updates the cached layout dimensions.
func (t *Theme) Resize(width, height int) {
	t.Width = width
	t.Height = height
}
