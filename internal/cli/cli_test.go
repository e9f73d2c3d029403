// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestArgParserSubcommand(t *testing.T) {
	p := NewArgParser([]string{"search", "grocery", "--json"})

	if p.Subcommand() != "search" {
		t.Errorf("Subcommand = %q", p.Subcommand())
	}
	if got := p.Positional(); len(got) != 1 || got[0] != "grocery" {
		t.Errorf("Positional = %v", got)
	}
	if !p.BoolFlag("json") {
		t.Error("BoolFlag(json) = false")
	}
}

func TestArgParserFlagForms(t *testing.T) {
	p := NewArgParser([]string{"list", "--limit", "50", "--format=table"})

	if p.Flag("limit") != "50" {
		t.Errorf("Flag(limit) = %q", p.Flag("limit"))
	}
	if p.Flag("format") != "table" {
		t.Errorf("Flag(format) = %q", p.Flag("format"))
	}
}

func TestArgParserEmpty(t *testing.T) {
	p := NewArgParser(nil)
	if p.Subcommand() != "" {
		t.Errorf("Subcommand = %q, want empty", p.Subcommand())
	}
	if p.Positional() != nil {
		t.Errorf("Positional = %v, want nil", p.Positional())
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("42"); err != nil || id != 42 {
		t.Errorf("parseID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"0", "-3", "abc", ""} {
		if _, err := parseID(bad); err == nil {
			t.Errorf("parseID(%q) accepted", bad)
		}
	}
}
