// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements harbor's command-line surface.
//
// Running with no arguments launches the TUI; subcommands manage
// conversations and configuration from scripts without entering it.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies the requested top-level command.
type Command int

const (
	CmdTUI Command = iota
	CmdSessions
	CmdConfig
	CmdVersion
	CmdHelp
)

// Parse splits os.Args into a command and its remaining arguments.
func Parse() (Command, []string) {
	if len(os.Args) < 2 {
		return CmdTUI, nil
	}
	rest := os.Args[2:]
	switch os.Args[1] {
	case "sessions":
		return CmdSessions, rest
	case "config":
		return CmdConfig, rest
	case "version", "--version", "-v":
		return CmdVersion, rest
	case "help", "--help", "-h":
		return CmdHelp, rest
	default:
		return CmdTUI, os.Args[1:]
	}
}

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser handles subcommand arguments in both --flag value and
// --flag=value forms.
type ArgParser struct {
	subcommand string
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
}

// NewArgParser parses raw arguments.
func NewArgParser(raw []string) *ArgParser {
	p := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
	}

	i := 0
	for i < len(raw) {
		arg := raw[i]
		if !strings.HasPrefix(arg, "-") {
			p.positional = append(p.positional, arg)
			i++
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			p.flags[name[:eq]] = name[eq+1:]
			i++
			continue
		}
		if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
			p.flags[name] = raw[i+1]
			i += 2
			continue
		}
		p.boolFlags[name] = true
		i++
	}

	if len(p.positional) > 0 {
		p.subcommand = p.positional[0]
	}
	return p
}

// Subcommand returns the first positional argument.
func (p *ArgParser) Subcommand() string {
	return p.subcommand
}

// Positional returns the positional arguments after the subcommand.
func (p *ArgParser) Positional() []string {
	if len(p.positional) <= 1 {
		return nil
	}
	return p.positional[1:]
}

// Flag returns a string flag value, or "" when absent.
func (p *ArgParser) Flag(name string) string {
	return p.flags[name]
}

// BoolFlag reports whether a boolean flag was set.
func (p *ArgParser) BoolFlag(name string) bool {
	return p.boolFlags[name]
}

// =============================================================================
// HELP AND VERSION
// =============================================================================

// HandleVersion prints version information.
func HandleVersion() {
	fmt.Printf("harbor %s (%s, built %s)\n", Version, GitCommit, BuildDate)
}

// HandleHelp prints command usage.
func HandleHelp() {
	fmt.Print(`harbor - terminal chat client

Usage:
  harbor                      Launch the TUI
  harbor sessions list        List conversations
  harbor sessions search <q>  Search conversation titles
  harbor sessions rename <id> <title>
  harbor sessions delete <id>
  harbor config show          Print the active configuration
  harbor config set <key> <value>
  harbor version              Print version information

Flags:
  --json    Machine-readable output (sessions commands)
  --limit   Cap list/search results (default 200)
`)
}
