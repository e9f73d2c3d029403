// harbor - a terminal chat client with a browser-style conversation sidebar.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/jeranaias/harbor-tui/internal/bus"
	"github.com/jeranaias/harbor-tui/internal/cli"
	"github.com/jeranaias/harbor-tui/internal/config"
	"github.com/jeranaias/harbor-tui/internal/logging"
	"github.com/jeranaias/harbor-tui/internal/nav"
	"github.com/jeranaias/harbor-tui/internal/storage"
	"github.com/jeranaias/harbor-tui/internal/ui/app"
	"github.com/jeranaias/harbor-tui/internal/ui/sidebar"
	"github.com/jeranaias/harbor-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	switch cmd {
	case cli.CmdTUI:
		runTUI(cfg)
	case cli.CmdSessions:
		logging.Disable()
		if err := cli.HandleSessions(cfg, args); err != nil {
			fatal(err)
		}
	case cli.CmdConfig:
		logging.Disable()
		if err := cli.HandleConfig(cfg, args); err != nil {
			fatal(err)
		}
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	}
}

func runTUI(cfg *config.Config) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fatal(fmt.Errorf("harbor requires a terminal; use 'harbor sessions' for scripted access"))
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		fatal(err)
	}
	closeLog, err := logging.Setup(cfg.Log.Level, logPath)
	if err != nil {
		fatal(err)
	}
	defer closeLog()

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		fatal(err)
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	events := bus.New()
	defer events.Close()

	navigator := nav.New()
	navigator.OnChange(func(path string) {
		log.Debug().Str("path", path).Msg("navigate")
	})
	theme := styles.NewTheme(styles.ResolveDark(cfg.UI.Theme, styles.SystemDark()))

	p := tea.NewProgram(
		app.New(cfg, store, events, navigator, theme),
		tea.WithAltScreen(),
	)

	// Bridge bus events into the program loop.
	busCh, cancelBus := events.Subscribe()
	defer cancelBus()
	go func() {
		for ev := range busCh {
			p.Send(sidebar.BusEventMsg{Event: ev})
		}
	}()

	// Pick up config edits made while the TUI is running.
	if cfgPath, err := config.ConfigPath(); err == nil {
		if watcher, err := config.Watch(cfgPath, func(next *config.Config) {
			p.Send(app.ConfigReloadedMsg{Config: next})
		}); err == nil {
			defer watcher.Close()
		} else {
			log.Warn().Err(err).Msg("config watcher unavailable")
		}
	}

	if _, err := p.Run(); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "harbor: %v\n", err)
	os.Exit(1)
}
