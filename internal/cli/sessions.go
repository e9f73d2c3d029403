// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jeranaias/harbor-tui/internal/config"
	"github.com/jeranaias/harbor-tui/internal/model"
	"github.com/jeranaias/harbor-tui/internal/storage"
	"github.com/jeranaias/harbor-tui/internal/util"
)

// =============================================================================
// SESSIONS COMMAND
// =============================================================================

// HandleSessions dispatches the sessions subcommands.
func HandleSessions(cfg *config.Config, args []string) error {
	p := NewArgParser(args)

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return err
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	limit := cfg.Database.ListLimit
	if v := p.Flag("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid --limit %q", v)
		}
		limit = n
	}

	ctx := context.Background()
	switch p.Subcommand() {
	case "", "list":
		convs, err := store.ListRecent(ctx, limit)
		if err != nil {
			return err
		}
		return printConversations(convs, p.BoolFlag("json"))
	case "search":
		rest := p.Positional()
		if len(rest) == 0 {
			return fmt.Errorf("usage: harbor sessions search <query>")
		}
		convs, err := store.SearchByTitle(ctx, rest[0], limit)
		if err != nil {
			return err
		}
		return printConversations(convs, p.BoolFlag("json"))
	case "rename":
		rest := p.Positional()
		if len(rest) < 2 {
			return fmt.Errorf("usage: harbor sessions rename <id> <title>")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		title := util.TruncateRunesNoEllipsis(rest[1], cfg.UI.TitleMaxRunes)
		if err := store.Rename(ctx, id, title); err != nil {
			return err
		}
		fmt.Printf("Renamed conversation %d\n", id)
		return nil
	case "delete":
		rest := p.Positional()
		if len(rest) == 0 {
			return fmt.Errorf("usage: harbor sessions delete <id>")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted conversation %d\n", id)
		return nil
	default:
		return fmt.Errorf("unknown sessions subcommand %q", p.Subcommand())
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid conversation id %q", s)
	}
	return id, nil
}

func printConversations(convs []model.Conversation, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(convs)
	}
	if len(convs) == 0 {
		fmt.Println("No conversations")
		return nil
	}
	for _, c := range convs {
		fmt.Printf("%6d  %s  %s\n",
			c.ID,
			c.Time().Format(time.DateTime),
			util.TruncateWidth(c.Title, 60))
	}
	return nil
}

// =============================================================================
// CONFIG COMMAND
// =============================================================================

// HandleConfig dispatches the config subcommands.
func HandleConfig(cfg *config.Config, args []string) error {
	p := NewArgParser(args)

	switch p.Subcommand() {
	case "", "show":
		fmt.Printf("theme       = %s\n", cfg.UI.Theme)
		dbPath, _ := cfg.DatabasePath()
		fmt.Printf("database    = %s\n", dbPath)
		fmt.Printf("list_limit  = %d\n", cfg.Database.ListLimit)
		fmt.Printf("log_level   = %s\n", cfg.Log.Level)
		return nil
	case "set":
		rest := p.Positional()
		if len(rest) < 2 {
			return fmt.Errorf("usage: harbor config set <key> <value>")
		}
		key, value := rest[0], rest[1]
		switch key {
		case "theme":
			cfg.UI.Theme = value
		case "default_model":
			cfg.DefaultModel = value
		case "log_level":
			cfg.Log.Level = value
		default:
			return fmt.Errorf("unknown config key %q", key)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return config.Save(cfg)
	default:
		return fmt.Errorf("unknown config subcommand %q", p.Subcommand())
	}
}
