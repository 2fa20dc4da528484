package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"inncoin/bot/dispatch"
	"inncoin/config"

	"github.com/bwmarrin/discordgo"
)

// CommandSchema is the registration payload of both scopes
type CommandSchema struct {
	Guild  []*discordgo.ApplicationCommand `json:"guild"`
	Global []*discordgo.ApplicationCommand `json:"global"`
}

// PrintCommands writes the command schema as JSON without connecting
func PrintCommands(w io.Writer, cfg *config.Config) error {
	app := newApplication(cfg, nil)
	registry, err := app.registry(cfg, nil, nil)
	if err != nil {
		return err
	}

	schema := CommandSchema{
		Guild:  registry.ApplicationCommands(dispatch.ScopeGuild),
		Global: registry.ApplicationCommands(dispatch.ScopeGlobal),
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(schema); err != nil {
		return fmt.Errorf("failed to encode command schema: %w", err)
	}
	return nil
}
