package commands

import "github.com/orbitalbot/dashboard/internal/gateways/discord"

type MergeResult struct {
	Commands []Command
	Added    int
	Removed  int
}

// MergeExternal reconciles local commands with the set registered on Discord.
// Discord owns identity and non-empty text; the dashboard owns enabled, usage and last use.
// Local commands missing from external are dropped.
func MergeExternal(local []Command, external []discord.CommandDefinition) MergeResult {
	byID := make(map[string]Command, len(local))
	for _, c := range local {
		byID[c.ID] = c
	}

	result := MergeResult{Commands: make([]Command, 0, len(external))}
	seen := make(map[string]struct{}, len(external))
	for _, def := range external {
		if _, dup := seen[def.ID]; dup {
			continue
		}
		seen[def.ID] = struct{}{}

		cmd, ok := byID[def.ID]
		if !ok {
			cmd = Command{
				ID:       def.ID,
				Enabled:  true,
				Category: DefaultCategory,
			}
			result.Added++
		}
		if def.Name != "" {
			cmd.Name = def.Name
		}
		if def.Description != "" {
			cmd.Description = def.Description
		}
		if def.Category != "" {
			cmd.Category = def.Category
		}
		result.Commands = append(result.Commands, cmd)
	}

	for id := range byID {
		if _, ok := seen[id]; !ok {
			result.Removed++
		}
	}
	return result
}
