package mock

import (
	"errors"

	"github.com/orbitalbot/dashboard/internal/gateways/discord"
)

var Guilds = []discord.Guild{
	{ID: "111", Name: "Gaming Hub", MemberCount: 1200},
	{ID: "222", Name: "Study Group", MemberCount: 87},
}

var Definitions = []discord.CommandDefinition{
	{ID: "1", Name: "help", Description: "Mostra todos os comandos"},
	{ID: "9", Name: "avatar", Description: "Mostra o avatar de um usuário"},
	{ID: "42", Name: "ping", Description: "Latência do bot"},
}

// Unavailable is what every failed gateway call looks like to callers.
var Unavailable = &discord.UpstreamError{Op: "test", Err: errors.New("connection refused")}
